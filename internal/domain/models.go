package domain

import (
	"time"
)

// EntryType tags a log entry as food or exercise
type EntryType string

const (
	EntryFood     EntryType = "food"
	EntryExercise EntryType = "exercise"
)

// Valid reports whether t is one of the known entry types
func (t EntryType) Valid() bool {
	return t == EntryFood || t == EntryExercise
}

// EntryTypes lists every entry type in display order
var EntryTypes = []EntryType{EntryFood, EntryExercise}

// User is an account that owns log entries and glucose readings
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Details holds the type specific fields of a log entry.
// Food uses TotalCarbs, exercise uses TimeSpent and IntensityLevel.
type Details struct {
	TotalCarbs     *float64 `json:"total_carbs,omitempty"`
	TimeSpent      *int     `json:"time_spent,omitempty"`
	IntensityLevel string   `json:"intensity_level,omitempty"`
}

// FoodDetails builds the details of a food entry
func FoodDetails(totalCarbs float64) Details {
	return Details{TotalCarbs: &totalCarbs}
}

// ExerciseDetails builds the details of an exercise entry
func ExerciseDetails(timeSpent int, intensity string) Details {
	return Details{TimeSpent: &timeSpent, IntensityLevel: intensity}
}

// Carbs returns the total carbs or zero
func (d Details) Carbs() float64 {
	if d.TotalCarbs == nil {
		return 0
	}
	return *d.TotalCarbs
}

// Minutes returns the time spent or zero
func (d Details) Minutes() int {
	if d.TimeSpent == nil {
		return 0
	}
	return *d.TimeSpent
}

// LogEntry is a food or exercise event recorded by a user
type LogEntry struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Type      EntryType `json:"type" validate:"required,oneof=food exercise"`
	Timestamp time.Time `json:"timestamp"`
	Starred   bool      `json:"starred"`
	Details   Details   `json:"details"`
}

// GlucoseReading is a single CGM or manual glucose value in mg/dL
type GlucoseReading struct {
	ID     uint      `json:"-"`
	UserID uint      `json:"-"`
	Time   time.Time `json:"systemTime"`
	Value  float64   `json:"value"`
	Source string    `json:"-"`
}

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser  Sender = "user"
	SenderRobot Sender = "robot"
)

// ChatMessage is one bubble of the chatbot conversation
type ChatMessage struct {
	Content string `json:"content"`
	Sender  Sender `json:"sender"`
}

// FoodAnalysis is the model's reading of a meal photo
type FoodAnalysis struct {
	MealName   string  `json:"meal_name"`
	TotalCarbs float64 `json:"total_carbs"`
	Reason     string  `json:"reason"`
	ImagePath  string  `json:"-"`
}
