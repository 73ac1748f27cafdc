package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/config"
	"github.com/vladimiradmaev/sweet-friend/internal/database/migrations"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"not null"`
}

type LogEntry struct {
	gorm.Model
	UserID         uint      `gorm:"index;not null"`
	Name           string    `gorm:"size:200;not null"`
	Type           string    `gorm:"size:16;not null"`
	Timestamp      time.Time `gorm:"index"`
	Starred        bool      `gorm:"default:false"`
	TotalCarbs     *float64  // food only
	TimeSpent      *int      // exercise only, minutes
	IntensityLevel string    // exercise only
}

type GlucoseReading struct {
	ID         uint      `gorm:"primaryKey"`
	CreatedAt  time.Time
	UserID     uint      `gorm:"uniqueIndex:idx_glucose_user_time;not null"`
	SystemTime time.Time `gorm:"uniqueIndex:idx_glucose_user_time;not null"`
	Value      float64
	Source     string `gorm:"size:16"` // "manual" or "dexcom"
}

type DexcomToken struct {
	UserID       uint `gorm:"primaryKey;autoIncrement:false"`
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	UpdatedAt    time.Time
}

// ToDomain converts the row into the API shape
func (e LogEntry) ToDomain() domain.LogEntry {
	return domain.LogEntry{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		Type:      domain.EntryType(e.Type),
		Timestamp: e.Timestamp,
		Starred:   e.Starred,
		Details: domain.Details{
			TotalCarbs:     e.TotalCarbs,
			TimeSpent:      e.TimeSpent,
			IntensityLevel: e.IntensityLevel,
		},
	}
}

// LogEntryFromDomain builds a row from the API shape
func LogEntryFromDomain(e domain.LogEntry) LogEntry {
	row := LogEntry{
		UserID:         e.UserID,
		Name:           e.Name,
		Type:           string(e.Type),
		Timestamp:      e.Timestamp,
		Starred:        e.Starred,
		TotalCarbs:     e.Details.TotalCarbs,
		TimeSpent:      e.Details.TimeSpent,
		IntensityLevel: e.Details.IntensityLevel,
	}
	row.ID = e.ID
	return row
}

// ToDomain converts the row into the API shape
func (r GlucoseReading) ToDomain() domain.GlucoseReading {
	return domain.GlucoseReading{
		ID:     r.ID,
		UserID: r.UserID,
		Time:   r.SystemTime,
		Value:  r.Value,
		Source: r.Source,
	}
}

// ToDomain converts the row into the API shape
func (u User) ToDomain() domain.User {
	return domain.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// Open connects to the configured database and brings the schema up to date
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	applied, err := Migrate(db)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed", "driver", cfg.Driver, "applied", len(applied))
	return db, nil
}

// Connect opens the configured database without touching the schema
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		dialector = sqlite.Open(cfg.SQLitePath + "?_busy_timeout=5000")
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables, applies the registered migrations and returns
// the IDs of the ones that ran
func Migrate(db *gorm.DB) ([]string, error) {
	if err := db.AutoMigrate(&User{}, &LogEntry{}, &GlucoseReading{}, &DexcomToken{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(migrations.Files); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := migrations.RunMigrations(db)
	if err != nil {
		return applied, fmt.Errorf("failed to run migrations: %w", err)
	}
	return applied, nil
}
