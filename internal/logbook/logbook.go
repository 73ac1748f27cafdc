// Package logbook filters, sorts and parses the food and exercise log shown on the logs pages.
package logbook

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StarredLimit is how many entries the starred page shows
const StarredLimit = 5

// SortField selects the key entries are ordered by
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByName      SortField = "name"
)

// Filter restricts a list of entries
type Filter struct {
	Types       []domain.EntryType
	StarredOnly bool
}

// Active reports whether the filter removes anything
func (f Filter) Active() bool {
	return len(f.Types) > 0 || f.StarredOnly
}

// Has reports whether t is selected
func (f Filter) Has(t domain.EntryType) bool {
	for _, s := range f.Types {
		if s == t {
			return true
		}
	}
	return false
}

// Apply returns the entries that pass the filter, keeping their order
func (f Filter) Apply(entries []domain.LogEntry) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(entries))
	for _, e := range entries {
		if len(f.Types) > 0 && !f.Has(e.Type) {
			continue
		}
		if f.StarredOnly && !e.Starred {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Sort orders a list of entries
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort shows the newest entries first
var DefaultSort = Sort{Field: SortByTimestamp, Desc: true}

// Apply returns a sorted copy; the input is left untouched
func (s Sort) Apply(entries []domain.LogEntry) []domain.LogEntry {
	out := make([]domain.LogEntry, len(entries))
	copy(out, entries)

	var compare func(a, b domain.LogEntry) int
	switch s.Field {
	case SortByName:
		// collate.Collator is not safe for concurrent use
		col := collate.New(language.English)
		compare = func(a, b domain.LogEntry) int { return col.CompareString(a.Name, b.Name) }
	default:
		compare = func(a, b domain.LogEntry) int { return a.Timestamp.Compare(b.Timestamp) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if c == 0 {
			c = compareID(out[i].ID, out[j].ID)
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareID(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Query returns the sort as query parameters
func (s Sort) Query() (field, order string) {
	order = "asc"
	if s.Desc {
		order = "desc"
	}
	return string(s.Field), order
}

// ParseQuery reads the list toggles: type (repeatable), starred, sort and order
func ParseQuery(q url.Values) (Filter, Sort) {
	var f Filter
	for _, raw := range q["type"] {
		for _, part := range strings.Split(raw, ",") {
			t := domain.EntryType(strings.TrimSpace(part))
			if t.Valid() && !f.Has(t) {
				f.Types = append(f.Types, t)
			}
		}
	}
	f.StarredOnly, _ = strconv.ParseBool(q.Get("starred"))

	s := DefaultSort
	switch SortField(q.Get("sort")) {
	case SortByName:
		s = Sort{Field: SortByName}
	case SortByTimestamp:
		s = Sort{Field: SortByTimestamp}
	}
	switch strings.ToLower(q.Get("order")) {
	case "asc":
		s.Desc = false
	case "desc":
		s.Desc = true
	}
	return f, s
}

// Encode writes filter and sort back into query parameters
func Encode(f Filter, s Sort) url.Values {
	q := url.Values{}
	for _, t := range f.Types {
		q.Add("type", string(t))
	}
	if f.StarredOnly {
		q.Set("starred", "true")
	}
	field, order := s.Query()
	q.Set("sort", field)
	q.Set("order", order)
	return q
}

// Limit keeps at most the first n entries
func Limit(entries []domain.LogEntry, n int) []domain.LogEntry {
	if n < 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// EntryForm is the add-log form as submitted
type EntryForm struct {
	Type           string `form:"type" json:"type"`
	Name           string `form:"name" json:"name"`
	TotalCarbs     string `form:"total_carbs" json:"total_carbs"`
	TimeSpent      string `form:"time_spent" json:"time_spent"`
	IntensityLevel string `form:"intensity_level" json:"intensity_level"`
}

// ToEntry builds an unstarred entry stamped with now
func (f EntryForm) ToEntry(now time.Time) (*domain.LogEntry, error) {
	entry := &domain.LogEntry{
		Name:      strings.TrimSpace(f.Name),
		Type:      domain.EntryType(strings.TrimSpace(f.Type)),
		Timestamp: now,
		Starred:   false,
	}
	if entry.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	switch entry.Type {
	case domain.EntryFood:
		carbs, err := strconv.ParseFloat(strings.TrimSpace(f.TotalCarbs), 64)
		if err != nil {
			return nil, apperrors.NewValidationError("total carbs must be a number").WithContext("value", f.TotalCarbs)
		}
		if err := checkCarbs(carbs); err != nil {
			return nil, err
		}
		entry.Details = domain.FoodDetails(carbs)
	case domain.EntryExercise:
		minutes, err := strconv.Atoi(strings.TrimSpace(f.TimeSpent))
		if err != nil {
			return nil, apperrors.NewValidationError("time spent must be a whole number of minutes").WithContext("value", f.TimeSpent)
		}
		if minutes < 0 {
			return nil, apperrors.NewValidationError("time spent cannot be negative")
		}
		intensity := strings.TrimSpace(f.IntensityLevel)
		if intensity == "" {
			return nil, apperrors.NewValidationError("intensity level is required")
		}
		entry.Details = domain.ExerciseDetails(minutes, intensity)
	default:
		return nil, apperrors.NewValidationError("type must be food or exercise")
	}
	return entry, nil
}

// CheckDetails verifies that the fields the type requires are present
func CheckDetails(e *domain.LogEntry) error {
	switch e.Type {
	case domain.EntryFood:
		if e.Details.TotalCarbs == nil {
			return apperrors.NewValidationError("total_carbs is required for food")
		}
		if err := checkCarbs(*e.Details.TotalCarbs); err != nil {
			return err
		}
	case domain.EntryExercise:
		if e.Details.TimeSpent == nil || strings.TrimSpace(e.Details.IntensityLevel) == "" {
			return apperrors.NewValidationError("time_spent and intensity_level are required for exercise")
		}
	default:
		return apperrors.NewValidationError("type must be food or exercise")
	}
	return nil
}

func checkCarbs(carbs float64) error {
	if math.IsNaN(carbs) || math.IsInf(carbs, 0) {
		return apperrors.NewValidationError("total carbs must be a number")
	}
	if carbs < 0 {
		return apperrors.NewValidationError("total carbs cannot be negative")
	}
	return nil
}
