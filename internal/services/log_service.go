package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logbook"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
)

// LogService manages the user's food and exercise log
type LogService struct {
	entries  domain.LogEntryRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewLogService(entries domain.LogEntryRepository) *LogService {
	return &LogService{
		entries:  entries,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create stores an entry of the given type for userID. A zero timestamp means now.
func (s *LogService) Create(ctx context.Context, userID uint, entryType domain.EntryType, entry *domain.LogEntry) (*domain.LogEntry, error) {
	if entry == nil {
		return nil, apperrors.NewValidationError("log entry is required")
	}
	e := *entry
	e.ID = 0
	e.UserID = userID
	e.Name = strings.TrimSpace(e.Name)
	if e.Type == "" {
		e.Type = entryType
	}
	if e.Type != entryType {
		return nil, apperrors.NewValidationError(fmt.Sprintf("entry type must be %s", entryType))
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}

	if err := s.check(&e); err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, &e); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("Log entry created", "user_id", userID, "entry_id", e.ID, "type", e.Type)
	return &e, nil
}

// CreateFromForm stores an entry submitted through the add-log form
func (s *LogService) CreateFromForm(ctx context.Context, userID uint, form logbook.EntryForm) (*domain.LogEntry, error) {
	entry, err := form.ToEntry(s.now())
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, userID, entry.Type, entry)
}

// List returns the user's entries filtered and sorted
func (s *LogService) List(ctx context.Context, userID uint, f logbook.Filter, order logbook.Sort) ([]domain.LogEntry, error) {
	entries, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return order.Apply(f.Apply(entries)), nil
}

// Since returns the entries recorded after since, oldest first
func (s *LogService) Since(ctx context.Context, userID uint, since time.Time) ([]domain.LogEntry, error) {
	return s.entries.ListSince(ctx, userID, since)
}

// Get returns one of the user's entries
func (s *LogService) Get(ctx context.Context, userID, id uint) (*domain.LogEntry, error) {
	return s.entries.Get(ctx, userID, id)
}

// ToggleStar sets the star of an entry the user owns
func (s *LogService) ToggleStar(ctx context.Context, userID, id uint, starred bool) (*domain.LogEntry, error) {
	if id == 0 {
		return nil, apperrors.NewValidationError("entry_id is required")
	}
	return s.entries.SetStarred(ctx, userID, id, starred)
}

// Starred returns the starred entries sorted by name, at most logbook.StarredLimit
func (s *LogService) Starred(ctx context.Context, userID uint) ([]domain.LogEntry, error) {
	entries, err := s.entries.ListStarred(ctx, userID)
	if err != nil {
		return nil, err
	}
	sorted := logbook.Sort{Field: logbook.SortByName}.Apply(entries)
	return logbook.Limit(sorted, logbook.StarredLimit), nil
}

func (s *LogService) check(e *domain.LogEntry) error {
	if err := s.validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.NewValidationError(describeField(verrs[0]))
		}
		return apperrors.NewValidationError(err.Error())
	}
	return logbook.CheckDetails(e)
}

func describeField(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}
