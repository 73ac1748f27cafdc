package services

import (
	"context"
	"math"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
)

// Plausible range for a reading in mg/dL
const (
	minGlucose = 10
	maxGlucose = 1000
)

// SourceManual marks readings typed in by the user
const SourceManual = "manual"

// GlucoseService records and lists glucose readings
type GlucoseService struct {
	readings domain.GlucoseRepository
	now      func() time.Time
}

func NewGlucoseService(readings domain.GlucoseRepository) *GlucoseService {
	return &GlucoseService{
		readings: readings,
		now:      time.Now,
	}
}

// AddReading stores a manual reading; a zero time means now
func (s *GlucoseService) AddReading(ctx context.Context, userID uint, value float64, at time.Time) (*domain.GlucoseReading, error) {
	if math.IsNaN(value) || value < minGlucose || value > maxGlucose {
		return nil, apperrors.NewValidationError("glucose value must be between 10 and 1000 mg/dL")
	}
	if at.IsZero() {
		at = s.now()
	}
	if at.After(s.now().Add(5 * time.Minute)) {
		return nil, apperrors.NewValidationError("reading time cannot be in the future")
	}

	reading := &domain.GlucoseReading{
		UserID: userID,
		Time:   at.Truncate(time.Second),
		Value:  value,
		Source: SourceManual,
	}
	if err := s.readings.Add(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

// Readings returns the readings recorded after since, oldest first
func (s *GlucoseService) Readings(ctx context.Context, userID uint, since time.Time) ([]domain.GlucoseReading, error) {
	return s.readings.Since(ctx, userID, since)
}

// Recent returns the readings of the last window
func (s *GlucoseService) Recent(ctx context.Context, userID uint, window time.Duration) ([]domain.GlucoseReading, error) {
	return s.Readings(ctx, userID, s.now().Add(-window))
}
