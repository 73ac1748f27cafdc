package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/utils"
)

// adviceWindow is how far back the advice prompt looks
const adviceWindow = 24 * time.Hour

// AdviceService asks the model for a suggestion based on the last day of data
type AdviceService struct {
	ai       domain.AIProvider
	readings domain.GlucoseRepository
	entries  domain.LogEntryRepository
	loc      *time.Location
	now      func() time.Time
}

// NewAdviceService writes prompt times as clock times in loc; nil means UTC
func NewAdviceService(ai domain.AIProvider, readings domain.GlucoseRepository, entries domain.LogEntryRepository, loc *time.Location) *AdviceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdviceService{
		ai:       ai,
		readings: readings,
		entries:  entries,
		loc:      loc,
		now:      time.Now,
	}
}

// Advice returns the model's suggestion as Markdown
func (s *AdviceService) Advice(ctx context.Context, userID uint) (string, error) {
	since := s.now().Add(-adviceWindow)

	readings, err := s.readings.Since(ctx, userID, since)
	if err != nil {
		return "", err
	}
	entries, err := s.entries.ListSince(ctx, userID, since)
	if err != nil {
		return "", err
	}

	reply, err := s.ai.Complete(ctx, buildAdvicePrompt(readings, entries, s.loc))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "AI")
	}
	return strings.TrimSpace(reply), nil
}

func buildAdvicePrompt(readings []domain.GlucoseReading, entries []domain.LogEntry, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("Here is my diabetes data from the last 24 hours.\n\n")

	sb.WriteString("Glucose readings (mg/dL):\n")
	if len(readings) == 0 {
		sb.WriteString("- none recorded\n")
	}
	for _, r := range readings {
		fmt.Fprintf(&sb, "- %s: %.0f\n", utils.ClockLabel(r.Time.In(loc)), r.Value)
	}

	sb.WriteString("\nFood and exercise:\n")
	if len(entries) == 0 {
		sb.WriteString("- none recorded\n")
	}
	for _, e := range entries {
		switch e.Type {
		case domain.EntryFood:
			fmt.Fprintf(&sb, "- %s ate %s (%.1f g carbs)\n", utils.ClockLabel(e.Timestamp.In(loc)), e.Name, e.Details.Carbs())
		case domain.EntryExercise:
			fmt.Fprintf(&sb, "- %s did %s for %d minutes, intensity %s\n", utils.ClockLabel(e.Timestamp.In(loc)), e.Name, e.Details.Minutes(), e.Details.IntensityLevel)
		}
	}

	sb.WriteString("\nGive me one or two short, practical suggestions for today in Markdown. ")
	sb.WriteString("Point out highs or lows you notice and how they relate to my meals and exercise.")
	return sb.String()
}
