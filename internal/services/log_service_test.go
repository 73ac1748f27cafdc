package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logbook"
	"github.com/vladimiradmaev/sweet-friend/internal/repository"
	"github.com/vladimiradmaev/sweet-friend/internal/testutil"
)

func newLogService(t *testing.T) (*LogService, uint, uint) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewLogService(repository.New(db).LogEntries)
	svc.now = func() time.Time { return time.Date(2024, 9, 21, 12, 0, 0, 0, time.UTC) }
	return svc, testutil.CreateUser(t, db, "alice"), testutil.CreateUser(t, db, "bob")
}

func TestLogServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newLogService(t)

	e, err := svc.Create(ctx, alice, domain.EntryFood, &domain.LogEntry{Name: " Apple ", Details: domain.FoodDetails(25)})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	assert.Equal(t, alice, e.UserID)
	assert.Equal(t, "Apple", e.Name)
	assert.Equal(t, domain.EntryFood, e.Type)
	assert.Equal(t, svc.now(), e.Timestamp.UTC())

	_, err = svc.Create(ctx, alice, domain.EntryExercise, &domain.LogEntry{Name: "Apple", Type: domain.EntryFood, Details: domain.FoodDetails(1)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "type must match the endpoint")

	_, err = svc.Create(ctx, alice, domain.EntryExercise, &domain.LogEntry{Name: "Run", Details: domain.Details{IntensityLevel: "High"}})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "time spent is required")

	_, err = svc.Create(ctx, alice, domain.EntryFood, &domain.LogEntry{Details: domain.FoodDetails(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLogServiceListAndStar(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := newLogService(t)

	names := []string{"Pear", "apple", "Yoga", "Bagel", "Rice", "Oats", "Cherry"}
	var ids []uint
	for i, name := range names {
		form := logbook.EntryForm{Type: "food", Name: name, TotalCarbs: "10"}
		if name == "Yoga" {
			form = logbook.EntryForm{Type: "exercise", Name: name, TimeSpent: "30", IntensityLevel: "Low"}
		}
		svc.now = func() time.Time { return time.Date(2024, 9, 21, 8+i, 0, 0, 0, time.UTC) }
		e, err := svc.CreateFromForm(ctx, alice, form)
		require.NoError(t, err)
		assert.False(t, e.Starred)
		ids = append(ids, e.ID)
	}

	all, err := svc.List(ctx, alice, logbook.Filter{}, logbook.DefaultSort)
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, "Cherry", all[0].Name)

	exercise, err := svc.List(ctx, alice, logbook.Filter{Types: []domain.EntryType{domain.EntryExercise}}, logbook.DefaultSort)
	require.NoError(t, err)
	require.Len(t, exercise, 1)
	assert.Equal(t, "Yoga", exercise[0].Name)

	for _, id := range ids {
		_, err := svc.ToggleStar(ctx, alice, id, true)
		require.NoError(t, err)
	}
	starred, err := svc.Starred(ctx, alice)
	require.NoError(t, err)
	require.Len(t, starred, logbook.StarredLimit)
	got := make([]string, len(starred))
	for i, e := range starred {
		got[i] = e.Name
	}
	assert.Equal(t, []string{"apple", "Bagel", "Cherry", "Oats", "Pear"}, got)

	_, err = svc.ToggleStar(ctx, bob, ids[0], false)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.ToggleStar(ctx, alice, 0, true)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	e, err := svc.Get(ctx, alice, ids[2])
	require.NoError(t, err)
	assert.Equal(t, 30, e.Details.Minutes())

	since, err := svc.Since(ctx, alice, time.Date(2024, 9, 21, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, since, 2)
}
