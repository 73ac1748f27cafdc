package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/repository"
	"github.com/vladimiradmaev/sweet-friend/internal/testutil"
)

func TestGlucoseService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	uid := testutil.CreateUser(t, db, "g")
	svc := NewGlucoseService(repository.New(db).Glucose)
	now := time.Date(2024, 9, 21, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	r, err := svc.AddReading(ctx, uid, 132, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, now, r.Time.UTC())
	assert.Equal(t, SourceManual, r.Source)

	_, err = svc.AddReading(ctx, uid, 110, now.Add(-3*time.Hour))
	require.NoError(t, err)
	_, err = svc.AddReading(ctx, uid, 90, now.Add(-30*time.Hour))
	require.NoError(t, err)

	recent, err := svc.Recent(ctx, uid, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 110.0, recent[0].Value, "oldest first")
	assert.Equal(t, 132.0, recent[1].Value)

	_, err = svc.AddReading(ctx, uid, 0, time.Time{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.AddReading(ctx, uid, 120, now.Add(time.Hour))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = svc.AddReading(ctx, uid, v, time.Time{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "value %v", v)
	}
	recent, err = svc.Recent(ctx, uid, 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, recent, 2, "rejected values are not stored")
}
