package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
)

func TestMarkerAt(t *testing.T) {
	labels := []string{"00:00", "04:00", "08:00", "12:00", "16:00", "20:00"}

	m, err := MarkerAt(labels, 2.4, 140)
	require.NoError(t, err)
	assert.Equal(t, Marker{X: "08:00", Y: 148}, m)

	m, err = MarkerAt(labels, 2.5, 100)
	require.NoError(t, err)
	assert.Equal(t, "12:00", m.X, "half rounds away from zero")

	m, err = MarkerAt(labels, -3, 90)
	require.NoError(t, err)
	assert.Equal(t, "00:00", m.X)

	m, err = MarkerAt(labels, 99, 90)
	require.NoError(t, err)
	assert.Equal(t, "20:00", m.X)

	_, err = MarkerAt(nil, 0, 0)
	assert.ErrorIs(t, err, ErrNoLabels)

	m, err = MarkerAt(labels, 1e300, 90)
	require.NoError(t, err)
	assert.Equal(t, "20:00", m.X)

	for _, bad := range [][2]float64{{math.NaN(), 0}, {math.Inf(1), 0}, {math.Inf(-1), 0}, {1, math.Inf(1)}} {
		_, err = MarkerAt(labels, bad[0], bad[1])
		assert.Error(t, err, "%v", bad)
	}
}

func TestPlaceholder(t *testing.T) {
	d := Placeholder()
	assert.Equal(t, []string{"00:00", "04:00", "08:00", "12:00", "16:00", "20:00"}, d.Labels)
	assert.Equal(t, []float64{100, 120, 140, 110, 150, 130}, d.Values)
	assert.Empty(t, d.Food)
	assert.NotNil(t, d.Exercise)
}

func TestBuild(t *testing.T) {
	day := time.Date(2024, 9, 21, 0, 0, 0, 0, time.UTC)
	readings := []domain.GlucoseReading{
		{Time: day.Add(8 * time.Hour), Value: 140},
		{Time: day, Value: 100},
		{Time: day.Add(4 * time.Hour), Value: 120},
	}
	entries := []domain.LogEntry{
		{Type: domain.EntryFood, Timestamp: day.Add(7*time.Hour + 30*time.Minute)},
		{Type: domain.EntryExercise, Timestamp: day.Add(time.Hour)},
	}

	d := Build(readings, entries, time.UTC)
	assert.Equal(t, []string{"00:00", "04:00", "08:00"}, d.Labels)
	assert.Equal(t, []float64{100, 120, 140}, d.Values)
	assert.Equal(t, []Marker{{X: "08:00", Y: 148}}, d.Food)
	assert.Equal(t, []Marker{{X: "00:00", Y: 108}}, d.Exercise)
	assert.Equal(t, day.Add(8*time.Hour), readings[0].Time, "input must not be reordered")

	empty := Build(nil, entries, nil)
	assert.Empty(t, empty.Labels)
	assert.Empty(t, empty.Food)
}

func TestBuildLabelsInDisplayLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	at := time.Date(2024, 9, 21, 23, 30, 0, 0, time.UTC)
	d := Build([]domain.GlucoseReading{{Time: at, Value: 120}},
		[]domain.LogEntry{{Type: domain.EntryFood, Timestamp: at}}, tokyo)

	assert.Equal(t, []string{"08:30"}, d.Labels)
	assert.Equal(t, []Marker{{X: "08:30", Y: 128}}, d.Food)
}

func TestPoints(t *testing.T) {
	readings := []domain.GlucoseReading{{Time: time.Date(2024, 1, 1, 16, 5, 0, 0, time.UTC), Value: 150}}
	assert.Equal(t, []Point{{Time: "16:05", Value: 150}}, Points(readings, nil))
	assert.Equal(t, []Point{{Time: "11:05", Value: 150}}, Points(readings, time.FixedZone("EST", -5*60*60)))
}
