package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatting(t *testing.T) {
	ts := time.Date(2024, 9, 21, 19, 45, 0, 0, time.UTC)
	assert.Equal(t, "19:45", ClockLabel(ts))
	assert.Equal(t, "7:45 PM, 21 Sep 2024", FormatTimestamp(ts))
}

func TestMinutesApart(t *testing.T) {
	a := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 30.0, MinutesApart(a, a.Add(30*time.Minute)))
	assert.Equal(t, 30.0, MinutesApart(a.Add(30*time.Minute), a))
}
