package utils

import "time"

const (
	clockLayout     = "15:04"
	timestampLayout = "3:04 PM, 2 Jan 2006"
)

// ClockLabel renders the HH:MM label used on the chart axis
func ClockLabel(t time.Time) string {
	return t.Format(clockLayout)
}

// FormatTimestamp renders a log entry time for humans
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// MinutesApart is the absolute distance between two times in minutes
func MinutesApart(a, b time.Time) float64 {
	d := a.Sub(b).Minutes()
	if d < 0 {
		return -d
	}
	return d
}
