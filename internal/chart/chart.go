// Package chart shapes glucose readings and log entries for the dashboard line chart.
package chart

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/utils"
)

// MarkerOffset lifts markers above the line so they stay visible
const MarkerOffset = 8

// ErrNoLabels is returned when a marker is requested on an empty chart
var ErrNoLabels = errors.New("chart has no labels")

// Point is a reading as the chart shows it
type Point struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Marker is a food or exercise dot on the chart
type Marker struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Data feeds the Chart.js line chart
type Data struct {
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
	Food     []Marker  `json:"food"`
	Exercise []Marker  `json:"exercise"`
}

// PlaceholderReadings are shown until the user has real data
var PlaceholderReadings = []Point{
	{Time: "00:00", Value: 100},
	{Time: "04:00", Value: 120},
	{Time: "08:00", Value: 140},
	{Time: "12:00", Value: 110},
	{Time: "16:00", Value: 150},
	{Time: "20:00", Value: 130},
}

// Placeholder builds chart data from PlaceholderReadings with no markers
func Placeholder() Data {
	d := Data{Food: []Marker{}, Exercise: []Marker{}}
	for _, p := range PlaceholderReadings {
		d.Labels = append(d.Labels, p.Time)
		d.Values = append(d.Values, p.Value)
	}
	return d
}

// Points converts readings to the chart view, labelled in loc (UTC when nil)
func Points(readings []domain.GlucoseReading, loc *time.Location) []Point {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Point, len(readings))
	for i, r := range readings {
		out[i] = Point{Time: utils.ClockLabel(r.Time.In(loc)), Value: r.Value}
	}
	return out
}

// Build lays readings out chronologically and pins each entry to its nearest reading.
// Labels are clock times in loc.
func Build(readings []domain.GlucoseReading, entries []domain.LogEntry, loc *time.Location) Data {
	sorted := make([]domain.GlucoseReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	d := Data{
		Labels:   make([]string, len(sorted)),
		Values:   make([]float64, len(sorted)),
		Food:     []Marker{},
		Exercise: []Marker{},
	}
	for i, p := range Points(sorted, loc) {
		d.Labels[i] = p.Time
		d.Values[i] = p.Value
	}
	if len(sorted) == 0 {
		return d
	}

	for _, e := range entries {
		i := nearest(sorted, e)
		m := Marker{X: d.Labels[i], Y: d.Values[i] + MarkerOffset}
		switch e.Type {
		case domain.EntryFood:
			d.Food = append(d.Food, m)
		case domain.EntryExercise:
			d.Exercise = append(d.Exercise, m)
		}
	}
	return d
}

func nearest(sorted []domain.GlucoseReading, e domain.LogEntry) int {
	best := 0
	bestDist := math.Inf(1)
	for i, r := range sorted {
		if d := utils.MinutesApart(r.Time, e.Timestamp); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MarkerAt converts a chart click into a marker: the x index is rounded and
// clamped to the labels, and y is lifted by MarkerOffset.
func MarkerAt(labels []string, xValue, yValue float64) (Marker, error) {
	if len(labels) == 0 {
		return Marker{}, ErrNoLabels
	}
	if !finite(xValue) || !finite(yValue) {
		return Marker{}, errors.New("marker coordinates must be finite numbers")
	}
	// clamp before converting; int() of an out of range float is undefined
	x := math.Min(math.Max(math.Round(xValue), 0), float64(len(labels)-1))
	return Marker{X: labels[int(x)], Y: yValue + MarkerOffset}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
