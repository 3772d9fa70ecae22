// Package chart turns a numeric series into a drawable frame: an axis scale
// with human-friendly gridlines, a Catmull-Rom smoothed polyline, and a
// progress-indexed partial curve for the reveal animation.
//
// Everything here is a pure numeric transform; pixel drawing belongs to the
// caller.
package chart

import (
	"math"
	"strconv"
)

// DefaultTicks is the number of horizontal gridline intervals on the axis.
const DefaultTicks = 4

// niceSteps is the ladder of acceptable leading multipliers for the axis top.
var niceSteps = []float64{1, 1.5, 2, 2.5, 3, 5, 10}

// NiceMax rounds value up to a human-friendly axis maximum so the tallest data
// point never exceeds the top gridline. Non-positive input yields 1.
//
// Example: 730 -> exp 2, base 100, scaled 7.3 -> smallest step >= 7.3 is 10
// -> 1000.
func NiceMax(value float64) float64 {
	if value <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(value))
	base := math.Pow(10, exp)
	scaled := value / base
	for _, step := range niceSteps {
		if scaled <= step {
			return step * base
		}
	}
	return 10 * base
}

// FormatValue renders a gridline value with precision decreasing as magnitude
// grows: exact zero is "0", values >= 100 get no decimals, >= 10 one decimal,
// everything else two.
func FormatValue(v float64) string {
	switch {
	case v == 0:
		return "0"
	case v >= 100:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case v >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// Gridline is one horizontal axis line with its formatted label.
type Gridline struct {
	Value float64
	Label string
}

// Axis is the vertical scale for a series: the nice maximum and ticks+1
// evenly spaced gridlines from 0 to NiceMax.
type Axis struct {
	NiceMax   float64
	Gridlines []Gridline
}

// BuildAxis computes the axis for a series. An empty or all-non-positive
// series scales against a maximum of 0, producing a 0..1 axis.
func BuildAxis(values []float64, ticks int) Axis {
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	niceMax := NiceMax(maxValue(values))
	axis := Axis{NiceMax: niceMax, Gridlines: make([]Gridline, 0, ticks+1)}
	for i := 0; i <= ticks; i++ {
		v := niceMax * float64(i) / float64(ticks)
		axis.Gridlines = append(axis.Gridlines, Gridline{Value: v, Label: FormatValue(v)})
	}
	return axis
}

func maxValue(values []float64) float64 {
	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
