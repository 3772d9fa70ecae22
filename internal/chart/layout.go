package chart

// Point is a plot-space coordinate with the origin at the bottom-left.
type Point struct {
	X float64
	Y float64
}

// Layout maps each series value to an anchor point: x evenly spaced across the
// plot width by index (a single point sits at the horizontal center), y scaled
// against the series' nice maximum. Produces exactly one anchor per value.
func Layout(values []float64, width, height float64) []Point {
	if len(values) == 0 {
		return nil
	}

	niceMax := NiceMax(maxValue(values))

	scaleY := func(v float64) float64 {
		if niceMax <= 0 {
			return 0
		}
		return (v / niceMax) * height
	}

	if len(values) == 1 {
		return []Point{{X: width / 2, Y: scaleY(values[0])}}
	}

	points := make([]Point, len(values))
	step := width / float64(len(values)-1)
	for i, v := range values {
		points[i] = Point{X: step * float64(i), Y: scaleY(v)}
	}
	return points
}
