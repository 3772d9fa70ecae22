package chart

import "math"

// Frame is everything a renderer needs for one animation tick: the partial
// smoothed polyline, the anchor points with how many of their dots are
// visible, the axis, and the x labels. Degenerate series (empty, single
// point) produce an empty or minimal frame, never an error.
type Frame struct {
	Line    []Point
	Anchors []Point
	Dots    int
	Axis    Axis
	Labels  []string
}

// Render computes the drawable frame for a series at the given animation
// progress in [0,1]. Out-of-range progress is clamped.
func Render(values []float64, labels []string, width, height, progress float64) Frame {
	frame := Frame{
		Axis:   BuildAxis(values, DefaultTicks),
		Labels: labels,
	}

	anchors := Layout(values, width, height)
	if len(anchors) == 0 {
		return frame
	}
	frame.Anchors = anchors

	progress = clamp01(progress)
	n := len(anchors)
	frame.Dots = visibleDots(n, progress)

	if progress <= 0 {
		return frame
	}

	if n == 1 {
		frame.Line = []Point{anchors[0]}
		return frame
	}

	smoothed := Smooth(anchors)
	if progress >= 1 {
		frame.Line = smoothed
		return frame
	}

	// Walk the denser smoothed polyline: every point up to segIdx, plus one
	// extra point interpolated at frac into the next segment.
	totalSegments := len(smoothed) - 1
	segPos := progress * float64(totalSegments)
	segIdx := int(segPos)
	frac := segPos - float64(segIdx)
	if segIdx >= totalSegments {
		segIdx = totalSegments - 1
		frac = 1
	}

	line := make([]Point, 0, segIdx+2)
	line = append(line, smoothed[:segIdx+1]...)
	p1, p2 := smoothed[segIdx], smoothed[segIdx+1]
	line = append(line, Point{
		X: p1.X + (p2.X-p1.X)*frac,
		Y: p1.Y + (p2.Y-p1.Y)*frac,
	})
	frame.Line = line
	return frame
}

// visibleDots lights anchor dots up in sync with the line reaching each
// original data point, independent of the denser smoothed indexing.
func visibleDots(n int, progress float64) int {
	if progress <= 0 {
		return 0
	}
	dots := int(math.Floor(progress*float64(n-1))) + 1
	if dots > n {
		dots = n
	}
	return dots
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
