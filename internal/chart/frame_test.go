package chart

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLayout(t *testing.T) {
	points := Layout([]float64{0, 5, 10}, 300, 100)
	if len(points) != 3 {
		t.Fatalf("expected 3 anchors, got %d", len(points))
	}
	// NiceMax(10) = 10, so y spans the full plot height.
	wants := []Point{{0, 0}, {150, 50}, {300, 100}}
	for i, w := range wants {
		if !almostEqual(points[i].X, w.X) || !almostEqual(points[i].Y, w.Y) {
			t.Fatalf("anchor %d = %+v, want %+v", i, points[i], w)
		}
	}
}

func TestLayoutSinglePointCentered(t *testing.T) {
	points := Layout([]float64{4}, 300, 100)
	if len(points) != 1 {
		t.Fatalf("expected 1 anchor, got %d", len(points))
	}
	if !almostEqual(points[0].X, 150) {
		t.Fatalf("single point x = %v, want centered 150", points[0].X)
	}
}

func TestLayoutAllZero(t *testing.T) {
	points := Layout([]float64{0, 0, 0}, 300, 100)
	for i, p := range points {
		if p.Y != 0 {
			t.Fatalf("anchor %d y = %v, want 0", i, p.Y)
		}
	}
}

func TestSmoothPassThroughBelowThreeAnchors(t *testing.T) {
	two := []Point{{0, 0}, {10, 10}}
	if got := Smooth(two); len(got) != 2 {
		t.Fatalf("two anchors should not be smoothed, got %d points", len(got))
	}
	if got := Smooth(nil); got != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestSmoothEndpointsAndDensity(t *testing.T) {
	anchors := []Point{{0, 0}, {100, 80}, {200, 20}, {300, 60}}
	smoothed := Smooth(anchors)

	// 1 start point + (samples + 1) per segment.
	wantLen := 1 + (len(anchors)-1)*(smoothSamples+1)
	if len(smoothed) != wantLen {
		t.Fatalf("smoothed length = %d, want %d", len(smoothed), wantLen)
	}
	if smoothed[0] != anchors[0] {
		t.Fatalf("first smoothed point %+v != first anchor %+v", smoothed[0], anchors[0])
	}
	if smoothed[len(smoothed)-1] != anchors[len(anchors)-1] {
		t.Fatalf("last smoothed point %+v != last anchor %+v", smoothed[len(smoothed)-1], anchors[len(anchors)-1])
	}

	// Every original anchor appears in the smoothed sequence.
	for _, a := range anchors {
		found := false
		for _, p := range smoothed {
			if almostEqual(p.X, a.X) && almostEqual(p.Y, a.Y) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("anchor %+v missing from smoothed polyline", a)
		}
	}
}

func TestRenderProgressZero(t *testing.T) {
	frame := Render([]float64{1, 2, 3}, nil, 300, 100, 0)
	if len(frame.Line) != 0 {
		t.Fatalf("nothing should be drawn at progress 0, got %d points", len(frame.Line))
	}
	if frame.Dots != 0 {
		t.Fatalf("dots = %d, want 0", frame.Dots)
	}
}

func TestRenderProgressFull(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	frame := Render(values, nil, 300, 100, 1)
	smoothed := Smooth(Layout(values, 300, 100))
	if len(frame.Line) != len(smoothed) {
		t.Fatalf("full reveal line = %d points, want %d", len(frame.Line), len(smoothed))
	}
	if frame.Dots != 4 {
		t.Fatalf("dots = %d, want 4", frame.Dots)
	}
}

func TestRenderHalfwayFourPoints(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	frame := Render(values, nil, 300, 100, 0.5)

	smoothed := Smooth(Layout(values, 300, 100))
	totalSegments := len(smoothed) - 1
	segPos := 0.5 * float64(totalSegments)
	segIdx := int(segPos)
	frac := segPos - float64(segIdx)

	if len(frame.Line) != segIdx+2 {
		t.Fatalf("line length = %d, want %d", len(frame.Line), segIdx+2)
	}
	// The final point sits frac of the way into the next smoothed segment.
	p1, p2 := smoothed[segIdx], smoothed[segIdx+1]
	last := frame.Line[len(frame.Line)-1]
	if !almostEqual(last.X, p1.X+(p2.X-p1.X)*frac) || !almostEqual(last.Y, p1.Y+(p2.Y-p1.Y)*frac) {
		t.Fatalf("interpolated tip = %+v", last)
	}

	// Dot reveal tracks the anchor indexing: floor(0.5*3)+1 = 2.
	if frame.Dots != 2 {
		t.Fatalf("dots = %d, want 2", frame.Dots)
	}
}

func TestRenderSinglePoint(t *testing.T) {
	frame := Render([]float64{7}, nil, 300, 100, 0.4)
	if len(frame.Line) != 1 {
		t.Fatalf("single-point series draws one point, got %d", len(frame.Line))
	}
	if frame.Dots != 1 {
		t.Fatalf("dots = %d, want 1", frame.Dots)
	}
}

func TestRenderEmptySeries(t *testing.T) {
	frame := Render(nil, nil, 300, 100, 0.7)
	if len(frame.Line) != 0 || len(frame.Anchors) != 0 || frame.Dots != 0 {
		t.Fatalf("empty series should draw nothing: %+v", frame)
	}
	if frame.Axis.NiceMax != 1 {
		t.Fatalf("empty series axis NiceMax = %v, want 1", frame.Axis.NiceMax)
	}
}

func TestAnimatorProgress(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	a := NewAnimator(900 * time.Millisecond)

	if p := a.Progress(now); p != 0 {
		t.Fatalf("progress before start = %v", p)
	}

	a.Start(now)
	if p := a.Progress(now); p != 0 {
		t.Fatalf("progress at start = %v", p)
	}
	mid := a.Progress(now.Add(450 * time.Millisecond))
	if mid <= 0 || mid >= 1 {
		t.Fatalf("mid progress = %v, want in (0,1)", mid)
	}
	// Ease-out: at half the duration we are past half the reveal.
	if mid <= 0.5 {
		t.Fatalf("out-cubic easing should front-load the reveal, got %v", mid)
	}
	if p := a.Progress(now.Add(time.Second)); p != 1 {
		t.Fatalf("progress after duration = %v, want 1", p)
	}

	// Restart cancels the in-flight animation: last writer wins.
	later := now.Add(2 * time.Second)
	a.Start(later)
	if p := a.Progress(later); p != 0 {
		t.Fatalf("progress after restart = %v, want 0", p)
	}
}

func TestChartSetDataRestartsReveal(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	c := NewChart()

	c.SetData([]float64{1, 2, 3}, []string{"a", "b", "c"}, now)
	full := c.Frame(300, 100, now.Add(2*time.Second))
	if full.Dots != 3 {
		t.Fatalf("dots after settle = %d, want 3", full.Dots)
	}

	c.SetData([]float64{5, 6}, []string{"x", "y"}, now.Add(3*time.Second))
	reset := c.Frame(300, 100, now.Add(3*time.Second))
	if len(reset.Line) != 0 || reset.Dots != 0 {
		t.Fatalf("SetData should reset progress to 0: %+v", reset)
	}
	if len(reset.Labels) != 2 || reset.Labels[0] != "x" {
		t.Fatalf("labels not replaced: %v", reset.Labels)
	}
}
