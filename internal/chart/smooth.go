package chart

// smoothSamples is the number of intermediate Catmull-Rom samples inserted
// between each pair of neighboring anchors.
const smoothSamples = 6

// Smooth expands anchor points into a denser polyline using Catmull-Rom
// spline interpolation. Series with fewer than 3 anchors are returned as-is.
// At the boundaries the missing neighbor is clamped to the nearest existing
// anchor, so the result always starts and ends exactly on the first and last
// anchors.
func Smooth(points []Point) []Point {
	if len(points) < 3 {
		return points
	}

	out := make([]Point, 0, 1+(len(points)-1)*(smoothSamples+1))
	out = append(out, points[0])
	for i := 0; i < len(points)-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, len(points)-1)]

		for s := 1; s <= smoothSamples; s++ {
			t := float64(s) / float64(smoothSamples+1)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
		out = append(out, p2)
	}
	return out
}

// catmullRom evaluates the standard uniform Catmull-Rom cubic blend of the
// segment p1->p2 at parameter t, with neighbors p0 and p3 as control points.
func catmullRom(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	return Point{
		X: 0.5 * (2*p1.X +
			(-p0.X+p2.X)*t +
			(2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 +
			(-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * (2*p1.Y +
			(-p0.Y+p2.Y)*t +
			(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 +
			(-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}
