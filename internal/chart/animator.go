package chart

import (
	"math"
	"time"
)

// DefaultRevealDuration is how long the progressive reveal runs after SetData.
const DefaultRevealDuration = 900 * time.Millisecond

// Animator drives the reveal progress for one chart. It is caller-held state:
// the renderer asks for Progress(now) on every tick and feeds it to Render.
// Restarting is last-writer-wins; a new Start cancels the in-flight animation
// by simply replacing its start time.
type Animator struct {
	start    time.Time
	duration time.Duration
	running  bool
}

// NewAnimator creates an animator with the given duration, or
// DefaultRevealDuration when d <= 0.
func NewAnimator(d time.Duration) *Animator {
	if d <= 0 {
		d = DefaultRevealDuration
	}
	return &Animator{duration: d}
}

// Start begins (or restarts) the reveal at now.
func (a *Animator) Start(now time.Time) {
	a.start = now
	a.running = true
}

// Progress returns the eased reveal progress in [0,1] at time now.
// Before any Start it is 0; after the duration elapses it stays at 1.
func (a *Animator) Progress(now time.Time) float64 {
	if !a.running {
		return 0
	}
	elapsed := now.Sub(a.start)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= a.duration {
		return 1
	}
	return easeOutCubic(float64(elapsed) / float64(a.duration))
}

// easeOutCubic is the out-cubic easing curve: fast start, gentle landing.
func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Chart binds a series, its labels and an animator behind the rendering
// boundary: SetData replaces the series and restarts the reveal, Frame yields
// the drawable state for the current tick.
type Chart struct {
	values []float64
	labels []string
	anim   *Animator
}

func NewChart() *Chart {
	return &Chart{anim: NewAnimator(0)}
}

// SetData replaces the series, resets progress to 0 and starts the reveal.
// Any in-flight animation is cancelled and replaced.
func (c *Chart) SetData(values []float64, labels []string, now time.Time) {
	c.values = append([]float64(nil), values...)
	c.labels = append([]string(nil), labels...)
	c.anim.Start(now)
}

// Frame computes the drawable frame for the current tick.
func (c *Chart) Frame(width, height float64, now time.Time) Frame {
	return Render(c.values, c.labels, width, height, c.anim.Progress(now))
}
