// Package spring animates a scalar toward a target with damped spring
// dynamics. The constants give a slightly underdamped, jelly-like response.
package spring

import "math"

const (
	// Tension pulls Current toward Target; higher settles faster.
	Tension = 200.0
	// Friction damps Velocity; lower overshoots more.
	Friction = 18.0
	// MaxStep bounds dt so a long frame gap cannot destabilise the integrator.
	MaxStep = 0.05
)

// Spring is one animated dimension.
type Spring struct {
	Target   float64
	Current  float64
	Velocity float64
}

// New returns a spring resting at start.
func New(start float64) *Spring {
	return &Spring{Target: start, Current: start}
}

// Advance integrates one step of dt seconds and returns the new Current.
func (s *Spring) Advance(dt float64) float64 {
	dt = clampStep(dt)

	force := Tension * (s.Target - s.Current)
	acceleration := force - Friction*s.Velocity

	s.Velocity += acceleration * dt
	s.Current += s.Velocity * dt

	return s.Current
}

// Settled reports whether the spring is within eps of its target and
// moving slower than eps per second.
func (s *Spring) Settled(eps float64) bool {
	return math.Abs(s.Target-s.Current) <= eps && math.Abs(s.Velocity) <= eps
}

func clampStep(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > MaxStep {
		return MaxStep
	}
	return dt
}
