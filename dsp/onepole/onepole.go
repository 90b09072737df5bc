// Package onepole provides one-pole fixed-point smoothing primitives
// shared by the delay engine's control and feedback paths.
package onepole

import "fmt"

const (
	smootherScaleBits = 8
	smootherScale     = 1 << smootherScaleBits

	highpassScaleBits = 16
	highpassScale     = 1 << highpassScaleBits
)

// Smoother is a one-pole lowpass on integer values. With retention r the
// recurrence is state = (state*r + input*(256-r) + 128) >> 8, so r = 255
// gives a time constant of roughly 256 samples.
type Smoother struct {
	state     int32
	retention int32
}

// NewSmoother creates a smoother with retention in [0, 255].
func NewSmoother(retention int32) (*Smoother, error) {
	if retention < 0 || retention >= smootherScale {
		return nil, fmt.Errorf("smoother retention must be in [0, %d]: %d", smootherScale-1, retention)
	}

	return &Smoother{retention: retention}, nil
}

// Process advances the smoother toward target and returns the new state.
// When the rounded step underflows to zero the state is nudged by one
// LSB, so the smoother settles on the target exactly instead of
// stalling one rounding step away from it.
func (s *Smoother) Process(target int32) int32 {
	blend := int64(s.state)*int64(s.retention) +
		int64(target)*int64(smootherScale-s.retention)

	next := int32((blend + smootherScale/2) >> smootherScaleBits)
	if next == s.state && target != s.state {
		if target > s.state {
			next++
		} else {
			next--
		}
	}

	s.state = next

	return s.state
}

// State returns the current smoothed value.
func (s *Smoother) State() int32 { return s.state }

// SetState forces the smoothed value, e.g. to preload a known target.
func (s *Smoother) SetState(v int32) { s.state = v }

// Reset clears the smoother state.
func (s *Smoother) Reset() { s.state = 0 }

// LeakyIntegrator tracks a slow running sum with per-sample retention
// r/256: state = ((r*state + 128) >> 8) + ((input + 128) >> 8). An
// optional cap bounds the accumulated value.
type LeakyIntegrator struct {
	state     int32
	retention int32
	cap       int32
}

// NewLeakyIntegrator creates an integrator with retention in [0, 255].
// cap <= 0 disables capping.
func NewLeakyIntegrator(retention, cap int32) (*LeakyIntegrator, error) {
	if retention < 0 || retention >= smootherScale {
		return nil, fmt.Errorf("integrator retention must be in [0, %d]: %d", smootherScale-1, retention)
	}

	return &LeakyIntegrator{retention: retention, cap: cap}, nil
}

// Process accumulates input and returns the new state.
func (l *LeakyIntegrator) Process(input int32) int32 {
	l.state = ((l.retention*l.state + smootherScale/2) >> smootherScaleBits) +
		((input + smootherScale/2) >> smootherScaleBits)
	if l.cap > 0 && l.state > l.cap {
		l.state = l.cap
	}

	return l.state
}

// State returns the current accumulator value.
func (l *LeakyIntegrator) State() int32 { return l.state }

// Reset clears the accumulator.
func (l *LeakyIntegrator) Reset() { l.state = 0 }

// Highpass is a one-pole highpass built from a lowpass tracker:
// state += ((input - state) * coeff + 32768) >> 16, output = input - state.
// Small coefficients give a very low cutoff suitable for DC blocking;
// larger ones make an emphasis filter.
type Highpass struct {
	state int32
	coeff int32
}

// NewHighpass creates a highpass with a Q16 coefficient in [1, 65535].
func NewHighpass(coeff int32) (*Highpass, error) {
	if coeff < 1 || coeff >= highpassScale {
		return nil, fmt.Errorf("highpass coefficient must be in [1, %d]: %d", highpassScale-1, coeff)
	}

	return &Highpass{coeff: coeff}, nil
}

// Process filters one sample.
func (h *Highpass) Process(input int32) int32 {
	h.state += int32((int64(input-h.state)*int64(h.coeff) + highpassScale/2) >> highpassScaleBits)

	return input - h.state
}

// Reset clears the filter state.
func (h *Highpass) Reset() { h.state = 0 }
