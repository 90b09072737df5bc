// Package shape provides fixed-point nonlinear shaping for the
// feedback path of the delay engine.
package shape

import (
	"fmt"

	"github.com/cwbudde/algo-modaldelay/dsp/core"
	"github.com/cwbudde/algo-modaldelay/dsp/onepole"
)

// Character selects the soft-knee tuning of a Saturator.
type Character int

const (
	// CharacterGentle passes ~62.5% of the excess above the knee,
	// for a warm tube-like buildup.
	CharacterGentle Character = iota
	// CharacterCrunchy uses a lower knee and passes only ~37.5% of
	// the excess, for a harder compressed edge.
	CharacterCrunchy
)

// The accumulator gains at most (2047+128)>>8 = 8 per sample and leaks
// 1/64 per sample, so it settles near 512 under sustained full-scale
// input; the cap is a safety bound just above that.
const (
	accumRetention = 252
	accumCap       = 600

	driveBase      = 3000
	driveScaleBits = 11 // drive acts over a x2048 scale

	gentleKnee  = 1200
	crunchyKnee = 900

	bloomThreshold = 256
	bloomRiseQ8    = 64 // 0.75 -> 1.00 over the rise
	bloomBaseQ8    = 192
	bloomFloorQ8   = 160
)

// Saturator is a progressive wave-shaper. A slow absolute-magnitude
// accumulator raises the drive as energy builds through the feedback
// loop; the driven signal passes a symmetric soft knee, a hard clip,
// an optional bloom/decay gain envelope and a fixed 1/2 makeup gain.
//
// The makeup gain bounds the small-signal gain at
// (driveBase+accumCap/8)/2048 * 1/2 < 1, so a feedback loop through
// the saturator can never diverge.
type Saturator struct {
	energy    *onepole.LeakyIntegrator
	character Character
	bloom     bool
}

// String returns the character name.
func (c Character) String() string {
	switch c {
	case CharacterGentle:
		return "gentle"
	case CharacterCrunchy:
		return "crunchy"
	default:
		return "unknown"
	}
}

// ParseCharacter returns the character named by s.
func ParseCharacter(s string) (Character, bool) {
	for c := CharacterGentle; c <= CharacterCrunchy; c++ {
		if c.String() == s {
			return c, true
		}
	}

	return CharacterGentle, false
}

// Option mutates construction-time parameters.
type Option func(*Saturator) error

// WithCharacter selects the soft-knee tuning.
func WithCharacter(c Character) Option {
	return func(s *Saturator) error {
		if c != CharacterGentle && c != CharacterCrunchy {
			return fmt.Errorf("saturator character is invalid: %d", c)
		}

		s.character = c

		return nil
	}
}

// WithBloom toggles the bloom/decay gain envelope.
func WithBloom(enabled bool) Option {
	return func(s *Saturator) error {
		s.bloom = enabled
		return nil
	}
}

// NewSaturator creates a saturator with the gentle character and the
// bloom envelope enabled.
func NewSaturator(opts ...Option) (*Saturator, error) {
	energy, err := onepole.NewLeakyIntegrator(accumRetention, accumCap)
	if err != nil {
		return nil, err
	}

	s := &Saturator{
		energy:    energy,
		character: CharacterGentle,
		bloom:     true,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Character returns the active soft-knee tuning.
func (s *Saturator) Character() Character { return s.character }

// Energy returns the current accumulator value.
func (s *Saturator) Energy() int32 { return s.energy.State() }

// Reset clears the energy accumulator.
func (s *Saturator) Reset() { s.energy.Reset() }

// Process shapes one sample.
func (s *Saturator) Process(input int32) int32 {
	accum := s.energy.Process(core.Abs32(input))

	drive := driveBase + ((accum + 4) >> 3)
	driven := int32(core.RoundShift64(int64(input)*int64(drive), driveScaleBits))

	out := s.knee(driven)
	out = core.ClampSample(out)

	if s.bloom {
		out = core.RoundShift32(out*s.bloomGainQ8(accum), 8)
	}

	// Makeup gain of 1/2 keeps the net small-signal gain below unity.
	// Truncating toward zero lets the last LSB die out instead of
	// recirculating forever at maximum feedback.
	out /= 2

	return core.ClampSample(out)
}

// knee applies the symmetric soft knee: pass-through below the knee, a
// fixed fraction of the excess above it.
func (s *Saturator) knee(driven int32) int32 {
	neg := driven < 0
	mag := core.Abs32(driven)

	knee := int32(gentleKnee)
	if s.character == CharacterCrunchy {
		knee = crunchyKnee
	}

	if mag > knee {
		excess := mag - knee
		if s.character == CharacterCrunchy {
			mag = knee + ((excess + 2) >> 2) + ((excess + 4) >> 3)
		} else {
			mag = knee + ((excess + 1) >> 1) + ((excess + 4) >> 3)
		}
	}

	if neg {
		return -mag
	}

	return mag
}

// bloomGainQ8 rises from 0.75 toward 1.0 while the accumulator climbs
// through the early threshold, then falls toward a 0.625 floor as
// sustained feedback keeps it high.
func (s *Saturator) bloomGainQ8(accum int32) int32 {
	if accum <= bloomThreshold {
		return bloomBaseQ8 + accum*bloomRiseQ8/bloomThreshold
	}

	gain := bloomBaseQ8 + bloomRiseQ8 -
		(accum-bloomThreshold)*96/(accumCap-bloomThreshold)
	if gain < bloomFloorQ8 {
		gain = bloomFloorQ8
	}

	return gain
}
