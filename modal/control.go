package modal

import (
	"github.com/cwbudde/algo-modaldelay/dsp/core"
	"github.com/cwbudde/algo-modaldelay/dsp/delay"
	"github.com/cwbudde/algo-modaldelay/dsp/onepole"
)

// Delay length range in samples; the buffer holds 1.5 s at 48 kHz.
const (
	bufferCapacity  = 72000
	minDelaySamples = 100
	maxDelaySamples = 71000

	minDelayQ7 = minDelaySamples << delay.FracBits
	maxDelayQ7 = maxDelaySamples << delay.FracBits
)

// hysteresisThreshold is ~0.2% of the 4095 control range, enough to
// swallow converter jitter without masking deliberate knob moves.
const hysteresisThreshold = 8

const delaySmootherRetention = 255 // time constant ~256 samples

// conditioner merges a knob with a bipolar CV into one control value,
// suppresses converter jitter with hysteresis, and smooths the mapped
// delay target with a one-pole filter.
type conditioner struct {
	lastAccepted int32
	smoother     *onepole.Smoother
}

func newConditioner() (*conditioner, error) {
	s, err := onepole.NewSmoother(delaySmootherRetention)
	if err != nil {
		return nil, err
	}

	return &conditioner{smoother: s}, nil
}

// update returns the smoothed delay target in Q7 samples. LoFi mode
// bypasses hysteresis on purpose: the resulting micro-modulation from
// converter noise is part of that mode's character.
func (c *conditioner) update(knob, cv int32, tap *tapTempo, bypassHysteresis bool) int32 {
	combined := core.ClampControl(knob + cv)

	switch {
	case bypassHysteresis:
		c.lastAccepted = combined
	case core.Abs32(combined-c.lastAccepted) >= hysteresisThreshold:
		c.lastAccepted = combined
	default:
		combined = c.lastAccepted
	}

	var target int32
	if tap.active {
		target = core.Clamp32(int32(tap.interval), minDelaySamples, maxDelaySamples)
	} else {
		target = minDelaySamples +
			combined*(maxDelaySamples-minDelaySamples)/core.ControlMax
	}

	return c.smoother.Process(target << delay.FracBits)
}
