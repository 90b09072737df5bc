// Package modal implements a modal feedback delay engine: a fixed-point
// circular-buffer delay wrapped in a feedback network with sub-sample
// interpolation, four processing modes, tap-tempo timing extraction and
// sample-accurate loop capture.
//
// All per-sample arithmetic is integer; the engine allocates once at
// construction and never again.
package modal

import (
	"fmt"

	"github.com/cwbudde/algo-modaldelay/card"
	"github.com/cwbudde/algo-modaldelay/dsp/core"
	"github.com/cwbudde/algo-modaldelay/dsp/delay"
	"github.com/cwbudde/algo-modaldelay/dsp/shape"
)

const mixScaleBits = 12

// ledBlinkFloor keeps the delay-time LED from flickering too fast at
// short delay settings.
const ledBlinkFloor = 100

type config struct {
	character     shape.Character
	bloom         bool
	initialSwitch card.Switch
	mode          Mode
}

// Option mutates construction-time parameters.
type Option func(*config) error

// WithMode selects the processing mode active at power-on. The mode
// switch still cycles onward from it.
func WithMode(m Mode) Option {
	return func(cfg *config) error {
		if m < 0 || m >= modeCount {
			return fmt.Errorf("engine mode is invalid: %d", m)
		}

		cfg.mode = m

		return nil
	}
}

// WithCharacter selects the saturation mode's soft-knee tuning.
func WithCharacter(c shape.Character) Option {
	return func(cfg *config) error {
		if c != shape.CharacterGentle && c != shape.CharacterCrunchy {
			return fmt.Errorf("engine character is invalid: %d", c)
		}

		cfg.character = c

		return nil
	}
}

// WithBloom toggles the saturation bloom/decay envelope.
func WithBloom(enabled bool) Option {
	return func(cfg *config) error {
		cfg.bloom = enabled
		return nil
	}
}

// WithInitialSwitch seeds mode edge detection with the switch position
// observed at power-up, so a switch held down at boot does not count
// as a press.
func WithInitialSwitch(sw card.Switch) Option {
	return func(cfg *config) error {
		if sw < card.SwitchUp || sw > card.SwitchDown {
			return fmt.Errorf("engine initial switch is invalid: %d", sw)
		}

		cfg.initialSwitch = sw

		return nil
	}
}

// Engine is the modal feedback delay core. It implements
// card.Processor and owns all mutable state; one instance must only be
// driven from a single execution context.
type Engine struct {
	line  *delay.Line
	cond  *conditioner
	fbnet *feedbackNetwork

	tap    tapTempo
	cycler modeCycler
	frz    freezer

	sampleCounter uint32
	ledCounter    int32
	ledBlink      bool

	initialMode Mode
	initialDown bool
}

// New creates an engine with all state at its power-on values.
func New(opts ...Option) (*Engine, error) {
	cfg := config{
		character:     shape.CharacterGentle,
		bloom:         true,
		initialSwitch: card.SwitchMiddle,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	line, err := delay.New(bufferCapacity)
	if err != nil {
		return nil, err
	}

	cond, err := newConditioner()
	if err != nil {
		return nil, err
	}

	fbnet, err := newFeedbackNetwork(cfg.character, cfg.bloom)
	if err != nil {
		return nil, err
	}

	return &Engine{
		line:        line,
		cond:        cond,
		fbnet:       fbnet,
		cycler:      modeCycler{mode: cfg.mode, lastDown: cfg.initialSwitch == card.SwitchDown},
		initialMode: cfg.mode,
		initialDown: cfg.initialSwitch == card.SwitchDown,
	}, nil
}

// Mode returns the active processing mode.
func (e *Engine) Mode() Mode { return e.cycler.mode }

// TapLocked reports whether the measured tap interval is controlling
// the delay time.
func (e *Engine) TapLocked() bool { return e.tap.active }

// Frozen reports whether the buffer is currently held.
func (e *Engine) Frozen() bool { return e.frz.active }

// Reset returns the engine to its power-on state.
func (e *Engine) Reset() {
	e.line.Reset()
	e.cond.smoother.Reset()
	e.cond.lastAccepted = 0
	e.fbnet.reset()
	e.tap = tapTempo{}
	e.cycler = modeCycler{mode: e.initialMode, lastDown: e.initialDown}
	e.frz = freezer{}
	e.sampleCounter = 0
	e.ledCounter = 0
	e.ledBlink = false
}

// ProcessSample runs one sample period of the full pipeline: control
// conditioning, tap tempo and mode updates, delay modulation,
// interpolated reads, feedback writeback and the output mix.
func (e *Engine) ProcessSample(in card.Inputs) card.Outputs {
	// Both audio inputs are averaged into a mono feed.
	audioIn := (in.AudioIn1 + in.AudioIn2 + 1) >> 1

	mode := e.cycler.update(in.Switch == card.SwitchDown)

	e.tap.update(in.Pulse1, e.sampleCounter)
	e.sampleCounter++

	smoothed := e.cond.update(in.KnobX, in.CV1, &e.tap, mode == ModeLoFi)

	delayL, delayR := modulateDelays(smoothed, mode)

	e.frz.update(in.Pulse2, e.line.WritePos(), delayL, delayR)

	var delayedL, delayedR int32
	if e.frz.active {
		origin := e.frz.readOrigin(e.line.Len())
		delayedL = e.line.ReadInterpolatedAt(origin, e.frz.delayL)
		delayedR = e.line.ReadInterpolatedAt(origin, e.frz.delayR)
		e.frz.tick()
	} else {
		delayedL = e.line.ReadInterpolated(delayL)
		delayedR = e.line.ReadInterpolated(delayR)
	}

	fbControl := core.ClampControl(in.KnobY + in.CV2)

	// Mono feedback from the left tap avoids phase issues between
	// the stereo spread taps.
	writeback := e.fbnet.process(audioIn, delayedL, fbControl, mode)

	if e.frz.active {
		e.line.Skip()
	} else {
		e.line.Write(writeback)
	}

	mix := core.ClampControl(in.KnobMain)
	dryGain := int64(core.ControlMax - mix)
	wetGain := int64(mix)

	out := card.Outputs{
		AudioOut1: core.ClampSample(int32(
			(int64(audioIn)*dryGain + int64(delayedL)*wetGain + 2048) >> mixScaleBits)),
		AudioOut2: core.ClampSample(int32(
			(int64(audioIn)*dryGain + int64(delayedR)*wetGain + 2048) >> mixScaleBits)),
	}

	e.updateLeds(&out, delayL>>delay.FracBits, fbControl, mode)

	return out
}

func (e *Engine) updateLeds(out *card.Outputs, delaySamples, fbControl int32, mode Mode) {
	e.ledCounter++

	blinkRate := delaySamples / 2
	if blinkRate < ledBlinkFloor {
		blinkRate = ledBlinkFloor
	}

	if e.ledCounter >= blinkRate {
		e.ledCounter = 0
		e.ledBlink = true
	} else if e.ledCounter >= blinkRate/2 {
		e.ledBlink = false
	}

	out.Leds[0] = e.ledBlink       // delay-time blink
	out.Leds[1] = fbControl > 2048 // feedback above half
	out.Leds[2] = mode == ModeClean
	out.Leds[3] = mode == ModeSaturation
	out.Leds[4] = mode == ModeShimmer
	out.Leds[5] = mode == ModeLoFi
}
