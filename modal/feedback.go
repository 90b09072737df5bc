package modal

import (
	"github.com/cwbudde/algo-modaldelay/dsp/core"
	"github.com/cwbudde/algo-modaldelay/dsp/onepole"
	"github.com/cwbudde/algo-modaldelay/dsp/shape"
)

const (
	// dcBlockerCoeff sets a very low cutoff, just enough to stop
	// offset accumulating through the loop. emphasisCoeff is the
	// deliberately more aggressive highpass that keeps the shimmer
	// cascade bright.
	dcBlockerCoeff = 200
	emphasisCoeff  = 2000

	gainScaleBits = 12

	// minInputGain (~5% of full scale) guarantees new signal can
	// enter the loop even at maximum feedback.
	minInputGain = 205
)

// crossfadeGains computes complementary quadratic gains for a combined
// feedback control in [0, 4095]. The curve keeps loop gain conservative
// except near the top of the range.
func crossfadeGains(fb int32) (inputGain, feedbackGain int32) {
	inputGain = core.ControlMax - int32((int64(fb)*int64(fb)+2048)>>gainScaleBits)

	inv := int64(core.ControlMax - fb)
	feedbackGain = core.ControlMax - int32((inv*inv+2048)>>gainScaleBits)

	if inputGain < minInputGain {
		inputGain = minInputGain
	}

	return inputGain, feedbackGain
}

// feedbackNetwork crossfades dry input against the delayed signal,
// applies per-mode shaping to the fed-back portion, DC-blocks the mix
// and clips it before it is written back into the buffer.
type feedbackNetwork struct {
	dcBlock  *onepole.Highpass
	emphasis *onepole.Highpass
	sat      *shape.Saturator
}

func newFeedbackNetwork(character shape.Character, bloom bool) (*feedbackNetwork, error) {
	dc, err := onepole.NewHighpass(dcBlockerCoeff)
	if err != nil {
		return nil, err
	}

	em, err := onepole.NewHighpass(emphasisCoeff)
	if err != nil {
		return nil, err
	}

	sat, err := shape.NewSaturator(shape.WithCharacter(character), shape.WithBloom(bloom))
	if err != nil {
		return nil, err
	}

	return &feedbackNetwork{dcBlock: dc, emphasis: em, sat: sat}, nil
}

// process returns the sample to write back into the delay buffer.
func (f *feedbackNetwork) process(dry, delayed, fbControl int32, mode Mode) int32 {
	inputGain, feedbackGain := crossfadeGains(fbControl)

	signal := int32((int64(delayed)*int64(feedbackGain) + 2048) >> gainScaleBits)

	switch mode {
	case ModeSaturation:
		signal = f.sat.Process(signal)
	case ModeShimmer:
		signal = f.emphasis.Process(signal)
	}
	// Clean and LoFi feed back unmodified.

	mixed := int32((int64(dry)*int64(inputGain)+2048)>>gainScaleBits) + signal

	// Clip before writeback; clipping after would let distortion
	// compound geometrically across feedback iterations.
	return core.ClampSample(f.dcBlock.Process(mixed))
}

func (f *feedbackNetwork) reset() {
	f.dcBlock.Reset()
	f.emphasis.Reset()
	f.sat.Reset()
}
