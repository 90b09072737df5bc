package modal

import "github.com/cwbudde/algo-modaldelay/dsp/core"

// shimmerPitchQ16 is 1/2^(7/12) - 1 in Q16: the delay shortening that
// transposes a repeat up a perfect fifth. Because it acts on the
// feedback-looped delay time, every pass through the loop compounds
// the shift into a rising harmonic cascade.
const shimmerPitchQ16 = -21782

// Stereo spread ratios: the right channel reads a slightly longer
// delay for width without a second control.
const (
	spreadSaturationNum = 101
	spreadShimmerNum    = 103
	spreadDen           = 100
)

// modulateDelays derives the left and right delay lengths (Q7) for a
// mode from the smoothed delay target.
func modulateDelays(smoothedQ7 int32, mode Mode) (left, right int32) {
	left = smoothedQ7
	if mode == ModeShimmer {
		left += core.MulQ16(smoothedQ7, shimmerPitchQ16)
	}

	left = core.Clamp32(left, minDelayQ7, maxDelayQ7)

	switch mode {
	case ModeSaturation:
		right = core.MulRatio(left, spreadSaturationNum, spreadDen)
	case ModeShimmer:
		right = core.MulRatio(left, spreadShimmerNum, spreadDen)
	default:
		right = left
	}

	right = core.Clamp32(right, minDelayQ7, maxDelayQ7)

	return left, right
}
