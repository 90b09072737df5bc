package modal

import (
	"testing"

	"github.com/cwbudde/algo-modaldelay/dsp/core"
	"github.com/cwbudde/algo-modaldelay/dsp/shape"
)

func TestCrossfadeGainsEndpoints(t *testing.T) {
	inputGain, feedbackGain := crossfadeGains(0)
	if inputGain != 4095 || feedbackGain != 1 {
		t.Fatalf("fb=0: got (%d, %d) want (4095, 1)", inputGain, feedbackGain)
	}

	inputGain, feedbackGain = crossfadeGains(core.ControlMax)
	if inputGain != minInputGain || feedbackGain != 4095 {
		t.Fatalf("fb=4095: got (%d, %d) want (%d, 4095)", inputGain, feedbackGain, minInputGain)
	}
}

func TestCrossfadeGainsMidpointBoost(t *testing.T) {
	// The quadratic curves are complementary, not linear: at the
	// midpoint both gains sit well above half scale.
	inputGain, feedbackGain := crossfadeGains(2048)

	if inputGain != 3071 {
		t.Fatalf("midpoint input gain: got %d want 3071", inputGain)
	}

	if feedbackGain != 3072 {
		t.Fatalf("midpoint feedback gain: got %d want 3072", feedbackGain)
	}
}

func TestCrossfadeGainsMonotonic(t *testing.T) {
	prevIn, prevFb := crossfadeGains(0)

	for fb := int32(1); fb <= core.ControlMax; fb++ {
		in, fbg := crossfadeGains(fb)

		if in > prevIn {
			t.Fatalf("fb=%d: input gain rose %d -> %d", fb, prevIn, in)
		}

		if fbg < prevFb {
			t.Fatalf("fb=%d: feedback gain fell %d -> %d", fb, prevFb, fbg)
		}

		prevIn, prevFb = in, fbg
	}
}

func TestFeedbackPassesDryAtZeroFeedback(t *testing.T) {
	f, err := newFeedbackNetwork(shape.CharacterGentle, true)
	if err != nil {
		t.Fatal(err)
	}

	if got := f.process(63, 0, 0, ModeClean); got != 63 {
		t.Fatalf("dry passthrough: got %d want 63", got)
	}
}

func TestFeedbackEchoDiesAtZeroFeedback(t *testing.T) {
	f, err := newFeedbackNetwork(shape.CharacterGentle, true)
	if err != nil {
		t.Fatal(err)
	}

	if got := f.process(0, 63, 0, ModeClean); got != 0 {
		t.Fatalf("residual feedback at zero control: got %d want 0", got)
	}
}

func TestFeedbackLoopStableInSaturationMode(t *testing.T) {
	// Close the loop directly around the network with no fresh input.
	// The shaper's sub-unity small-signal gain must pull any level back
	// down. A small DC residual may remain: the integer highpass stops
	// updating once |in-state|*coeff rounds to zero, which bounds the
	// standing offset at 32768/dcBlockerCoeff = 163.
	for _, fb := range []int32{1000, 2500, 4095} {
		f, err := newFeedbackNetwork(shape.CharacterGentle, true)
		if err != nil {
			t.Fatal(err)
		}

		x := int32(2047)
		for i := 0; i < 50000; i++ {
			x = f.process(0, x, fb, ModeSaturation)

			if core.Abs32(x) > 2047 {
				t.Fatalf("fb=%d sample %d: writeback %d outside sample range", fb, i, x)
			}

			if i >= 2000 && core.Abs32(x) > 163 {
				t.Fatalf("fb=%d sample %d: loop did not settle, |x|=%d", fb, i, core.Abs32(x))
			}
		}
	}
}

func TestFeedbackShimmerEmphasisStripsDC(t *testing.T) {
	shimmer, err := newFeedbackNetwork(shape.CharacterGentle, true)
	if err != nil {
		t.Fatal(err)
	}

	clean, err := newFeedbackNetwork(shape.CharacterGentle, true)
	if err != nil {
		t.Fatal(err)
	}

	// 200 samples: the emphasis filter (time constant ~33 samples) has
	// rejected the constant input down to rounding residuals, while the
	// gentle DC blocker (~328 samples) has only partially tracked it.
	var shimmerOut, cleanOut int32
	for i := 0; i < 200; i++ {
		shimmerOut = shimmer.process(0, 1000, core.ControlMax, ModeShimmer)
		cleanOut = clean.process(0, 1000, core.ControlMax, ModeClean)
	}

	if cleanOut <= 400 {
		t.Fatalf("clean path lost level it should keep: got %d", cleanOut)
	}

	if core.Abs32(shimmerOut) >= cleanOut/3 {
		t.Fatalf("shimmer emphasis left DC standing: got %d vs clean %d", shimmerOut, cleanOut)
	}
}
