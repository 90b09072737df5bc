package modal

import "testing"

func TestModulateCleanIsSymmetric(t *testing.T) {
	left, right := modulateDelays(128000, ModeClean)

	if left != 128000 || right != 128000 {
		t.Fatalf("clean: got (%d, %d) want (128000, 128000)", left, right)
	}
}

func TestModulateSaturationSpread(t *testing.T) {
	left, right := modulateDelays(128000, ModeSaturation)

	if left != 128000 {
		t.Fatalf("saturation left: got %d want 128000", left)
	}

	// Right reads 1% longer for stereo width.
	if right != 129280 {
		t.Fatalf("saturation right: got %d want 129280", right)
	}
}

func TestModulateShimmerShortensDelay(t *testing.T) {
	left, right := modulateDelays(128000, ModeShimmer)

	// 128000 * (1 - 21782/65536) = 85457: the shortening that pitches
	// each repeat up a fifth.
	if left != 85457 {
		t.Fatalf("shimmer left: got %d want 85457", left)
	}

	// 3% spread on top of the pitched length.
	if right != 88021 {
		t.Fatalf("shimmer right: got %d want 88021", right)
	}
}

func TestModulateClampsToDelayRange(t *testing.T) {
	// Near the minimum the shimmer shortening would undershoot the
	// valid range and must clamp.
	left, _ := modulateDelays(minDelayQ7, ModeShimmer)
	if left != minDelayQ7 {
		t.Fatalf("shimmer min clamp: got %d want %d", left, minDelayQ7)
	}

	// At the maximum the stereo spread would overshoot.
	_, right := modulateDelays(maxDelayQ7, ModeSaturation)
	if right != maxDelayQ7 {
		t.Fatalf("spread max clamp: got %d want %d", right, maxDelayQ7)
	}
}
