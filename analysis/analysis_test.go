package analysis

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modaldelay/card"
	"github.com/cwbudde/algo-modaldelay/modal"
)

func TestMagnitudeSpectrumPeaksAtSineBin(t *testing.T) {
	const (
		fftSize = 1024
		bin     = 64
	)

	signal := make([]float64, fftSize)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(bin) * float64(i) / fftSize)
	}

	mags, err := MagnitudeSpectrum(signal, fftSize)
	if err != nil {
		t.Fatal(err)
	}

	if len(mags) != fftSize/2+1 {
		t.Fatalf("spectrum length: got %d want %d", len(mags), fftSize/2+1)
	}

	peak := 0
	for k := 1; k < len(mags)-1; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}

	if peak != bin {
		t.Fatalf("peak bin: got %d want %d", peak, bin)
	}
}

func TestMagnitudeSpectrumRejectsBadSize(t *testing.T) {
	if _, err := MagnitudeSpectrum(make([]float64, 16), 1000); err == nil {
		t.Fatal("expected error for non-power-of-two fft size")
	}
}

func TestBandEnergySeparation(t *testing.T) {
	const (
		sampleRate = 48000
		fftSize    = 4096
		bin        = 100 // 1171.875 Hz, bin-exact
	)

	signal := make([]float64, fftSize)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(bin) * float64(i) / fftSize)
	}

	mags, err := MagnitudeSpectrum(signal, fftSize)
	if err != nil {
		t.Fatal(err)
	}

	inBand, err := BandEnergyDB(mags, sampleRate, fftSize, 1000, 1400)
	if err != nil {
		t.Fatal(err)
	}

	outBand, err := BandEnergyDB(mags, sampleRate, fftSize, 5000, 10000)
	if err != nil {
		t.Fatal(err)
	}

	if inBand-outBand < 40 {
		t.Fatalf("band separation too small: %.1f dB in, %.1f dB out", inBand, outBand)
	}
}

func TestBandEnergyRejectsEmptyBand(t *testing.T) {
	mags := make([]float64, 4096/2+1)

	if _, err := BandEnergyDB(mags, 48000, 4096, 2000, 1000); err == nil {
		t.Fatal("expected error for inverted band")
	}

	if _, err := BandEnergyDB(mags, 48000, 1024, 100, 200); err == nil {
		t.Fatal("expected error for mismatched spectrum length")
	}
}

func TestRenderImpulseCleanEchoTiming(t *testing.T) {
	eng, err := modal.New()
	if err != nil {
		t.Fatal(err)
	}

	// Knob at zero maps to the 100-sample minimum delay; the echo of a
	// sample written at T reads back at T+101.
	left, right, err := RenderImpulse(eng, card.Inputs{KnobMain: 4095}, 3000, 400, 126)
	if err != nil {
		t.Fatal(err)
	}

	if left[0] != 0 {
		t.Fatalf("full-wet output leaked dry impulse: %g", left[0])
	}

	arrival := FirstArrival(left, 1, 0.01)
	if arrival != 101 {
		t.Fatalf("echo arrival: got %d want 101", arrival)
	}

	if FirstArrival(left, arrival+2, 0.002) != -1 {
		t.Fatal("second echo present at zero feedback")
	}

	if FirstArrival(right, 1, 0.01) != arrival {
		t.Fatal("stereo outputs disagree in clean mode")
	}
}

func TestRenderImpulseShimmerShortensEcho(t *testing.T) {
	eng, err := modal.New()
	if err != nil {
		t.Fatal(err)
	}

	// Two presses: Clean -> Saturation -> Shimmer.
	for i := 0; i < 2; i++ {
		eng.ProcessSample(card.Inputs{Switch: card.SwitchDown})
		eng.ProcessSample(card.Inputs{Switch: card.SwitchMiddle})
	}

	if eng.Mode() != modal.ModeShimmer {
		t.Fatalf("mode: got %v want %v", eng.Mode(), modal.ModeShimmer)
	}

	controls := card.Inputs{KnobMain: 4095, KnobX: 2000}

	left, _, err := RenderImpulse(eng, controls, 6000, 40000, 126)
	if err != nil {
		t.Fatal(err)
	}

	arrival := FirstArrival(left, 1, 0.002)
	if arrival < 0 {
		t.Fatal("no echo found")
	}

	// KnobX=2000 maps to a 34727-sample delay; the shimmer modulator
	// shortens it by 21782/65536 so the repeat lands a fifth up.
	baseArrival := 34728.0
	expected := int(baseArrival * (1.0 - 21782.0/65536.0))

	if arrival < expected-2 || arrival > expected+2 {
		t.Fatalf("pitched echo arrival: got %d want %d +/- 2", arrival, expected)
	}
}

func TestSemitoneRatio(t *testing.T) {
	cases := []struct {
		semitones float64
		want      float64
	}{
		{0, 1.0},
		{7, 1.4983},
		{12, 2.0},
		{-12, 0.5},
	}

	for _, tc := range cases {
		got := SemitoneRatio(tc.semitones)
		if math.Abs(got-tc.want)/tc.want > 0.01 {
			t.Fatalf("SemitoneRatio(%g): got %g want %g", tc.semitones, got, tc.want)
		}
	}
}
