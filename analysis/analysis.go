// Package analysis provides offline helpers for rendering an engine
// response and inspecting its spectrum. The realtime signal path is
// all-integer; this package deliberately works in float64 for the
// measurement side only.
package analysis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-approx"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modaldelay/card"
	"github.com/cwbudde/algo-modaldelay/dsp/core"
)

// sampleScale normalizes the 12-bit signal range to [-1, 1].
const sampleScale = 1.0 / float64(core.SampleMax)

// Render drives a processor with a mono input signal and returns both
// normalized output channels. The control fields of in are held
// constant; AudioIn1 is overwritten per sample.
func Render(p card.Processor, input []int32, in card.Inputs) (left, right []float64) {
	left = make([]float64, len(input))
	right = make([]float64, len(input))

	for i, v := range input {
		in.AudioIn1 = v
		out := p.ProcessSample(in)
		left[i] = float64(out.AudioOut1) * sampleScale
		right[i] = float64(out.AudioOut2) * sampleScale
	}

	return left, right
}

// RenderImpulse lets the processor settle for warmup samples, then
// feeds a single impulse and returns length samples of both output
// channels starting at the impulse.
func RenderImpulse(p card.Processor, in card.Inputs, warmup, length int, amplitude int32) (left, right []float64, err error) {
	if warmup < 0 {
		return nil, nil, fmt.Errorf("analysis warmup must be >= 0: %d", warmup)
	}

	if length <= 0 {
		return nil, nil, fmt.Errorf("analysis length must be > 0: %d", length)
	}

	if amplitude <= 0 || amplitude > core.SampleMax {
		return nil, nil, fmt.Errorf("analysis impulse amplitude out of range: %d", amplitude)
	}

	input := make([]int32, warmup+length)
	input[warmup] = amplitude

	left, right = Render(p, input, in)

	return left[warmup:], right[warmup:], nil
}

// MagnitudeSpectrum returns the Hann-windowed magnitude spectrum of
// the first fftSize samples of signal (zero-padded if shorter),
// fftSize/2+1 bins including DC and Nyquist.
func MagnitudeSpectrum(signal []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analysis fft size must be a power of two >= 2: %d", fftSize)
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, err
	}

	buf := make([]float64, fftSize)
	n := len(signal)
	if n > fftSize {
		n = fftSize
	}

	for i := 0; i < n; i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = signal[i] * w
	}

	spec := make([]complex128, fftSize/2+1)
	if err := plan.Forward(spec, buf); err != nil {
		return nil, err
	}

	re := make([]float64, len(spec))
	im := make([]float64, len(spec))
	for i, c := range spec {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(spec))
	vecmath.Magnitude(out, re, im)

	return out, nil
}

// BandEnergyDB returns the mean bin power of mags between loHz and
// hiHz in dB. mags must be a spectrum produced for fftSize at
// sampleRate; DC and Nyquist bins are excluded.
func BandEnergyDB(mags []float64, sampleRate, fftSize int, loHz, hiHz float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("analysis sample rate must be > 0: %d", sampleRate)
	}

	if len(mags) != fftSize/2+1 {
		return 0, fmt.Errorf("analysis spectrum length %d does not match fft size %d", len(mags), fftSize)
	}

	if loHz >= hiHz {
		return 0, fmt.Errorf("analysis band %g-%g Hz is empty", loHz, hiHz)
	}

	binHz := float64(sampleRate) / float64(fftSize)

	loK := int(loHz / binHz)
	hiK := int(hiHz / binHz)

	if loK < 1 {
		loK = 1
	}

	if hiK > len(mags)-2 {
		hiK = len(mags) - 2
	}

	if loK > hiK {
		return 0, fmt.Errorf("analysis band %g-%g Hz covers no bins at %g Hz resolution", loHz, hiHz, binHz)
	}

	var power float64
	for k := loK; k <= hiK; k++ {
		power += mags[k] * mags[k]
	}
	power /= float64(hiK - loK + 1)

	return 10 * math.Log10(math.Max(power, 1e-24)), nil
}

// FirstArrival returns the index of the first sample at or after from
// whose magnitude exceeds threshold, or -1 if none does. Used to
// locate echo onsets in rendered responses.
func FirstArrival(signal []float64, from int, threshold float64) int {
	if from < 0 {
		from = 0
	}

	for i := from; i < len(signal); i++ {
		if math.Abs(signal[i]) > threshold {
			return i
		}
	}

	return -1
}

// SemitoneRatio returns the frequency ratio of a pitch interval in
// semitones.
func SemitoneRatio(semitones float64) float64 {
	const ln2 = 0.69314718055994530942
	return float64(approx.FastExp(float32(semitones/12.0) * ln2))
}
