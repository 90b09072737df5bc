// Command delay-analyze renders the engine's impulse response and
// prints echo timing and per-band spectral energy.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-modaldelay/analysis"
	"github.com/cwbudde/algo-modaldelay/card"
	"github.com/cwbudde/algo-modaldelay/dsp/shape"
	"github.com/cwbudde/algo-modaldelay/modal"
)

func main() {
	modeName := flag.String("mode", "clean", "Mode: clean, saturation, shimmer, lofi")
	delayKnob := flag.Int("delay", 2048, "Delay time knob 0..4095")
	feedbackKnob := flag.Int("feedback", 2048, "Feedback knob 0..4095")
	characterName := flag.String("character", "gentle", "Saturation character: gentle, crunchy")
	seconds := flag.Float64("seconds", 4.0, "Response length to render")
	fftSize := flag.Int("fft", 4096, "FFT size for the spectrum")
	flag.Parse()

	mode, ok := modal.ParseMode(*modeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "delay-analyze: unknown mode %q\n", *modeName)
		os.Exit(1)
	}

	character, ok := shape.ParseCharacter(*characterName)
	if !ok {
		fmt.Fprintf(os.Stderr, "delay-analyze: unknown character %q\n", *characterName)
		os.Exit(1)
	}

	eng, err := modal.New(modal.WithMode(mode), modal.WithCharacter(character))
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-analyze: %v\n", err)
		os.Exit(1)
	}

	controls := card.Inputs{
		KnobMain: 4095, // fully wet: the response is the interesting part
		KnobX:    int32(*delayKnob),
		KnobY:    int32(*feedbackKnob),
	}

	const warmup = 8000 // let the delay smoother settle on the knob value

	length := int(*seconds * card.SampleRate)

	left, _, err := analysis.RenderImpulse(eng, controls, warmup, length, 1024)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-analyze: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mode %s, delay knob %d, feedback knob %d\n", mode, *delayKnob, *feedbackKnob)

	first := analysis.FirstArrival(left, 1, 0.001)
	if first < 0 {
		fmt.Println("No echo above threshold")
	} else {
		fmt.Printf("First echo at %d samples (%.1f ms)\n",
			first, float64(first)/card.SampleRate*1000)

		if mode == modal.ModeShimmer {
			// The shimmer cascade transposes each repeat up a fifth.
			fmt.Printf("Pitch ratio per repeat: %.4f\n", analysis.SemitoneRatio(7))
		}

		if second := analysis.FirstArrival(left, first+first/2, 0.001); second > 0 {
			fmt.Printf("Second echo at %d samples (%.1f ms)\n",
				second, float64(second)/card.SampleRate*1000)
		}
	}

	mags, err := analysis.MagnitudeSpectrum(left, *fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-analyze: %v\n", err)
		os.Exit(1)
	}

	bands := []struct {
		name string
		loHz float64
		hiHz float64
	}{
		{"bass (100-300Hz)", 100, 300},
		{"low-mid (300-1kHz)", 300, 1000},
		{"mid (1-3kHz)", 1000, 3000},
		{"hi-mid (3-6kHz)", 3000, 6000},
		{"high (6-12kHz)", 6000, 12000},
	}

	fmt.Println("Band energy:")
	for _, b := range bands {
		db, err := analysis.BandEnergyDB(mags, card.SampleRate, *fftSize, b.loHz, b.hiHz)
		if err != nil {
			fmt.Fprintf(os.Stderr, "delay-analyze: %s: %v\n", b.name, err)
			continue
		}

		fmt.Printf("  %-20s %7.1f dB\n", b.name, db)
	}
}
