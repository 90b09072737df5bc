// Command delay-render processes a WAV file through the modal delay
// engine offline and writes the stereo result.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-modaldelay/card"
	"github.com/cwbudde/algo-modaldelay/dsp/shape"
	"github.com/cwbudde/algo-modaldelay/internal/wavio"
	"github.com/cwbudde/algo-modaldelay/modal"
)

func main() {
	inPath := flag.String("in", "", "Input WAV (required)")
	outPath := flag.String("out", "out.wav", "Output WAV")
	modeName := flag.String("mode", "clean", "Mode: clean, saturation, shimmer, lofi")
	delayKnob := flag.Int("delay", 2048, "Delay time knob 0..4095")
	feedbackKnob := flag.Int("feedback", 2048, "Feedback knob 0..4095")
	mixKnob := flag.Int("mix", 2048, "Dry/wet knob 0..4095 (4095 = fully wet)")
	characterName := flag.String("character", "gentle", "Saturation character: gentle, crunchy")
	bloom := flag.Bool("bloom", true, "Enable the saturation bloom envelope")
	tail := flag.Float64("tail", 2.0, "Seconds of feedback tail after the input ends")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "delay-render: -in is required")
		os.Exit(1)
	}

	mode, ok := modal.ParseMode(*modeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "delay-render: unknown mode %q\n", *modeName)
		os.Exit(1)
	}

	character, ok := shape.ParseCharacter(*characterName)
	if !ok {
		fmt.Fprintf(os.Stderr, "delay-render: unknown character %q\n", *characterName)
		os.Exit(1)
	}

	input, sampleRate, err := wavio.ReadMono(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-render: %v\n", err)
		os.Exit(1)
	}

	if sampleRate != card.SampleRate {
		fmt.Fprintf(os.Stderr, "delay-render: input is %d Hz, engine timing assumes %d Hz\n",
			sampleRate, card.SampleRate)
	}

	eng, err := modal.New(
		modal.WithMode(mode),
		modal.WithCharacter(character),
		modal.WithBloom(*bloom),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-render: %v\n", err)
		os.Exit(1)
	}

	tailFrames := int(*tail * card.SampleRate)
	total := len(input) + tailFrames

	in := card.Inputs{
		KnobMain: int32(*mixKnob),
		KnobX:    int32(*delayKnob),
		KnobY:    int32(*feedbackKnob),
	}

	left := make([]int32, total)
	right := make([]int32, total)

	for i := 0; i < total; i++ {
		if i < len(input) {
			in.AudioIn1 = input[i]
		} else {
			in.AudioIn1 = 0
		}

		out := eng.ProcessSample(in)
		left[i] = out.AudioOut1
		right[i] = out.AudioOut2
	}

	if err := wavio.WriteStereo(*outPath, left, right, card.SampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "delay-render: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendered %d frames (%.2fs) in %s mode to %s\n",
		total, float64(total)/card.SampleRate, mode, *outPath)
}
