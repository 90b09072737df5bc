// Command delay-play processes a WAV file through the modal delay
// engine and monitors the stereo result on the default audio device.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-modaldelay/card"
	"github.com/cwbudde/algo-modaldelay/dsp/shape"
	"github.com/cwbudde/algo-modaldelay/internal/wavio"
	"github.com/cwbudde/algo-modaldelay/modal"
)

func main() {
	inPath := flag.String("in", "", "Input WAV (required)")
	modeName := flag.String("mode", "clean", "Mode: clean, saturation, shimmer, lofi")
	delayKnob := flag.Int("delay", 2048, "Delay time knob 0..4095")
	feedbackKnob := flag.Int("feedback", 2048, "Feedback knob 0..4095")
	mixKnob := flag.Int("mix", 2048, "Dry/wet knob 0..4095 (4095 = fully wet)")
	characterName := flag.String("character", "gentle", "Saturation character: gentle, crunchy")
	tail := flag.Float64("tail", 2.0, "Seconds of feedback tail after the input ends")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "delay-play: -in is required")
		os.Exit(1)
	}

	mode, ok := modal.ParseMode(*modeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "delay-play: unknown mode %q\n", *modeName)
		os.Exit(1)
	}

	character, ok := shape.ParseCharacter(*characterName)
	if !ok {
		fmt.Fprintf(os.Stderr, "delay-play: unknown character %q\n", *characterName)
		os.Exit(1)
	}

	input, sampleRate, err := wavio.ReadMono(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-play: %v\n", err)
		os.Exit(1)
	}

	if sampleRate != card.SampleRate {
		fmt.Fprintf(os.Stderr, "delay-play: input is %d Hz, engine timing assumes %d Hz\n",
			sampleRate, card.SampleRate)
	}

	eng, err := modal.New(modal.WithMode(mode), modal.WithCharacter(character))
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-play: %v\n", err)
		os.Exit(1)
	}

	in := card.Inputs{
		KnobMain: int32(*mixKnob),
		KnobX:    int32(*delayKnob),
		KnobY:    int32(*feedbackKnob),
	}

	total := len(input) + int(*tail*card.SampleRate)

	// Render to interleaved S16LE; the 12-bit engine range shifts up
	// to fill 16 bits.
	pcm := make([]byte, 0, total*4)
	var frame [4]byte

	for i := 0; i < total; i++ {
		if i < len(input) {
			in.AudioIn1 = input[i]
		} else {
			in.AudioIn1 = 0
		}

		out := eng.ProcessSample(in)
		binary.LittleEndian.PutUint16(frame[0:2], uint16(int16(out.AudioOut1<<4)))
		binary.LittleEndian.PutUint16(frame[2:4], uint16(int16(out.AudioOut2<<4)))
		pcm = append(pcm, frame[:]...)
	}

	opts := &oto.NewContextOptions{
		SampleRate:   card.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delay-play: audio context: %v\n", err)
		os.Exit(1)
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	fmt.Printf("Playing %d frames (%.2fs) in %s mode\n",
		total, float64(total)/card.SampleRate, mode)

	player.Play()
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
}
