// Package wavio converts between WAV files and the engine's 12-bit
// integer sample domain. Shared by the offline cmd tools.
package wavio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-modaldelay/dsp/core"
)

// ReadMono decodes a WAV file, averages its channels to mono and
// rescales 16-bit PCM into the engine range of +/-2047. Returns the
// samples and the file's sample rate.
func ReadMono(path string) ([]int32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}

	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch

	out := make([]int32, frames)
	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < ch; c++ {
			sum += int(buf.Data[i*ch+c] * 32768)
		}

		out[i] = core.ClampSample(int32(sum/ch) >> 4)
	}

	return out, buf.Format.SampleRate, nil
}

// WriteStereo encodes two engine-domain channels as a 16-bit stereo
// WAV file.
func WriteStereo(path string, left, right []int32, sampleRate int) error {
	if len(left) != len(right) {
		return fmt.Errorf("left/right length mismatch: %d != %d", len(left), len(right))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	defer enc.Close()

	const scale = 1.0 / float32(core.SampleMax)

	data := make([]float32, len(left)*2)
	for i := range left {
		data[i*2] = float32(left[i]) * scale
		data[i*2+1] = float32(right[i]) * scale
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 2,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	return enc.Write(buf)
}
