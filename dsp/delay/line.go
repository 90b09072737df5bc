// Package delay provides a fixed-point circular delay line with
// sub-sample interpolated reads.
package delay

import "fmt"

// FracBits is the number of fractional bits in delay lengths passed to
// interpolated reads (Q7, scale x128).
const FracBits = 7

// FracScale is the fixed-point scale of fractional delay lengths.
const FracScale = 1 << FracBits

// Line is a circular buffer of signed 16-bit samples with a single
// write cursor advancing by one per sample.
type Line struct {
	buffer   []int16
	writePos int32
}

// New returns a delay line of fixed size.
func New(size int32) (*Line, error) {
	if size < 3 {
		return nil, fmt.Errorf("delay size must be >= 3: %d", size)
	}

	return &Line{buffer: make([]int16, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int32 {
	return int32(len(d.buffer))
}

// WritePos returns the current write cursor in [0, Len).
func (d *Line) WritePos() int32 {
	return d.writePos
}

// Write stores one sample at the cursor and advances it.
// The caller is responsible for clipping sample into int16 range.
func (d *Line) Write(sample int32) {
	d.buffer[d.writePos] = int16(sample)
	d.advance()
}

// Skip advances the cursor without storing, leaving the cell untouched.
// Used while a freeze is holding the buffer contents.
func (d *Line) Skip() {
	d.advance()
}

func (d *Line) advance() {
	d.writePos++
	if d.writePos >= int32(len(d.buffer)) {
		d.writePos = 0
	}
}

// ReadInterpolated reads a fractional delay (Q7 samples) behind the
// write cursor with linear interpolation.
func (d *Line) ReadInterpolated(delayQ7 int32) int32 {
	return d.ReadInterpolatedAt(d.writePos, delayQ7)
}

// ReadInterpolatedAt reads a fractional delay (Q7 samples) behind an
// arbitrary origin cursor. The two source cells sit delay+1 and delay+2
// samples behind origin; the nearer-in-time cell is weighted by
// (128 - fraction) and the result rounds to nearest.
//
// delayQ7 must be pre-clamped by the caller so that the integer part
// lies in [1, Len-3]; no bounds are enforced here beyond index wrapping.
func (d *Line) ReadInterpolatedAt(origin, delayQ7 int32) int32 {
	size := int32(len(d.buffer))

	delaySamples := delayQ7 >> FracBits
	fraction := delayQ7 & (FracScale - 1)

	idx1 := origin - delaySamples - 1
	idx2 := origin - delaySamples - 2

	if idx1 < 0 {
		idx1 += size
	}

	if idx2 < 0 {
		idx2 += size
	}

	idx1 %= size
	idx2 %= size

	s1 := int32(d.buffer[idx1])
	s2 := int32(d.buffer[idx2])

	return (s2*fraction + s1*(FracScale-fraction) + FracScale/2) >> FracBits
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}
