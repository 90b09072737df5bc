package modal

import "github.com/cwbudde/algo-modaldelay/dsp/delay"

// freezer captures the write cursor and per-channel delay lengths on a
// rising edge of the freeze gate. While the gate is held, buffer writes
// are suppressed and reads loop seamlessly inside the captured window.
// No reset is needed on release: fresh values are captured on the next
// rising edge.
type freezer struct {
	active    bool
	lastPulse bool

	origin  int32
	delayL  int32 // Q7, captured at activation
	delayR  int32 // Q7, captured at activation
	elapsed uint32
}

// update processes the freeze gate for this sample.
func (f *freezer) update(pulse bool, writePos, delayLQ7, delayRQ7 int32) {
	if pulse && !f.lastPulse {
		f.origin = writePos
		f.delayL = delayLQ7
		f.delayR = delayRQ7
		f.elapsed = 0
		f.active = true
	}

	if !pulse {
		f.active = false
	}

	f.lastPulse = pulse
}

// readOrigin returns the effective write-relative origin for this
// sample's reads: the captured cursor advanced modulo the captured
// loop length, so the read pointer cycles within exactly the frozen
// delay window instead of running off into stale buffer content.
func (f *freezer) readOrigin(capacity int32) int32 {
	period := uint32(f.delayL>>delay.FracBits) + 1
	offset := int32(f.elapsed % period)

	return (f.origin + offset) % capacity
}

// tick advances the frozen-loop position by one sample.
func (f *freezer) tick() {
	f.elapsed++
}
