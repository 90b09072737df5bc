package modal

// Tap acceptance window and lock timeout in samples at 48 kHz.
const (
	tapMinInterval = 2400   // 50 ms
	tapMaxInterval = 144000 // 3 s
	tapTimeout     = 240000 // 5 s
)

// tapTempo measures the interval between rising edges on the tap pulse
// input. While locked, the measured interval substitutes for the
// knob/CV-derived delay time.
type tapTempo struct {
	lastTap   uint32
	deadline  uint32
	interval  uint32
	active    bool
	lastPulse bool
}

// update processes the pulse level for the sample at counter now.
func (t *tapTempo) update(pulse bool, now uint32) {
	if pulse && !t.lastPulse {
		elapsed := now - t.lastTap
		if elapsed >= tapMinInterval && elapsed <= tapMaxInterval {
			t.interval = elapsed
			t.active = true
			t.deadline = now + tapTimeout
		}
		// Out-of-range edges still move the reference point so the
		// next edge measures from them.
		t.lastTap = now
	}

	t.lastPulse = pulse

	// Signed difference survives 32-bit counter wraparound.
	if t.active && int32(now-t.deadline) >= 0 {
		t.active = false
	}
}
