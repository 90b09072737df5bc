// Package card defines the per-sample contract between the hardware
// abstraction layer and a processing core. The timing driver calls a
// Processor exactly once per sample period with a snapshot of the
// digitized inputs and forwards the returned snapshot to the DACs and
// LEDs unchanged.
package card

// SampleRate is the fixed operating sample rate in Hz.
const SampleRate = 48000

// NumLeds is the number of LED indicators on the panel.
const NumLeds = 6

// Switch is the position of the tri-state toggle.
type Switch int

const (
	SwitchUp Switch = iota
	SwitchMiddle
	SwitchDown
)

// String returns the position name.
func (s Switch) String() string {
	switch s {
	case SwitchUp:
		return "up"
	case SwitchMiddle:
		return "middle"
	case SwitchDown:
		return "down"
	default:
		return "unknown"
	}
}

// Inputs is one sample period's worth of digitized inputs. Audio and CV
// values are signed 12-bit (audio ±2047, CV ±2048); knobs are 0..4095.
type Inputs struct {
	AudioIn1 int32
	AudioIn2 int32

	CV1 int32
	CV2 int32

	KnobMain int32
	KnobX    int32
	KnobY    int32

	Pulse1 bool
	Pulse2 bool

	Switch Switch
}

// Outputs is one sample period's worth of results. Audio values must be
// within ±2047; LED states are driven as-is.
type Outputs struct {
	AudioOut1 int32
	AudioOut2 int32

	Leds [NumLeds]bool
}

// Processor is the per-sample entry point. Implementations must not
// block, allocate, or retain the input snapshot.
type Processor interface {
	ProcessSample(in Inputs) Outputs
}
