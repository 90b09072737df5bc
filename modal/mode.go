package modal

// Mode selects the feedback shaping, stereo spread and pitch-cascade
// behavior of the engine.
type Mode int32

const (
	ModeClean Mode = iota
	ModeSaturation
	ModeShimmer
	ModeLoFi

	modeCount
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeClean:
		return "clean"
	case ModeSaturation:
		return "saturation"
	case ModeShimmer:
		return "shimmer"
	case ModeLoFi:
		return "lofi"
	default:
		return "unknown"
	}
}

// ParseMode returns the mode named by s.
func ParseMode(s string) (Mode, bool) {
	for m := ModeClean; m < modeCount; m++ {
		if m.String() == s {
			return m, true
		}
	}

	return ModeClean, false
}

// modeCycler advances to the next mode on each edge into the down
// switch position, making the tri-state switch act momentary.
type modeCycler struct {
	mode     Mode
	lastDown bool
}

func (c *modeCycler) update(down bool) Mode {
	if down && !c.lastDown {
		c.mode = (c.mode + 1) % modeCount
	}

	c.lastDown = down

	return c.mode
}
