package core

// Audio sample range of the 12-bit signed converter path.
const (
	SampleMax = 2047
	SampleMin = -2047
)

// Control range of knob and combined knob+CV values.
const (
	ControlMax = 4095
	ControlMin = 0
)

// Clamp32 limits value to the inclusive range [min, max].
func Clamp32(value, min, max int32) int32 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampSample limits value to the audio sample range.
func ClampSample(value int32) int32 {
	return Clamp32(value, SampleMin, SampleMax)
}

// ClampControl limits value to the control range.
func ClampControl(value int32) int32 {
	return Clamp32(value, ControlMin, ControlMax)
}

// Abs32 returns the absolute value of v.
func Abs32(v int32) int32 {
	if v < 0 {
		return -v
	}

	return v
}

// RoundShift32 divides v by 2^bits with nearest-integer rounding,
// adding half the denominator before the arithmetic shift.
func RoundShift32(v int32, bits uint) int32 {
	return (v + 1<<(bits-1)) >> bits
}

// RoundShift64 is RoundShift32 for 64-bit intermediates.
func RoundShift64(v int64, bits uint) int64 {
	return (v + 1<<(bits-1)) >> bits
}

// MulQ16 multiplies a by a Q16 coefficient with sign-correct nearest
// rounding: half the scale is added for non-negative products and
// subtracted for negative ones, so repeated application introduces no
// systematic drift in either direction.
func MulQ16(a, coeff int32) int32 {
	p := int64(a) * int64(coeff)
	if p >= 0 {
		return int32((p + 1<<15) >> 16)
	}

	return int32(-((-p + 1<<15) >> 16))
}

// MulRatio scales v by num/den using 64-bit intermediates with
// sign-correct nearest rounding. den must be > 0.
func MulRatio(v int32, num, den int64) int32 {
	p := int64(v) * num
	if p >= 0 {
		return int32((p + den/2) / den)
	}

	return int32(-((-p + den/2) / den))
}
