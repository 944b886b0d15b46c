package color

// The tables map straight-alpha 8-bit channel values between the two
// interpolation spaces. They are only valid on unpremultiplied data.
var (
	sRGBToLinearLUT [256]uint8
	linearToSRGBLUT [256]uint8
)

func init() {
	for i := 0; i < 256; i++ {
		v := float32(i) / 255
		sRGBToLinearLUT[i] = clampAndRound(SRGBToLinear(v))
		linearToSRGBLUT[i] = clampAndRound(LinearToSRGB(v))
	}
}

// Table returns the channel lookup table converting from one space to
// another, or nil when no conversion is needed.
func Table(from, to ColorSpace) *[256]uint8 {
	switch {
	case from == to:
		return nil
	case to == LinearRGB:
		return &sRGBToLinearLUT
	default:
		return &linearToSRGBLUT
	}
}
