package blend

// div255 returns round(x/255) for x with 128 already added.
func div255(x uint32) uint32 {
	return (x + (x >> 8)) >> 8
}

// mulDiv255 returns round(a*b/255).
func mulDiv255(a, b byte) byte {
	return byte(div255(uint32(a)*uint32(b) + 128))
}

func clamp255(x uint32) byte {
	if x > 255 {
		return 255
	}
	return byte(x)
}

func addClamp(a, b byte) byte {
	return clamp255(uint32(a) + uint32(b))
}

// unitToByte converts a [0,1] value to a byte with rounding and clamping.
func unitToByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
