// Package color provides the color-interpolation spaces used by filter
// primitives and fast conversions between them.
package color

import (
	"errors"
	"fmt"
	"strings"
)

// ColorSpace is the color-interpolation space a buffer's color channels
// are encoded in.
type ColorSpace uint8

const (
	// SRGB is the standard sRGB color space. Source graphics arrive in it
	// and the compositor expects it.
	SRGB ColorSpace = iota
	// LinearRGB is light-linear RGB.
	LinearRGB
)

// ErrUnknownColorSpace is returned when parsing an unknown space name.
var ErrUnknownColorSpace = errors.New("color: unknown color space")

// String returns the SVG keyword for the space.
func (cs ColorSpace) String() string {
	switch cs {
	case SRGB:
		return "sRGB"
	case LinearRGB:
		return "linearRGB"
	default:
		return "Unknown"
	}
}

// ParseColorSpace parses an SVG color-interpolation-filters keyword.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srgb":
		return SRGB, nil
	case "linearrgb":
		return LinearRGB, nil
	}
	return SRGB, fmt.Errorf("%w: %q", ErrUnknownColorSpace, s)
}

// ColorF32 represents a straight-alpha color with float32 components in [0,1].
type ColorF32 struct {
	R, G, B, A float32
}

// Black is opaque black, the SVG default for flood-color.
var Black = ColorF32{A: 1}

// White is opaque white, the SVG default for lighting-color.
var White = ColorF32{R: 1, G: 1, B: 1, A: 1}

// ErrInvalidHex is returned for malformed hex color strings.
var ErrInvalidHex = errors.New("color: invalid hex color")

// ParseHex parses "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA" (the leading
// '#' is optional).
func ParseHex(hex string) (ColorF32, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")

	var r, g, b, a uint32
	a = 255

	var ok bool
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	}
	if !ok {
		return Black, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	return ColorF32{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}, nil
}

func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Premultiplied returns the color as premultiplied bytes.
func (c ColorF32) Premultiplied() (r, g, b, a uint8) {
	alpha := clamp01(c.A)
	return clampAndRound(c.R * alpha), clampAndRound(c.G * alpha), clampAndRound(c.B * alpha), clampAndRound(alpha)
}

// InSpace converts the color channels from sRGB to the given space.
func (c ColorF32) InSpace(cs ColorSpace) ColorF32 {
	if cs != LinearRGB {
		return c
	}
	return ColorF32{R: SRGBToLinear(c.R), G: SRGBToLinear(c.G), B: SRGBToLinear(c.B), A: c.A}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampAndRound clamps a float32 to [0,1] and converts to uint8 with rounding.
func clampAndRound(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
