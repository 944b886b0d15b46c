package blend

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Mode is a separable blend mode as used by feBlend.
type Mode uint8

const (
	Normal     Mode = iota // S
	Multiply               // S * D
	Screen                 // S + D - S*D
	Darken                 // min(S, D)
	Lighten                // max(S, D)
	Overlay                // HardLight with swapped layers
	ColorDodge             // D / (1 - S)
	ColorBurn              // 1 - (1 - D) / S
	HardLight              // Multiply or Screen depending on source
	SoftLight              // Soft version of HardLight
	Difference             // |S - D|
	Exclusion              // S + D - 2*S*D
)

var modeNames = [...]string{
	"normal", "multiply", "screen", "darken", "lighten", "overlay",
	"color-dodge", "color-burn", "hard-light", "soft-light", "difference", "exclusion",
}

// String returns the CSS keyword for the mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode parses a CSS blend-mode keyword.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Func returns the blend function for the mode. Normal is source-over.
func (m Mode) Func() Func {
	if m == Normal || int(m) >= len(modeNames) {
		return SourceOver
	}
	ch := channelFuncs[m]
	return func(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
		return separable(sr, sg, sb, sa, dr, dg, db, da, ch)
	}
}

var channelFuncs = [...]func(s, d float32) float32{
	Multiply:   func(s, d float32) float32 { return s * d },
	Screen:     func(s, d float32) float32 { return s + d - s*d },
	Darken:     math32.Min,
	Lighten:    math32.Max,
	Overlay:    func(s, d float32) float32 { return hardLight(d, s) },
	ColorDodge: colorDodge,
	ColorBurn:  colorBurn,
	HardLight:  hardLight,
	SoftLight:  softLight,
	Difference: func(s, d float32) float32 { return math32.Abs(s - d) },
	Exclusion:  func(s, d float32) float32 { return s + d - 2*s*d },
}

// separable applies
//
//	Cr = (1 - Sa)*D + (1 - Da)*S + Sa*Da*B(Cs, Cd)
//	Ar = Sa + Da - Sa*Da
//
// where Cs and Cd are the unpremultiplied source and destination colors.
func separable(sr, sg, sb, sa, dr, dg, db, da byte, b func(s, d float32) float32) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}
	fsa, fda := float32(sa)/255, float32(da)/255
	mix := func(s, d byte) byte {
		fs, fd := float32(s)/255, float32(d)/255
		v := (1-fsa)*fd + (1-fda)*fs + fsa*fda*b(fs/fsa, fd/fda)
		return unitToByte(math32.Min(v, fsa+fda-fsa*fda))
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), unitToByte(fsa + fda - fsa*fda)
}

func hardLight(s, d float32) float32 {
	if s <= 0.5 {
		return 2 * s * d
	}
	return 1 - 2*(1-s)*(1-d)
}

func colorDodge(s, d float32) float32 {
	switch {
	case d == 0:
		return 0
	case s >= 1:
		return 1
	}
	return math32.Min(1, d/(1-s))
}

func colorBurn(s, d float32) float32 {
	switch {
	case d >= 1:
		return 1
	case s <= 0:
		return 0
	}
	return 1 - math32.Min(1, (1-d)/s)
}

func softLight(s, d float32) float32 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var g float32
	if d <= 0.25 {
		g = ((16*d-12)*d + 4) * d
	} else {
		g = math32.Sqrt(d)
	}
	return d + (2*s-1)*(g-d)
}
