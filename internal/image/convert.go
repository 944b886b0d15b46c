package image

import "github.com/gogpu/svgfilter/internal/color"

// ToAlpha returns the buffer in the requested alpha convention. The
// receiver is returned unchanged when it already uses mode.
func (b *Buffer) ToAlpha(mode AlphaMode) *Buffer {
	if b.Alpha == mode {
		return b
	}
	out := b.Clone()
	out.Alpha = mode
	p := out.Pix
	switch mode {
	case Premultiplied:
		for i := 0; i+3 < len(p); i += 4 {
			a := p[i+3]
			if a == 255 {
				continue
			}
			p[i] = Premultiply(p[i], a)
			p[i+1] = Premultiply(p[i+1], a)
			p[i+2] = Premultiply(p[i+2], a)
		}
	case Straight:
		for i := 0; i+3 < len(p); i += 4 {
			a := p[i+3]
			if a == 255 {
				continue
			}
			p[i] = Unpremultiply(p[i], a)
			p[i+1] = Unpremultiply(p[i+1], a)
			p[i+2] = Unpremultiply(p[i+2], a)
		}
	}
	return out
}

// ToColorSpace returns the buffer with its color channels encoded in cs.
// The alpha convention is preserved. The receiver is returned unchanged
// when it is already in cs.
func (b *Buffer) ToColorSpace(cs color.ColorSpace) *Buffer {
	lut := color.Table(b.Space, cs)
	if lut == nil {
		return b
	}
	mode := b.Alpha
	out := b.ToAlpha(Straight)
	if out == b {
		out = b.Clone()
	}
	p := out.Pix
	for i := 0; i+3 < len(p); i += 4 {
		p[i] = lut[p[i]]
		p[i+1] = lut[p[i+1]]
		p[i+2] = lut[p[i+2]]
	}
	out.Space = cs
	return out.ToAlpha(mode)
}
