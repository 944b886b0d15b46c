package filter

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/color"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Light is a light source for the lighting primitives: DistantLight,
// PointLight or SpotLight.
type Light interface {
	isLight()
}

// DistantLight is an infinitely distant light. Angles are in degrees.
type DistantLight struct {
	Azimuth, Elevation float64
}

// PointLight is a positional light. Coordinates are in primitive units.
type PointLight struct {
	X, Y, Z float64
}

// SpotLight is a point light pointing at (PointsAtX, PointsAtY, PointsAtZ)
// with intensity falling off as cos^SpecularExponent of the angle to that
// direction. A nil LimitingConeAngle (degrees) means no cone.
type SpotLight struct {
	X, Y, Z                         float64
	PointsAtX, PointsAtY, PointsAtZ float64
	SpecularExponent                float64
	LimitingConeAngle               *float64
}

func (DistantLight) isLight() {}
func (PointLight) isLight()   {}
func (SpotLight) isLight()    {}

// DiffuseLighting is the feDiffuseLighting primitive. Color is straight
// sRGB.
type DiffuseLighting struct {
	SurfaceScale    float64
	DiffuseConstant float64
	Color           color.ColorF32
	Light           Light
}

func (DiffuseLighting) Kind() Kind     { return KindDiffuseLighting }
func (DiffuseLighting) Traits() Traits { return TraitParallel | TraitAxisAligned }
func (DiffuseLighting) isParams()      {}

// SpecularLighting is the feSpecularLighting primitive. Color is straight
// sRGB. SpecularExponent is clamped to [1,128].
type SpecularLighting struct {
	SurfaceScale     float64
	SpecularConstant float64
	SpecularExponent float64
	Color            color.ColorF32
	Light            Light
}

func (SpecularLighting) Kind() Kind     { return KindSpecularLighting }
func (SpecularLighting) Traits() Traits { return TraitParallel | TraitAxisAligned }
func (SpecularLighting) isParams()      {}

type vec3 struct{ x, y, z float32 }

func (a vec3) add(b vec3) vec3      { return vec3{a.x + b.x, a.y + b.y, a.z + b.z} }
func (a vec3) sub(b vec3) vec3      { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec3) dot(b vec3) float32   { return a.x*b.x + a.y*b.y + a.z*b.z }
func (a vec3) scale(s float32) vec3 { return vec3{a.x * s, a.y * s, a.z * s} }

func (a vec3) normalize() vec3 {
	l := math32.Sqrt(a.dot(a))
	if l == 0 {
		return a
	}
	return a.scale(1 / l)
}

// lightModel is a light resolved into buffer pixel space.
type lightModel struct {
	distant bool
	dir     vec3 // distant: unit vector towards the light
	pos     vec3 // point and spot: position in pixels
	spot    bool
	spotDir vec3 // unit vector from the light to pointsAt
	spotExp float32
	coneCos float32
	hasCone bool
	color   vec3
}

func newLightModel(l Light, c color.ColorF32, m geom.Matrix) lightModel {
	lm := lightModel{color: vec3{c.R * 255, c.G * 255, c.B * 255}}
	zScale := float32(m.Descrim())
	toPixels := func(x, y, z float64) vec3 {
		p := m.TransformPoint(geom.Pt(x, y))
		return vec3{float32(p.X), float32(p.Y), float32(z) * zScale}
	}
	switch l := l.(type) {
	case PointLight:
		lm.pos = toPixels(l.X, l.Y, l.Z)
	case SpotLight:
		lm.pos = toPixels(l.X, l.Y, l.Z)
		lm.spot = true
		lm.spotDir = toPixels(l.PointsAtX, l.PointsAtY, l.PointsAtZ).sub(lm.pos).normalize()
		lm.spotExp = float32(l.SpecularExponent)
		if lm.spotExp == 0 {
			lm.spotExp = 1
		}
		if l.LimitingConeAngle != nil {
			lm.hasCone = true
			lm.coneCos = math32.Cos(math32.Abs(float32(*l.LimitingConeAngle)) * math32.Pi / 180)
		}
	default:
		var d DistantLight
		if dl, ok := l.(DistantLight); ok {
			d = dl
		}
		az := float32(d.Azimuth) * math32.Pi / 180
		el := float32(d.Elevation) * math32.Pi / 180
		sinAz, cosAz := math32.Sincos(az)
		sinEl, cosEl := math32.Sincos(el)
		lm.distant = true
		lm.dir = vec3{cosAz * cosEl, sinAz * cosEl, sinEl}
	}
	return lm
}

// at returns the unit light vector and light color for surface point s.
func (lm *lightModel) at(s vec3) (vec3, vec3) {
	if lm.distant {
		return lm.dir, lm.color
	}
	l := lm.pos.sub(s).normalize()
	if !lm.spot {
		return l, lm.color
	}
	minusLS := -l.dot(lm.spotDir)
	if minusLS <= 0 || (lm.hasCone && minusLS < lm.coneCos) {
		return l, vec3{}
	}
	return l, lm.color.scale(math32.Pow(minusLS, lm.spotExp))
}

// surface exposes the alpha channel of a buffer as a height field.
type surface struct {
	buf   *intImage.Buffer
	scale float32
}

func (s surface) alpha(x, y int) float32 {
	_, _, _, a := s.buf.RGBAAt(x, y)
	return float32(a) / 255
}

// normal estimates the surface normal at (x, y) with the Sobel kernels,
// using one-sided differences and the matching factors at buffer edges.
func (s surface) normal(x, y int) vec3 {
	r := s.buf.Rect
	left, right := x > r.Min.X, x < r.Max.X-1
	top, bottom := y > r.Min.Y, y < r.Max.Y-1

	xl, xr := x, x
	if left {
		xl = x - 1
	}
	if right {
		xr = x + 1
	}
	yt, yb := y, y
	if top {
		yt = y - 1
	}
	if bottom {
		yb = y + 1
	}

	var nx, ny float32
	// Rows (for nx) and columns (for ny) present around the pixel, centre
	// weighted twice.
	for _, row := range [3]struct {
		y  int
		w  float32
		ok bool
	}{{y - 1, 1, top}, {y, 2, true}, {y + 1, 1, bottom}} {
		if row.ok {
			nx += row.w * (s.alpha(xr, row.y) - s.alpha(xl, row.y))
		}
	}
	for _, col := range [3]struct {
		x  int
		w  float32
		ok bool
	}{{x - 1, 1, left}, {x, 2, true}, {x + 1, 1, right}} {
		if col.ok {
			ny += col.w * (s.alpha(col.x, yb) - s.alpha(col.x, yt))
		}
	}

	nx *= -s.scale * sobelFactor(left && right, top && bottom)
	ny *= -s.scale * sobelFactor(top && bottom, left && right)
	return vec3{nx, ny, 1}.normalize()
}

// sobelFactor returns the normalization for a derivative along an axis
// with both neighbours present (along) given whether both neighbours are
// present across it.
func sobelFactor(along, across bool) float32 {
	switch {
	case along && across:
		return 1.0 / 4
	case along:
		return 1.0 / 3
	case across:
		return 1.0 / 2
	default:
		return 2.0 / 3
	}
}

// lightingPass calls shade for every output pixel with the normal, the
// unit light vector and the light color at that pixel.
func lightingPass(in *intImage.Buffer, surfaceScale float64, light Light, c color.ColorF32,
	env *Env, shade func(d []uint8, n, l, lc vec3)) *intImage.Buffer {
	src := in.ToAlpha(intImage.Premultiplied)
	surf := surface{buf: src, scale: float32(surfaceScale)}
	lm := newLightModel(light, c.InSpace(env.Space), env.Transform)

	out := env.output(intImage.Premultiplied)
	for y := out.Rect.Min.Y; y < out.Rect.Max.Y; y++ {
		di := out.PixOffset(out.Rect.Min.X, y)
		for x := out.Rect.Min.X; x < out.Rect.Max.X; x, di = x+1, di+4 {
			n := vec3{0, 0, 1}
			if (image.Point{X: x, Y: y}).In(src.Rect) {
				n = surf.normal(x, y)
			}
			p := vec3{float32(x), float32(y), surf.scale * surf.alpha(x, y)}
			l, lc := lm.at(p)
			shade(out.Pix[di:di+4:di+4], n, l, lc)
		}
	}
	return out
}

func evaluateDiffuse(in *intImage.Buffer, p DiffuseLighting, env *Env) (*intImage.Buffer, error) {
	kd := float32(p.DiffuseConstant)
	return lightingPass(in, p.SurfaceScale, p.Light, p.Color, env, func(d []uint8, n, l, lc vec3) {
		f := kd * math32.Max(0, n.dot(l))
		d[0] = clampUint8(f * lc.x)
		d[1] = clampUint8(f * lc.y)
		d[2] = clampUint8(f * lc.z)
		d[3] = 255
	}), nil
}

// evaluateSpecular tags its result premultiplied: alpha is the largest
// color channel, so every pixel is a valid premultiplied value.
func evaluateSpecular(in *intImage.Buffer, p SpecularLighting, env *Env) (*intImage.Buffer, error) {
	ks := float32(p.SpecularConstant)
	exp := math32.Max(1, math32.Min(128, float32(p.SpecularExponent)))
	eye := vec3{0, 0, 1}
	return lightingPass(in, p.SurfaceScale, p.Light, p.Color, env, func(d []uint8, n, l, lc vec3) {
		h := l.add(eye).normalize()
		nh := n.dot(h)
		var f float32
		if nh > 0 {
			f = ks * math32.Pow(nh, exp)
		}
		d[0] = clampUint8(f * lc.x)
		d[1] = clampUint8(f * lc.y)
		d[2] = clampUint8(f * lc.z)
		d[3] = maxU8(d[0], maxU8(d[1], d[2]))
	}), nil
}
