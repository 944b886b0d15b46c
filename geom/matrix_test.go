package geom

import (
	"image"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMultiplyOrder(t *testing.T) {
	// Translate applied first, then scale.
	m := Scale(2, 3).Multiply(Translate(10, 20))
	got := m.TransformPoint(Pt(1, 1))
	if !approx(got.X, 22) || !approx(got.Y, 63) {
		t.Errorf("TransformPoint = %+v, want {22 63}", got)
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		ok   bool
	}{
		{"identity", Identity(), true},
		{"translate", Translate(5, -7), true},
		{"scale", Scale(2, 0.5), true},
		{"rotate", Rotate(math.Pi / 3), true},
		{"composite", Translate(3, 4).Multiply(Rotate(0.3)).Multiply(Scale(2, 5)), true},
		{"singular", Scale(0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if ok != tt.ok {
				t.Fatalf("Invert ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				if !inv.IsIdentity() {
					t.Errorf("singular Invert = %+v, want identity", inv)
				}
				return
			}
			p := Pt(3.5, -2.25)
			back := inv.TransformPoint(tt.m.TransformPoint(p))
			if !approx(back.X, p.X) || !approx(back.Y, p.Y) {
				t.Errorf("round trip = %+v, want %+v", back, p)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name        string
		m           Matrix
		translation bool
		aligned     bool
	}{
		{"identity", Identity(), true, true},
		{"translate", Translate(1, 2), true, true},
		{"scale", Scale(2, 3), false, true},
		{"rotate", Rotate(0.5), false, false},
		{"shear", Matrix{A: 1, B: 0.5, E: 1}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsTranslation(); got != tt.translation {
				t.Errorf("IsTranslation = %v, want %v", got, tt.translation)
			}
			if got := tt.m.IsAxisAligned(); got != tt.aligned {
				t.Errorf("IsAxisAligned = %v, want %v", got, tt.aligned)
			}
		})
	}
}

func TestExpansion(t *testing.T) {
	m := Rotate(math.Pi / 6).Multiply(Scale(3, 4))
	if !approx(m.ExpansionX(), 3) {
		t.Errorf("ExpansionX = %v, want 3", m.ExpansionX())
	}
	if !approx(m.ExpansionY(), 4) {
		t.Errorf("ExpansionY = %v, want 4", m.ExpansionY())
	}
	if !approx(m.Descrim(), math.Sqrt(12)) {
		t.Errorf("Descrim = %v, want sqrt(12)", m.Descrim())
	}
}

func TestAff3(t *testing.T) {
	m := Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}
	a := m.Aff3()
	for i, want := range []float64{1, 2, 3, 4, 5, 6} {
		if a[i] != want {
			t.Errorf("Aff3[%d] = %v, want %v", i, a[i], want)
		}
	}
}

func TestRectRoundOut(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want image.Rectangle
	}{
		{"integral", Rect{0, 0, 10, 10}, image.Rect(0, 0, 10, 10)},
		{"fractional grows", Rect{0.2, 0.7, 9.1, 9.9}, image.Rect(0, 0, 10, 10)},
		{"negative", Rect{-1.5, -0.5, 0.5, 1.5}, image.Rect(-2, -1, 1, 2)},
		{"float noise", Rect{1e-9, -1e-9, 4 - 1e-9, 4 + 1e-9}, image.Rect(0, 0, 4, 4)},
		{"empty", Rect{3, 3, 3, 5}, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.RoundOut(); got != tt.want {
				t.Errorf("RoundOut(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRectTransform(t *testing.T) {
	r := XYWH(0, 0, 2, 1)
	got := r.Transform(Rotate(math.Pi / 2))
	want := Rect{MinX: -1, MinY: 0, MaxX: 0, MaxY: 2}
	if !approx(got.MinX, want.MinX) || !approx(got.MinY, want.MinY) ||
		!approx(got.MaxX, want.MaxX) || !approx(got.MaxY, want.MaxY) {
		t.Errorf("Transform = %+v, want %+v", got, want)
	}
}

func TestRectUnionIntersect(t *testing.T) {
	a := XYWH(0, 0, 4, 4)
	b := XYWH(2, 2, 4, 4)
	if got, want := a.Union(b), (Rect{0, 0, 6, 6}); got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
	if got, want := a.Intersect(b), (Rect{2, 2, 4, 4}); got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
	if got := a.Intersect(XYWH(10, 10, 1, 1)); !got.IsEmpty() {
		t.Errorf("disjoint Intersect = %+v, want empty", got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty Union = %+v, want %+v", got, b)
	}
}
