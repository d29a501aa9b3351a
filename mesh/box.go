package mesh

import "math"

// Rect is an axis-aligned rectangle in the glyph plane.
type Rect struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

// EmptyRect returns a rectangle that any point expands.
func EmptyRect() Rect {
	return Rect{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// IsEmpty reports whether max < min on any axis.
func (r Rect) IsEmpty() bool { return r.Max.X < r.Min.X || r.Max.Y < r.Min.Y }

// ExpandByPoint grows r to contain p.
func (r *Rect) ExpandByPoint(p Vec2) {
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 { return r.Min.Add(r.Max).Scale(0.5) }

// Box3 is an axis-aligned bounding box defined by its minimum and maximum corners.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// EmptyBox3 returns a box with min/max at +/- infinity.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// IsEmpty reports whether max < min on any coordinate.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint grows b to contain p.
func (b *Box3) ExpandByPoint(p Vec3) {
	b.Min = b.Min.min(p)
	b.Max = b.Max.max(p)
}

// ExpandByBox grows b to contain o. Empty boxes are ignored.
func (b *Box3) ExpandByBox(o Box3) {
	if o.IsEmpty() {
		return
	}
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
}

// Size returns the extent along each axis, or zero for an empty box.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of b.
func (b Box3) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Transform returns the bounding box of the eight transformed corners of b.
func (b Box3) Transform(m Affine) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out.ExpandByPoint(m.Apply(c))
	}
	return out
}
