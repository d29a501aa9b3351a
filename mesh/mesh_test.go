package mesh

import (
	"errors"
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBoxIsClosedAndOutward(t *testing.T) {
	b := NewBox("quad", V3(2, 1, 0.5), V3(0, 0.5, 0))
	if got := b.TriangleCount(); got != 12 {
		t.Fatalf("box triangles: got %d want 12", got)
	}
	if !b.IsClosed() {
		t.Fatalf("box must be watertight, open edges=%d", b.OpenEdges())
	}
	bb := b.Bounds()
	if !almost(bb.Min.X, -1) || !almost(bb.Max.Y, 1) || !almost(bb.Min.Z, -0.25) {
		t.Fatalf("unexpected bounds %+v", bb)
	}
	center := bb.Center()
	for i := range b.Faces {
		tri := b.Triangle(i)
		mid := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		if Normal(tri).Dot(mid.Sub(center)) <= 0 {
			t.Fatalf("face %d points inward", i)
		}
	}
}

func square(x0, y0, x1, y1 float64) Contour {
	return Contour{V2(x0, y0), V2(x1, y0), V2(x1, y1), V2(x0, y1)}
}

func TestExtrudeSquareWithHole(t *testing.T) {
	outer := square(0, 0, 4, 4)
	hole := square(1, 1, 3, 3).Reversed() // winding must not matter
	m, err := Extrude("body", []Contour{hole, outer}, 0.5)
	if err != nil {
		t.Fatalf("extrude: %v", err)
	}
	// caps: 2 × (n + 2h − 2) = 16, walls: 2 × 8 = 16
	if got := m.TriangleCount(); got != 32 {
		t.Fatalf("triangles: got %d want 32", got)
	}
	if !m.IsClosed() {
		t.Fatalf("extrusion must be watertight, open edges=%d", m.OpenEdges())
	}
	bb := m.Bounds()
	if !almost(bb.Max.Z, 0.5) || !almost(bb.Min.Z, 0) || !almost(bb.Max.X, 4) {
		t.Fatalf("unexpected bounds %+v", bb)
	}
}

func TestExtrudeSeparateIslands(t *testing.T) {
	// an "i": dot and stem are two independent solids
	m, err := Extrude("i", []Contour{square(0, 0, 1, 3), square(0, 4, 1, 5)}, 1)
	if err != nil {
		t.Fatalf("extrude: %v", err)
	}
	if !m.IsClosed() {
		t.Fatalf("open edges=%d", m.OpenEdges())
	}
	if got := m.TriangleCount(); got != 24 {
		t.Fatalf("triangles: got %d want 24", got)
	}
}

func TestExtrudeRejectsDegenerateProfile(t *testing.T) {
	_, err := Extrude("line", []Contour{{V2(0, 0), V2(1, 0), V2(2, 0)}}, 1)
	if !errors.Is(err, ErrEmptyProfile) {
		t.Fatalf("expected ErrEmptyProfile, got %v", err)
	}
	if _, err := Extrude("flat", []Contour{square(0, 0, 1, 1)}, 0); err == nil {
		t.Fatalf("zero depth must fail")
	}
}

func TestMirrorKeepsOrientation(t *testing.T) {
	m := NewBox("b", V3(1, 1, 1), V3(0.5, 0, 0))
	mirrored := m.Transformed(Scale(-1, 1, 1))
	if !mirrored.IsClosed() {
		t.Fatalf("mirrored box must stay closed")
	}
	center := mirrored.Bounds().Center()
	for i := range mirrored.Faces {
		tri := mirrored.Triangle(i)
		mid := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		if Normal(tri).Dot(mid.Sub(center)) <= 0 {
			t.Fatalf("face %d points inward after mirroring", i)
		}
	}
}

func TestRotateXQuarterTurn(t *testing.T) {
	r := RotateX(-math.Pi / 2)
	if got := r.Apply(V3(0, 0, 1)); got != V3(0, 1, 0) {
		t.Fatalf("impression face should point up, got %+v", got)
	}
	if got := r.Apply(V3(0, 1, 0)); got != V3(0, 0, -1) {
		t.Fatalf("glyph up should map to -z, got %+v", got)
	}
	composed := Translate(V3(1, 2, 3)).Mul(r)
	if got := composed.Apply(V3(0, 0, 1)); got != V3(1, 3, 3) {
		t.Fatalf("composed transform: got %+v", got)
	}
}

func TestContourClean(t *testing.T) {
	c := Contour{V2(0, 0), V2(1, 0), V2(1, 0), V2(2, 0), V2(2, 2), V2(0, 2), V2(0, 0)}
	got := c.Clean(1e-9)
	if len(got) != 4 {
		t.Fatalf("expected 4 corners after cleaning, got %v", got)
	}
	if !almost(got.SignedArea(), 4) {
		t.Fatalf("area changed: %g", got.SignedArea())
	}
}

// capArea sums the xy area of the faces lying flat at height z.
func capArea(m *Mesh, z float64) float64 {
	var a float64
	for i := range m.Faces {
		tri := m.Triangle(i)
		if !almost(tri[0].Z, z) || !almost(tri[1].Z, z) || !almost(tri[2].Z, z) {
			continue
		}
		a += (tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y) - (tri[1].Y-tri[0].Y)*(tri[2].X-tri[0].X)
	}
	return a / 2
}

func TestExtrudeProfiles(t *testing.T) {
	ring := make(Contour, 48)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / 48
		ring[i] = V2(2+math.Cos(a), 2+math.Sin(a))
	}
	var comb Contour
	for i := 0; i < 10; i++ {
		comb = append(comb, V2(float64(i)*0.4, 0))
	}
	for i := 0; i < 10; i++ {
		comb = append(comb, V2(4, float64(i)*0.4))
	}
	for i := 0; i < 10; i++ {
		comb = append(comb, V2(4-float64(i)*0.4, 4))
	}
	for i := 0; i < 10; i++ {
		comb = append(comb, V2(0, 4-float64(i)*0.4))
	}

	tests := []struct {
		name      string
		profile   []Contour
		triangles int
		area      float64
	}{
		{
			name:      "collinear points on every edge",
			profile:   []Contour{{V2(0, 0), V2(1, 0), V2(2, 0), V2(2, 1), V2(2, 2), V2(1, 2), V2(0, 2), V2(0, 1)}},
			triangles: 12,
			area:      4,
		},
		{
			name:      "hole with the same winding",
			profile:   []Contour{square(1, 1, 3, 3), square(0, 0, 4, 4)},
			triangles: 32,
			area:      12,
		},
		{
			name:      "hole touching the outer edge",
			profile:   []Contour{square(0, 0, 4, 4), Contour{V2(0, 1), V2(2, 1), V2(2, 3)}.Reversed()},
			triangles: 28,
			area:      14,
		},
		{
			name:      "overlapping solids",
			profile:   []Contour{square(0, 0, 2, 2), square(1, 1, 3, 3)},
			triangles: 24,
			area:      8,
		},
		{
			name:      "island inside a hole",
			profile:   []Contour{square(0, 0, 6, 6), square(1, 1, 5, 5), square(2, 2, 4, 4)},
			triangles: 44,
			area:      24,
		},
		{
			name:      "flattened ring inside subdivided square",
			profile:   []Contour{comb, ring.Reversed()},
			triangles: 208,
			area:      16 - ring.SignedArea(),
		},
		{
			name:    "zero width slit",
			profile: []Contour{{V2(0, 0), V2(4, 0), V2(4, 4), V2(0, 4), V2(0, 2), V2(2, 2), V2(0, 2)}},
			area:    16,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Extrude("body", tt.profile, 0.5)
			if err != nil {
				t.Fatalf("extrude: %v", err)
			}
			if !m.IsClosed() {
				t.Fatalf("open edges=%d", m.OpenEdges())
			}
			if tt.triangles > 0 && m.TriangleCount() != tt.triangles {
				t.Fatalf("triangles: got %d want %d", m.TriangleCount(), tt.triangles)
			}
			if got := capArea(m, 0.5); math.Abs(got-tt.area) > 1e-9 {
				t.Fatalf("top cap area: got %g want %g", got, tt.area)
			}
			if got := capArea(m, 0); math.Abs(got+tt.area) > 1e-9 {
				t.Fatalf("bottom cap should face down, area %g", got)
			}
		})
	}
}

func TestContourCleanTolerance(t *testing.T) {
	c := Contour{V2(0, 0), V2(1, 1e-9), V2(2, 0), V2(2, 2), V2(1, 2.001), V2(0, 2)}
	got := c.Clean(1e-6)
	if len(got) != 5 {
		t.Fatalf("only the nearly collinear point should go, got %v", got)
	}
	for _, p := range got {
		if p == V2(1, 1e-9) {
			t.Fatalf("point within tolerance survived: %v", got)
		}
	}
}
