package mesh

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyProfile is returned when no usable contour remains after cleaning.
var ErrEmptyProfile = errors.New("mesh: empty profile")

// cleanEpsilon is the smallest distance below which two outline points are
// merged. Larger profiles merge at cleanRelative times their size.
const (
	cleanEpsilon  = 1e-9
	cleanRelative = 1e-7
)

// Extrude sweeps a planar profile from z=0 to z=depth without bevel. Contours
// may be given in any winding; nesting decides what is solid and what is a
// hole. Side walls follow the boundary of the cap triangulation, so the result
// is closed whenever a cap triangulates at all.
func Extrude(name string, profile []Contour, depth float64) (*Mesh, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("mesh: extrude depth must be positive, got %g", depth)
	}
	bounds := EmptyRect()
	for _, c := range profile {
		for _, p := range c {
			bounds.ExpandByPoint(p)
		}
	}
	eps := cleanEpsilon
	if !bounds.IsEmpty() {
		eps = math.Max(eps, cleanRelative*math.Max(bounds.Width(), bounds.Height()))
	}

	var kept []Contour
	for _, c := range profile {
		if c = c.Clean(eps); c != nil {
			kept = append(kept, c)
		}
	}
	snap(kept, eps)
	contours := kept[:0]
	for _, c := range kept {
		c = c.Clean(eps)
		if c == nil || math.Abs(c.SignedArea()) < eps*eps {
			continue
		}
		contours = append(contours, c)
	}
	if len(contours) == 0 {
		return nil, ErrEmptyProfile
	}
	contours, shapes := nest(contours)

	var caps [][3]ref
	var failed error
	for _, s := range shapes {
		tris, err := triangulate(contours, s)
		if err != nil {
			failed = err
			continue
		}
		caps = append(caps, tris...)
	}
	if len(caps) == 0 {
		if failed == nil {
			failed = ErrEmptyProfile
		}
		return nil, failed
	}

	m := New(name)
	type pair struct{ bottom, top int }
	verts := make(map[ref]pair)
	vertex := func(r ref) pair {
		v, ok := verts[r]
		if !ok {
			p := contours[r.c][r.i]
			v = pair{m.AddVertex(Vec3{p.X, p.Y, 0}), m.AddVertex(Vec3{p.X, p.Y, depth})}
			verts[r] = v
		}
		return v
	}
	type edge struct{ a, b ref }
	count := make(map[edge]int, len(caps)*3)
	for _, t := range caps {
		a, b, c := vertex(t[0]), vertex(t[1]), vertex(t[2])
		m.AddFace(a.top, b.top, c.top)
		m.AddFace(a.bottom, c.bottom, b.bottom)
		for k := 0; k < 3; k++ {
			count[edge{t[k], t[(k+1)%3]}]++
		}
	}
	// an edge not cancelled by its reverse is on the cap boundary
	for _, t := range caps {
		for k := 0; k < 3; k++ {
			e := edge{t[k], t[(k+1)%3]}
			r := edge{e.b, e.a}
			if count[e] <= count[r] {
				continue
			}
			count[e]--
			u, v := verts[e.a], verts[e.b]
			m.AddFace(u.bottom, v.bottom, v.top)
			m.AddFace(u.bottom, v.top, u.top)
		}
	}
	return m, nil
}
