package mesh

import "math"

// Contour is a closed polyline; the last point connects back to the first.
type Contour []Vec2

// SignedArea returns the shoelace area, positive for counter-clockwise contours.
func (c Contour) SignedArea() float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].Cross(c[j])
	}
	return a / 2
}

// Bounds returns the bounding rectangle of c.
func (c Contour) Bounds() Rect {
	r := EmptyRect()
	for _, p := range c {
		r.ExpandByPoint(p)
	}
	return r
}

// Contains reports whether p lies inside c using the even-odd rule.
func (c Contour) Contains(p Vec2) bool {
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				in = !in
			}
		}
	}
	return in
}

// Reversed returns a copy of c with the opposite winding.
func (c Contour) Reversed() Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// Clean drops repeated points, the closing duplicate and any point that lies
// within eps of the chord joining its neighbours. It returns nil when fewer
// than three points remain.
func (c Contour) Clean(eps float64) Contour {
	out := make(Contour, 0, len(c))
	for _, p := range c {
		if len(out) > 0 && near(out[len(out)-1], p, eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && near(out[0], out[len(out)-1], eps) {
		out = out[:len(out)-1]
	}
	// removing a point may make its neighbours collinear, so loop until stable
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if near(prev, out[i], eps) || segmentDistance(out[i], prev, next) <= eps {
				out = append(out[:i], out[i+1:]...)
				changed = true
				continue
			}
			i++
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func near(a, b Vec2, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Scale(t))).Length()
}

// snap moves points of different contours that lie within eps of each other
// onto one position, so touching outlines meet exactly.
func snap(contours []Contour, eps float64) {
	type cell struct{ x, y int64 }
	key := func(p Vec2) cell {
		return cell{int64(math.Floor(p.X / eps)), int64(math.Floor(p.Y / eps))}
	}
	grid := make(map[cell][]Vec2)
	for _, c := range contours {
		for i, p := range c {
			k := key(p)
			found := false
			for dx := int64(-1); dx <= 1 && !found; dx++ {
				for dy := int64(-1); dy <= 1 && !found; dy++ {
					for _, q := range grid[cell{k.x + dx, k.y + dy}] {
						if near(p, q, eps) {
							c[i] = q
							found = true
							break
						}
					}
				}
			}
			if !found {
				grid[k] = append(grid[k], p)
			}
		}
	}
}

// shape is one outer contour together with the holes directly inside it.
type shape struct {
	outer int
	holes []int
}

// nest decides which contours are solid and which are holes, and returns the
// contours re-wound (solids counter-clockwise, holes clockwise) with the
// shapes to triangulate in input order.
//
// When windings differ, as in font outlines, the winding of the largest
// contour marks solids; overlapping solids stay separate shapes. When every
// contour shares one winding, a contour lying wholly inside an odd number of
// others is a hole. A hole belongs to the smallest solid that holds most of
// its points; holes outside every solid are dropped.
func nest(contours []Contour) ([]Contour, []shape) {
	n := len(contours)
	signed := make([]float64, n)
	size := make([]float64, n)
	largest := 0
	for i, c := range contours {
		signed[i] = c.SignedArea()
		size[i] = math.Abs(signed[i])
		if size[i] > size[largest] {
			largest = i
		}
	}
	mixed := false
	for i := range contours {
		if (signed[i] > 0) != (signed[0] > 0) {
			mixed = true
		}
	}

	solid := make([]bool, n)
	for i := range contours {
		if mixed {
			solid[i] = (signed[i] > 0) == (signed[largest] > 0)
			continue
		}
		depth := 0
		for j := range contours {
			if i != j && size[j] > size[i] && inside(contours[j], contours[i]) == len(contours[i]) {
				depth++
			}
		}
		solid[i] = depth%2 == 0
	}

	wound := make([]Contour, n)
	for i, c := range contours {
		if solid[i] != (signed[i] > 0) {
			c = c.Reversed()
		}
		wound[i] = c
	}

	var shapes []shape
	index := make(map[int]int)
	for i := range contours {
		if solid[i] {
			index[i] = len(shapes)
			shapes = append(shapes, shape{outer: i})
		}
	}
	for i := range contours {
		if solid[i] {
			continue
		}
		parent, best := -1, 0
		for j := range contours {
			if !solid[j] || size[j] <= size[i] {
				continue
			}
			k := inside(contours[j], contours[i])
			if k > best || (k == best && k > 0 && size[j] < size[parent]) {
				parent, best = j, k
			}
		}
		if parent >= 0 {
			s := index[parent]
			shapes[s].holes = append(shapes[s].holes, i)
		}
	}
	return wound, shapes
}

// inside counts the points of c that lie inside outer.
func inside(outer, c Contour) int {
	n := 0
	for _, p := range c {
		if outer.Contains(p) {
			n++
		}
	}
	return n
}
