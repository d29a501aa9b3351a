package mesh

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrTriangulation reports that a cap could not be triangulated.
var ErrTriangulation = errors.New("mesh: triangulation failed")

// ref addresses point i of contour c.
type ref struct{ c, i int }

// node is one vertex of the circular list the ear clipper works on. Bridging a
// hole duplicates two vertices, so several nodes may share one ref.
type node struct {
	ref        ref
	x, y       float64
	prev, next *node
	steiner    bool
}

// triangulate clips ears off one outer contour whose holes have been bridged
// into it. Collinear, repeated and touching points are accepted; when no ear
// can be found the polygon is filtered, locally repaired and finally split
// along a diagonal. Every pass removes at least one vertex, so it terminates
// on any input. Triangles come back counter-clockwise. Vertices dropped while
// filtering leave a zero-area triangle behind, so every contour edge is still
// covered by exactly one triangle.
func triangulate(contours []Contour, s shape) ([][3]ref, error) {
	// coincident points of touching contours become one vertex
	canon := make(map[ref]ref)
	seen := make(map[Vec2]ref)
	for _, c := range append([]int{s.outer}, s.holes...) {
		for i, p := range contours[c] {
			r, ok := seen[p]
			if !ok {
				r = ref{c, i}
				seen[p] = r
			}
			canon[ref{c, i}] = r
		}
	}

	outer := link(contours, s.outer, true, canon)
	if outer == nil || outer.next == outer.prev {
		return nil, fmt.Errorf("%w: outer contour %d is degenerate", ErrTriangulation, s.outer)
	}
	var tris [][3]ref
	emit := func(a, b, c *node) {
		if a.ref == b.ref || b.ref == c.ref || c.ref == a.ref {
			return
		}
		tris = append(tris, [3]ref{a.ref, b.ref, c.ref})
	}
	if len(s.holes) > 0 {
		outer = bridgeHoles(contours, s.holes, outer, canon, emit)
	}
	clip(outer, emit, 0)
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: no interior triangles", ErrTriangulation)
	}
	return tris, nil
}

// link builds a circular list for contour c, counter-clockwise when ccw is
// set and clockwise otherwise. It returns the last node inserted.
func link(contours []Contour, c int, ccw bool, canon map[ref]ref) *node {
	pts := contours[c]
	var last *node
	if (pts.SignedArea() > 0) == ccw {
		for i := range pts {
			last = insertNode(canon[ref{c, i}], pts[i], last)
		}
	} else {
		for i := len(pts) - 1; i >= 0; i-- {
			last = insertNode(canon[ref{c, i}], pts[i], last)
		}
	}
	if last != nil && same(last, last.next) {
		removeNode(last)
		last = last.next
	}
	return last
}

func insertNode(r ref, p Vec2, last *node) *node {
	n := &node{ref: r, x: p.X, y: p.Y}
	if last == nil {
		n.prev, n.next = n, n
		return n
	}
	n.next = last.next
	n.prev = last
	last.next.prev = n
	last.next = n
	return n
}

func removeNode(n *node) {
	n.next.prev = n.prev
	n.prev.next = n.next
}

func same(a, b *node) bool { return a.x == b.x && a.y == b.y }

// area is twice the signed area of abc, negative when abc turns left.
func area(a, b, c *node) float64 {
	return (b.y-a.y)*(c.x-b.x) - (b.x-a.x)*(c.y-b.y)
}

// clip is the main ear clipping loop. pass selects the fallback used when a
// full lap finds no ear.
func clip(ear *node, emit func(a, b, c *node), pass int) {
	if ear == nil {
		return
	}
	stop := ear
	for ear.prev != ear.next {
		prev, next := ear.prev, ear.next
		if isEar(ear) {
			emit(prev, ear, next)
			removeNode(ear)
			ear = next.next
			stop = next.next
			continue
		}
		ear = next
		if ear != stop {
			continue
		}
		switch pass {
		case 0:
			clip(filterPoints(ear, nil, emit), emit, 1)
		case 1:
			ear = cureLocalIntersections(filterPoints(ear, nil, emit), emit)
			clip(ear, emit, 2)
		case 2:
			splitClip(ear, emit)
		}
		return
	}
}

func isEar(ear *node) bool {
	a, b, c := ear.prev, ear, ear.next
	if area(a, b, c) >= 0 {
		return false // reflex
	}
	x0, x1 := math.Min(a.x, math.Min(b.x, c.x)), math.Max(a.x, math.Max(b.x, c.x))
	y0, y1 := math.Min(a.y, math.Min(b.y, c.y)), math.Max(a.y, math.Max(b.y, c.y))
	for p := c.next; p != a; p = p.next {
		if p.x < x0 || p.x > x1 || p.y < y0 || p.y > y1 {
			continue
		}
		if (p.x != a.x || p.y != a.y) &&
			pointInTriangle(a.x, a.y, b.x, b.y, c.x, c.y, p.x, p.y) &&
			area(p.prev, p, p.next) >= 0 {
			return false
		}
	}
	return true
}

// filterPoints drops repeated and collinear nodes between start and end.
func filterPoints(start, end *node, emit func(a, b, c *node)) *node {
	if start == nil {
		return nil
	}
	if end == nil {
		end = start
	}
	p := start
	for {
		again := false
		if !p.steiner && (same(p, p.next) || area(p.prev, p, p.next) == 0) {
			emit(p.prev, p, p.next)
			removeNode(p)
			p = p.prev
			end = p
			if p == p.next {
				break
			}
			again = true
		} else {
			p = p.next
		}
		if !again && p == end {
			break
		}
	}
	return end
}

// cureLocalIntersections clips the small self-intersections that flattening
// and bridging leave behind.
func cureLocalIntersections(start *node, emit func(a, b, c *node)) *node {
	p := start
	for {
		a, b := p.prev, p.next.next
		if !same(a, b) && intersects(a, p, p.next, b) && locallyInside(a, b) && locallyInside(b, a) {
			emit(a, p, b)
			removeNode(p)
			removeNode(p.next)
			p, start = b, b
		}
		p = p.next
		if p == start {
			break
		}
	}
	return filterPoints(p, nil, emit)
}

// splitClip looks for a valid diagonal and clips both halves separately.
func splitClip(start *node, emit func(a, b, c *node)) {
	a := start
	for {
		for b := a.next.next; b != a.prev; b = b.next {
			if a.ref != b.ref && isValidDiagonal(a, b) {
				c := splitPolygon(a, b)
				a = filterPoints(a, a.next, emit)
				c = filterPoints(c, c.next, emit)
				clip(a, emit, 0)
				clip(c, emit, 0)
				return
			}
		}
		a = a.next
		if a == start {
			return
		}
	}
}

// bridgeHoles links every hole into the outer list, leftmost hole first.
func bridgeHoles(contours []Contour, holes []int, outer *node, canon map[ref]ref, emit func(a, b, c *node)) *node {
	queue := make([]*node, 0, len(holes))
	for _, h := range holes {
		list := link(contours, h, false, canon)
		if list == nil {
			continue
		}
		if list == list.next {
			list.steiner = true
		}
		queue = append(queue, leftmost(list))
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].x < queue[j].x })
	for _, h := range queue {
		outer = bridgeHole(h, outer, emit)
	}
	return outer
}

func bridgeHole(hole, outer *node, emit func(a, b, c *node)) *node {
	bridge := findHoleBridge(hole, outer)
	if bridge == nil {
		return outer
	}
	reverse := splitPolygon(bridge, hole)
	filterPoints(reverse, reverse.next, emit)
	return filterPoints(bridge, bridge.next, emit)
}

// findHoleBridge casts a ray from the hole's leftmost point towards -x and
// picks the outer vertex that can see it.
func findHoleBridge(hole, outer *node) *node {
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *node
	p := outer
	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				m = p
				if p.next.x < p.x {
					m = p.next
				}
				if x == hx {
					return m // the hole touches this edge
				}
			}
		}
		p = p.next
		if p == outer {
			break
		}
	}
	if m == nil {
		return nil
	}

	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)
	p = m
	for {
		ax, cx := qx, hx
		if hy < my {
			ax, cx = hx, qx
		}
		if hx >= p.x && p.x >= mx && hx != p.x && pointInTriangle(ax, hy, mx, my, cx, hy, p.x, p.y) {
			tan := math.Abs(hy-p.y) / (hx - p.x)
			if locallyInside(p, hole) &&
				(tan < tanMin || (tan == tanMin && (p.x > m.x || (p.x == m.x && sectorContainsSector(m, p))))) {
				m = p
				tanMin = tan
			}
		}
		p = p.next
		if p == stop {
			break
		}
	}
	return m
}

func sectorContainsSector(m, p *node) bool {
	return area(m.prev, m, p.prev) < 0 && area(p.next, m, m.next) < 0
}

func leftmost(start *node) *node {
	p, left := start, start
	for {
		if p.x < left.x || (p.x == left.x && p.y < left.y) {
			left = p
		}
		p = p.next
		if p == start {
			return left
		}
	}
}

func pointInTriangle(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (cx-px)*(ay-py) >= (ax-px)*(cy-py) &&
		(ax-px)*(by-py) >= (bx-px)*(ay-py) &&
		(bx-px)*(cy-py) >= (cx-px)*(by-py)
}

func isValidDiagonal(a, b *node) bool {
	if a.next.ref == b.ref || a.prev.ref == b.ref || intersectsPolygon(a, b) {
		return false
	}
	if locallyInside(a, b) && locallyInside(b, a) && middleInside(a, b) &&
		(area(a.prev, a, b.prev) != 0 || area(a, b.prev, b) != 0) {
		return true
	}
	return same(a, b) && area(a.prev, a, a.next) > 0 && area(b.prev, b, b.next) > 0
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func intersects(p1, q1, p2, q2 *node) bool {
	o1, o2 := sign(area(p1, q1, p2)), sign(area(p1, q1, q2))
	o3, o4 := sign(area(p2, q2, p1)), sign(area(p2, q2, q1))
	switch {
	case o1 != o2 && o3 != o4:
		return true
	case o1 == 0 && onSegment(p1, p2, q1),
		o2 == 0 && onSegment(p1, q2, q1),
		o3 == 0 && onSegment(p2, p1, q2),
		o4 == 0 && onSegment(p2, q1, q2):
		return true
	}
	return false
}

// onSegment reports whether q lies in the bounding box of pr, for collinear pqr.
func onSegment(p, q, r *node) bool {
	return q.x <= math.Max(p.x, r.x) && q.x >= math.Min(p.x, r.x) &&
		q.y <= math.Max(p.y, r.y) && q.y >= math.Min(p.y, r.y)
}

func intersectsPolygon(a, b *node) bool {
	p := a
	for {
		if p.ref != a.ref && p.next.ref != a.ref && p.ref != b.ref && p.next.ref != b.ref &&
			intersects(p, p.next, a, b) {
			return true
		}
		p = p.next
		if p == a {
			return false
		}
	}
}

func locallyInside(a, b *node) bool {
	if area(a.prev, a, a.next) < 0 {
		return area(a, b, a.next) >= 0 && area(a, a.prev, b) >= 0
	}
	return area(a, b, a.prev) < 0 || area(a, a.next, b) < 0
}

func middleInside(a, b *node) bool {
	inside := false
	px, py := (a.x+b.x)/2, (a.y+b.y)/2
	p := a
	for {
		if (p.y > py) != (p.next.y > py) && p.next.y != p.y &&
			px < (p.next.x-p.x)*(py-p.y)/(p.next.y-p.y)+p.x {
			inside = !inside
		}
		p = p.next
		if p == a {
			return inside
		}
	}
}

// splitPolygon cuts the list along ab into two lists and returns the node
// that starts the second one.
func splitPolygon(a, b *node) *node {
	a2 := &node{ref: a.ref, x: a.x, y: a.y}
	b2 := &node{ref: b.ref, x: b.x, y: b.y}
	an, bp := a.next, b.prev

	a.next = b
	b.prev = a

	a2.next = an
	an.prev = a2

	b2.next = a2
	a2.prev = b2

	bp.next = b2
	b2.prev = bp
	return b2
}
