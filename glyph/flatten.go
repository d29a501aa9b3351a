package glyph

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/stampkit/mesh"
)

// flattener turns sfnt segments into closed polylines. Curves are split into
// a fixed number of straight pieces so equal input gives equal output.
type flattener struct {
	scale    float64 // 26.6 font units -> output units
	segments int

	contours []mesh.Contour
	cur      mesh.Contour
	pen      mesh.Vec2
}

func (f *flattener) point(p fixed.Point26_6) mesh.Vec2 {
	// sfnt has y pointing down
	return mesh.V2(float64(p.X)*f.scale, -float64(p.Y)*f.scale)
}

func (f *flattener) flush() {
	if len(f.cur) >= 3 {
		f.contours = append(f.contours, f.cur)
	}
	f.cur = nil
}

func (f *flattener) lineTo(p mesh.Vec2) {
	f.cur = append(f.cur, p)
	f.pen = p
}

func (f *flattener) run(segs sfnt.Segments) []mesh.Contour {
	n := f.segments
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			f.flush()
			f.pen = f.point(s.Args[0])
			f.cur = mesh.Contour{f.pen}
		case sfnt.SegmentOpLineTo:
			f.lineTo(f.point(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p0, c, p1 := f.pen, f.point(s.Args[0]), f.point(s.Args[1])
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				f.lineTo(p0.Lerp(c, t).Lerp(c.Lerp(p1, t), t))
			}
		case sfnt.SegmentOpCubeTo:
			p0, c0, c1, p1 := f.pen, f.point(s.Args[0]), f.point(s.Args[1]), f.point(s.Args[2])
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				a, b, c := p0.Lerp(c0, t), c0.Lerp(c1, t), c1.Lerp(p1, t)
				f.lineTo(a.Lerp(b, t).Lerp(b.Lerp(c, t), t))
			}
		}
	}
	f.flush()
	return f.contours
}
