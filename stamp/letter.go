package stamp

import (
	"fmt"
	"math"

	"github.com/ByLCY/stampkit/glyph"
	"github.com/ByLCY/stampkit/logx"
	"github.com/ByLCY/stampkit/mesh"
)

// Letter is one stamp: body, mount quad and backing block in a shared local
// frame (glyph plane x/y, extrusion along +z), plus the transform that lays
// it on the ground plane.
type Letter struct {
	ID    string
	Index int // rune index in the input string
	Rune  rune

	Outline glyph.Outline
	Holder  Holder

	Body    *mesh.Mesh // nil for whitespace and blank letters
	Quad    *mesh.Mesh
	Backing *mesh.Mesh

	// Rotation turns the impression face up and lifts the stamp onto y=0.
	Rotation mesh.Affine
	// Position is the offset on the ground plane set by the layout.
	Position mesh.Vec3
}

// Build assembles the stamp for one outline. Whitespace yields a placeholder
// without meshes. A body that cannot be triangulated is left out and the
// letter keeps its quad and backing.
func Build(o glyph.Outline, h Holder, p Params) (*Letter, error) {
	l := &Letter{Rune: o.Rune, Outline: o, Holder: h}
	if o.Whitespace {
		l.Rotation = lift(mesh.RotateX(-math.Pi/2), l.LocalBounds())
		return l, nil
	}

	bbox := o.Bounds
	width := bbox.Width()
	if width <= 0 {
		return nil, fmt.Errorf("字符 %q 的包围盒宽度为 0", o.Rune)
	}
	qd := p.QuadDepth()
	cy := h.CenterY()

	l.Backing = mesh.NewBox("backing",
		mesh.V3(width, h.Height+p.Notch, p.BackingDepth),
		mesh.V3(0, cy, p.BackingDepth/2))
	l.Quad = mesh.NewBox("quad",
		mesh.V3(width, h.Height, qd),
		mesh.V3(0, cy, p.BackingDepth+qd/2))

	if !o.Empty() {
		body, err := mesh.Extrude("body", o.Contours, p.Depth)
		if err != nil {
			logx.Logger().Warn("letter body dropped", "rune", string(o.Rune), "err", err)
		} else {
			// 镜像并居中到方块中心，字身嵌入方块表面 Overlap
			place := mesh.Affine{
				L: [3][3]float64{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
				T: mesh.V3(bbox.Center().X, 0, p.BackingDepth+qd-p.Overlap),
			}
			l.Body = body.Transformed(place)
		}
	}
	l.Rotation = lift(mesh.RotateX(-math.Pi/2), l.LocalBounds())
	return l, nil
}

func lift(r mesh.Affine, local mesh.Box3) mesh.Affine {
	b := local.Transform(r)
	if b.IsEmpty() {
		return r
	}
	return mesh.Translate(mesh.V3(0, -b.Min.Y, 0)).Mul(r)
}

// Blank reports whether the letter has no body.
func (l *Letter) Blank() bool { return l.Body == nil }

// Placeholder reports whether the letter has no geometry at all.
func (l *Letter) Placeholder() bool { return l.Quad == nil && l.Body == nil }

// Meshes returns the non-nil sub-solids in local coordinates.
func (l *Letter) Meshes() []*mesh.Mesh {
	var out []*mesh.Mesh
	for _, m := range []*mesh.Mesh{l.Body, l.Quad, l.Backing} {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// LocalBounds is the union of the sub-solid bounds. A placeholder spans its
// advance in x and glyph.Placeholder along the other axes.
func (l *Letter) LocalBounds() mesh.Box3 {
	b := mesh.EmptyBox3()
	for _, m := range l.Meshes() {
		b.ExpandByBox(m.Bounds())
	}
	if b.IsEmpty() {
		w := l.Outline.Bounds.Width()
		cy := l.Holder.CenterY()
		b = mesh.Box3{
			Min: mesh.V3(-w/2, cy-glyph.Placeholder/2, 0),
			Max: mesh.V3(w/2, cy+glyph.Placeholder/2, glyph.Placeholder),
		}
	}
	return b
}

// LayoutBounds is the bounding box after rotation, before positioning.
func (l *Letter) LayoutBounds() mesh.Box3 {
	return l.LocalBounds().Transform(l.Rotation)
}

// Transform maps local coordinates to the scene.
func (l *Letter) Transform() mesh.Affine {
	return mesh.Translate(l.Position).Mul(l.Rotation)
}

// WorldBounds is the bounding box in the scene.
func (l *Letter) WorldBounds() mesh.Box3 {
	return l.LocalBounds().Transform(l.Transform())
}

// Place moves the letter on the ground plane.
func (l *Letter) Place(x, z float64) {
	l.Position = mesh.V3(x, 0, z)
}

// LayoutID returns the identifier used in layout requests.
func (l *Letter) LayoutID() string { return l.ID }

// WorldMesh merges the sub-solids into one mesh in scene coordinates. Each
// sub-solid stays a separate closed shell.
func (l *Letter) WorldMesh() *mesh.Mesh {
	t := l.Transform()
	out := mesh.New(l.ID)
	for _, m := range l.Meshes() {
		out.Append(m.Transformed(t))
	}
	return out
}
