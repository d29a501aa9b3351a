package layout

import "github.com/ByLCY/stampkit/mesh"

// RootID 是根容器的固定标识。
const RootID = "root"

// Placeable is anything the coordinator can size and move on the ground plane.
type Placeable interface {
	LayoutID() string
	// LayoutBounds is the scene-space bounding box before positioning.
	LayoutBounds() mesh.Box3
	Place(x, z float64)
}

// Box is the footprint of one item: x extent by z extent.
type Box struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Boxes measures items in order.
func Boxes[P Placeable](items []P) []Box {
	out := make([]Box, 0, len(items))
	for _, it := range items {
		size := it.LayoutBounds().Size()
		out = append(out, Box{ID: it.LayoutID(), Width: size.X, Height: size.Z})
	}
	return out
}

// NewRequest builds a single-row request with one child per box, in order.
// The root is sized to its content so justification only matters when the
// caller widens it.
func NewRequest(generation uint64, boxes []Box, opts Options) *Request {
	justify := opts.Justify
	if justify == "" {
		justify = JustifyStart
	}
	root := &Node{
		ID:         RootID,
		Direction:  DirectionRow,
		Justify:    justify,
		AlignItems: AlignCenter,
	}
	for i, b := range boxes {
		n := &Node{ID: b.ID, Width: b.Width, Height: b.Height}
		if opts.Policy == UniformMargin || i < len(boxes)-1 {
			n.Margin.Right = opts.Gutter
		}
		root.Children = append(root.Children, n)
		root.Width += n.Width + n.Margin.Left + n.Margin.Right
		if h := n.Height + n.Margin.Top + n.Margin.Bottom; h > root.Height {
			root.Height = h
		}
	}
	return &Request{Generation: generation, Root: root}
}
