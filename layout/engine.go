package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/kjk/flex"
)

// Engine computes box positions for a request tree. Implementations must
// keep row order.
type Engine interface {
	Compute(req *Request) (Result, error)
}

// FlexEngine runs requests through github.com/kjk/flex, a Go port of Yoga.
type FlexEngine struct {
	// Scale converts scene units into layout points. Yoga rounds to whole
	// points, so a large scale keeps that rounding below visible precision.
	Scale float64
}

// NewFlexEngine returns a FlexEngine with millipoint precision.
func NewFlexEngine() *FlexEngine {
	return &FlexEngine{Scale: 1000}
}

// Compute implements Engine.
func (e *FlexEngine) Compute(req *Request) (Result, error) {
	if req == nil || req.Root == nil {
		return nil, errors.New("layout: empty request")
	}
	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}

	var build func(n *Node) (*flex.Node, error)
	nodes := map[string]*flex.Node{}
	build = func(n *Node) (*flex.Node, error) {
		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("layout: duplicate node id %q", n.ID)
		}
		fn := flex.NewNode()
		nodes[n.ID] = fn
		applyStyle(fn, n, scale)
		for i, c := range n.Children {
			child, err := build(c)
			if err != nil {
				return nil, err
			}
			fn.InsertChild(child, i)
		}
		return fn, nil
	}
	root, err := build(req.Root)
	if err != nil {
		return nil, err
	}
	flex.CalculateLayout(root, flex.Undefined, flex.Undefined, flex.DirectionLTR)

	res := Result{}
	var collect func(n *Node, fn *flex.Node, offLeft, offTop float64)
	collect = func(n *Node, fn *flex.Node, offLeft, offTop float64) {
		r := Rect{
			Left:   offLeft + float64(fn.LayoutGetLeft())/scale,
			Top:    offTop + float64(fn.LayoutGetTop())/scale,
			Width:  float64(fn.LayoutGetWidth()) / scale,
			Height: float64(fn.LayoutGetHeight()) / scale,
		}
		res[n.ID] = r
		for _, c := range n.Children {
			collect(c, nodes[c.ID], r.Left, r.Top)
		}
	}
	collect(req.Root, root, 0, 0)

	for id, r := range res {
		if math.IsNaN(r.Left) || math.IsNaN(r.Top) {
			return nil, fmt.Errorf("layout: engine returned no position for %q", id)
		}
	}
	return res, nil
}

func applyStyle(fn *flex.Node, n *Node, scale float64) {
	pt := func(v float64) float32 { return float32(math.Round(v * scale)) }

	switch n.Direction {
	case DirectionColumn:
		fn.StyleSetFlexDirection(flex.FlexDirectionColumn)
	default:
		fn.StyleSetFlexDirection(flex.FlexDirectionRow)
	}
	switch n.Justify {
	case JustifyCenter:
		fn.StyleSetJustifyContent(flex.JustifyCenter)
	case JustifyEnd:
		fn.StyleSetJustifyContent(flex.JustifyFlexEnd)
	default:
		fn.StyleSetJustifyContent(flex.JustifyFlexStart)
	}
	switch n.AlignItems {
	case AlignStart:
		fn.StyleSetAlignItems(flex.AlignFlexStart)
	case AlignEnd:
		fn.StyleSetAlignItems(flex.AlignFlexEnd)
	default:
		fn.StyleSetAlignItems(flex.AlignCenter)
	}
	fn.StyleSetFlexWrap(flex.WrapNoWrap)
	// 字块尺寸是实体尺寸，不允许被压缩
	fn.StyleSetFlexShrink(0)

	if n.Width > 0 {
		fn.StyleSetWidth(pt(n.Width))
	}
	if n.Height > 0 {
		fn.StyleSetHeight(pt(n.Height))
	}
	fn.StyleSetMargin(flex.EdgeTop, pt(n.Margin.Top))
	fn.StyleSetMargin(flex.EdgeRight, pt(n.Margin.Right))
	fn.StyleSetMargin(flex.EdgeBottom, pt(n.Margin.Bottom))
	fn.StyleSetMargin(flex.EdgeLeft, pt(n.Margin.Left))
}
