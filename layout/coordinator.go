package layout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/stampkit/logx"
)

// ErrStale marks a response whose generation no longer matches the scene.
var ErrStale = errors.New("layout: stale response")

// Coordinator submits requests to an Engine off the caller's goroutine.
type Coordinator struct {
	engine Engine
}

// NewCoordinator returns a Coordinator backed by e, or by a FlexEngine when e
// is nil.
func NewCoordinator(e Engine) *Coordinator {
	if e == nil {
		e = NewFlexEngine()
	}
	return &Coordinator{engine: e}
}

// Submit computes req asynchronously. The returned channel yields exactly one
// Response tagged with the request's generation and is then closed. There is
// no cancellation; a done ctx only short-circuits work not yet started.
func (c *Coordinator) Submit(ctx context.Context, req *Request) <-chan Response {
	out := make(chan Response, 1)
	var gen uint64
	if req != nil {
		gen = req.Generation
	}
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- Response{Generation: gen, Err: err}
			return
		}
		res, err := c.compute(req)
		out <- Response{Generation: gen, Result: res, Err: err}
	}()
	return out
}

// Compute runs req synchronously.
func (c *Coordinator) Compute(req *Request) Response {
	res, err := c.compute(req)
	var gen uint64
	if req != nil {
		gen = req.Generation
	}
	return Response{Generation: gen, Result: res, Err: err}
}

func (c *Coordinator) compute(req *Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layout: engine panic: %v", r)
		}
	}()
	return c.engine.Compute(req)
}

// Apply moves every item found in the result. The row is re-centred on the
// origin using the extent of the placed boxes, so both margin policies end up
// centred. Ids missing from the result leave their item untouched; ids the
// caller does not know are ignored. It returns the number of items moved.
func Apply[P Placeable](items []P, res Result) int {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, it := range items {
		r, ok := res[it.LayoutID()]
		if !ok {
			continue
		}
		minX, maxX = math.Min(minX, r.Left), math.Max(maxX, r.Right())
		minZ, maxZ = math.Min(minZ, r.Top), math.Max(maxZ, r.Bottom())
	}
	if minX > maxX {
		return 0
	}
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2

	moved := 0
	for _, it := range items {
		r, ok := res[it.LayoutID()]
		if !ok {
			logx.Logger().Debug("layout result has no entry", "id", it.LayoutID())
			continue
		}
		b := it.LayoutBounds()
		it.Place(r.Left-cx-b.Min.X, r.Top-cz-b.Min.Z)
		moved++
	}
	return moved
}
