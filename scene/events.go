// Package scene 持有生成管线的状态，串行处理控制事件、字体加载与布局结果，并驱动渲染循环。
package scene

import "github.com/ByLCY/stampkit/renderer"

// Event is one input to the Host. The concrete types below are the only
// implementations.
type Event interface {
	event()
}

// TextChanged replaces the stamp text.
type TextChanged struct{ Text string }

// DepthChanged sets the extrusion depth of the letter bodies.
type DepthChanged struct{ Depth float64 }

// FontChanged switches the font source, e.g. "builtin:go-bold" or a path.
type FontChanged struct{ Src string }

// GutterChanged sets the horizontal spacing between stamps.
type GutterChanged struct{ Gutter float64 }

// HelperToggled shows or hides a scene helper.
type HelperToggled struct {
	Helper  renderer.Helper
	Visible bool
}

// AutoRotateChanged turns the camera orbit on or off.
type AutoRotateChanged struct{ On bool }

// ExportRequested exports the current set. An empty Path uses the
// exporter's sink.
type ExportRequested struct{ Path string }

// PreviewRequested renders the current frame to Path, or to the host's
// default preview path when empty.
type PreviewRequested struct{ Path string }

// ResetRequested restores the default settings.
type ResetRequested struct{}

// Barrier waits until every earlier event has settled. Done, when set, is
// closed at that point.
type Barrier struct{ Done chan struct{} }

// Quit stops the host once everything before it has settled.
type Quit struct{}

func (TextChanged) event()       {}
func (DepthChanged) event()      {}
func (FontChanged) event()       {}
func (GutterChanged) event()     {}
func (HelperToggled) event()     {}
func (AutoRotateChanged) event() {}
func (ExportRequested) event()   {}
func (PreviewRequested) event()  {}
func (ResetRequested) event()    {}
func (Barrier) event()           {}
func (Quit) event()              {}

// waits reports whether ev must wait for pending work to settle.
func waits(ev Event) bool {
	switch ev.(type) {
	case ExportRequested, PreviewRequested, Barrier, Quit:
		return true
	}
	return false
}
