package canvasrenderer

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/stampkit/fonts"
	"github.com/ByLCY/stampkit/glyph"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/stamp"
)

func testSet(t *testing.T, text string) *stamp.Set {
	t.Helper()
	f, err := fonts.Parse("go", goregular.TTF)
	if err != nil {
		t.Fatalf("parse font: %v", err)
	}
	set, err := stamp.BuildSet(1, text, glyph.NewResolver(f, glyph.DefaultOptions()), stamp.DefaultParams(), stamp.MissingBlank)
	if err != nil {
		t.Fatalf("build set: %v", err)
	}
	req := layout.NewRequest(set.Generation, layout.Boxes(set.Letters), layout.DefaultOptions())
	resp := layout.NewCoordinator(nil).Compute(req)
	if resp.Err != nil {
		t.Fatalf("layout: %v", resp.Err)
	}
	layout.Apply(set.Letters, resp.Result)
	return set
}

func TestRenderPDF(t *testing.T) {
	r := New(Options{Labels: true})
	out, err := r.Render(renderer.Frame{Set: testSet(t, "Ag 8"), Rig: renderer.DefaultRig()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(16, len(out))])
	}
}

func TestRenderSVG(t *testing.T) {
	rig := renderer.DefaultRig()
	rig.LightHelper = true
	r := New(Options{Format: FormatSVG})
	out, err := r.Render(renderer.Frame{Set: testSet(t, "Hi"), Rig: rig})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Fatalf("output is not an SVG")
	}
}

// 没有字母时依然输出一个空场景。
func TestRenderEmptyScene(t *testing.T) {
	r := New(Options{Format: FormatSVG, Labels: true})
	out, err := r.Render(renderer.Frame{Rig: renderer.DefaultRig()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty output")
	}
}

// 页面大小按 1 个场景单位 = MMPerUnit 毫米计算。
func TestPageScale(t *testing.T) {
	set := testSet(t, "AB")
	rig := renderer.DefaultRig()
	rig.Axes = false
	r := New(Options{MMPerUnit: 10, Margin: 5})
	pg := r.pageFor(renderer.Frame{Set: set, Rig: rig})

	var minX, maxX float64
	for i, l := range set.Letters {
		b := l.WorldBounds()
		if i == 0 || b.Min.X < minX {
			minX = b.Min.X
		}
		if i == 0 || b.Max.X > maxX {
			maxX = b.Max.X
		}
	}
	want := (maxX-minX)*10 + 10
	if d := pg.width - want; d > 1e-9 || d < -1e-9 {
		t.Fatalf("page width %g want %g", pg.width, want)
	}
	if pg.x(minX) != 5 {
		t.Fatalf("leftmost stamp should start at the margin, got %g", pg.x(minX))
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{"a.pdf": FormatPDF, "b.SVG": FormatSVG}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("c.png"); err == nil {
		t.Fatalf("png should be rejected")
	}
}

func TestLabelFontFallback(t *testing.T) {
	r := New(Options{Font: "no-such-font", Labels: true})
	family, err := r.ensureFontFamily()
	if err != nil || family == nil {
		t.Fatalf("expected fallback family, got %v", err)
	}
}
