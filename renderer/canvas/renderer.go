package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/stampkit/fonts"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/mesh"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/stamp"
)

const (
	lineWidth   = 0.2 // mm
	captionSize = 9   // pt
	labelSize   = 7   // pt
)

// Format selects the output document type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("不支持的预览格式: %q（仅支持 .pdf 或 .svg）", path)
}

// Options configures the preview renderer.
type Options struct {
	Format    Format
	MMPerUnit float64 // physical size of one scene unit, defaults to layout.DefaultMMPerUnit
	Margin    float64 // page margin in mm
	Labels    bool    // draw the character under each stamp and a caption
	Font      string  // builtin font used for labels
}

// Renderer draws an orthographic top view of a frame via
// github.com/tdewolff/canvas: x to the right, z downwards, one scene unit
// scaled to MMPerUnit millimetres.
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a preview renderer.
func New(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	if opts.MMPerUnit <= 0 {
		opts.MMPerUnit = layout.DefaultMMPerUnit
	}
	if opts.Margin <= 0 {
		opts.Margin = 10
	}
	if opts.Font == "" {
		opts.Font = fonts.DefaultName
	}
	return &Renderer{opts: opts}
}

// page maps scene coordinates on the ground plane to page millimetres.
type page struct {
	minX, minZ float64
	scale      float64
	margin     float64
	width      float64
	height     float64
	caption    float64
}

func (p page) x(x float64) float64 { return (x-p.minX)*p.scale + p.margin }
func (p page) y(z float64) float64 { return (z-p.minZ)*p.scale + p.margin }

// Render draws the frame into a PDF or SVG document.
func (r *Renderer) Render(f renderer.Frame) ([]byte, error) {
	pg := r.pageFor(f)
	c := canvas.New(pg.width, pg.height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，z 轴朝下

	shade := lighting(f.Rig)
	if f.Rig.Grid {
		drawGrid(ctx, pg)
	}
	if f.Set != nil {
		for _, l := range f.Set.Letters {
			drawLetter(ctx, pg, l, shade)
		}
	}
	if f.Rig.Axes {
		drawAxes(ctx, pg)
	}
	if f.Rig.LightHelper && f.Rig.Point.Visible {
		p := f.Rig.Point.Position
		ctx.SetFillColor(canvas.Hex("#f2c94c"))
		ctx.SetStrokeColor(canvas.Hex("#9a7b1c"))
		ctx.SetStrokeWidth(lineWidth)
		ctx.DrawPath(pg.x(p.X)-1.5, pg.y(p.Z)-1.5, canvas.Circle(1.5))
	}
	if r.opts.Labels {
		if err := r.drawLabels(ctx, pg, f); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatSVG:
		writer := svg.New(&buf, pg.width, pg.height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPDF:
		writer := pdf.New(&buf, pg.width, pg.height, nil)
		writer.SetInfo(caption(f), "stamp preview", "stamp, stl", "", "stampkit")
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("未知的预览格式 %q", r.opts.Format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) pageFor(f renderer.Frame) page {
	b := mesh.EmptyBox3()
	if f.Set != nil {
		for _, l := range f.Set.Letters {
			b.ExpandByBox(l.WorldBounds())
		}
	}
	if b.IsEmpty() {
		b = mesh.Box3{Min: mesh.V3(-5, 0, -3), Max: mesh.V3(5, 0, 3)}
	}
	if f.Rig.Axes {
		b.ExpandByPoint(mesh.V3(0, 0, 0))
		b.ExpandByPoint(mesh.V3(1, 0, 1))
	}
	if f.Rig.LightHelper && f.Rig.Point.Visible {
		b.ExpandByPoint(f.Rig.Point.Position)
	}

	pg := page{
		minX:   b.Min.X,
		minZ:   b.Min.Z,
		scale:  r.opts.MMPerUnit,
		margin: r.opts.Margin,
	}
	if r.opts.Labels {
		pg.caption = 12
	}
	pg.width = (b.Max.X-b.Min.X)*pg.scale + 2*pg.margin
	pg.height = (b.Max.Z-b.Min.Z)*pg.scale + 2*pg.margin + pg.caption
	return pg
}

// lighting approximates how bright the scene is with the enabled lights.
func lighting(rig renderer.Rig) float64 {
	v := 0.0
	if rig.Ambient.Visible {
		v += rig.Ambient.Intensity
	}
	if rig.Point.Visible {
		v += 0.6
	}
	return math.Min(1, math.Max(0.15, v))
}

func shaded(base color.RGBA, k float64) color.Color {
	return canvas.RGBA(float64(base.R)/255*k, float64(base.G)/255*k, float64(base.B)/255*k, 1.0)
}

func drawGrid(ctx *canvas.Context, pg page) {
	maxX := pg.minX + (pg.width-2*pg.margin)/pg.scale
	maxZ := pg.minZ + (pg.height-2*pg.margin-pg.caption)/pg.scale
	ctx.SetStrokeColor(canvas.Hex("#dddddd"))
	ctx.SetStrokeWidth(lineWidth / 2)
	for x := math.Ceil(pg.minX); x <= maxX; x++ {
		line(ctx, pg.x(x), pg.y(pg.minZ), pg.x(x), pg.y(maxZ))
	}
	for z := math.Ceil(pg.minZ); z <= maxZ; z++ {
		line(ctx, pg.x(pg.minX), pg.y(z), pg.x(maxX), pg.y(z))
	}
}

func drawAxes(ctx *canvas.Context, pg page) {
	ctx.SetStrokeWidth(lineWidth * 2)
	ctx.SetStrokeColor(canvas.Hex("#e5484d"))
	line(ctx, pg.x(0), pg.y(0), pg.x(1), pg.y(0))
	ctx.SetStrokeColor(canvas.Hex("#3e63dd"))
	line(ctx, pg.x(0), pg.y(0), pg.x(0), pg.y(1))
	// y 轴垂直于纸面
	ctx.SetFillColor(canvas.Hex("#30a46c"))
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(pg.x(0)-0.8, pg.y(0)-0.8, canvas.Circle(0.8))
}

func line(ctx *canvas.Context, x1, y1, x2, y2 float64) {
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(x1, y1, p)
}

func footprint(ctx *canvas.Context, pg page, b mesh.Box3) {
	ctx.DrawPath(pg.x(b.Min.X), pg.y(b.Min.Z), canvas.Rectangle((b.Max.X-b.Min.X)*pg.scale, (b.Max.Z-b.Min.Z)*pg.scale))
}

func drawLetter(ctx *canvas.Context, pg page, l *stamp.Letter, k float64) {
	t := l.Transform()
	ctx.SetStrokeWidth(lineWidth)
	if l.Placeholder() {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Hex("#bbbbbb"))
		footprint(ctx, pg, l.WorldBounds())
		return
	}

	ctx.SetStrokeColor(canvas.Hex("#555555"))
	ctx.SetFillColor(shaded(color.RGBA{0x9e, 0x9e, 0x9e, 0xff}, k))
	footprint(ctx, pg, l.Backing.Bounds().Transform(t))
	ctx.SetFillColor(shaded(color.RGBA{0xd6, 0xc3, 0xa5, 0xff}, k))
	footprint(ctx, pg, l.Quad.Bounds().Transform(t))

	if l.Body == nil {
		return
	}
	// 字身俯视图：轮廓按字身的放置方式镜像后映射到场景
	top := l.Body.Bounds().Max.Z
	cx := l.Outline.Bounds.Center().X
	p := &canvas.Path{}
	for _, c := range l.Outline.Contours {
		for i, v := range c {
			w := t.Apply(mesh.V3(cx-v.X, v.Y, top))
			if i == 0 {
				p.MoveTo(pg.x(w.X), pg.y(w.Z))
			} else {
				p.LineTo(pg.x(w.X), pg.y(w.Z))
			}
		}
		p.Close()
	}
	ctx.SetFillColor(shaded(color.RGBA{0x2b, 0x2b, 0x2b, 0xff}, k))
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(0, 0, p)
}

func caption(f renderer.Frame) string {
	if f.Set == nil {
		return "stampkit preview"
	}
	return fmt.Sprintf("%q · generation %d · %d letters", f.Set.Text, f.Set.Generation, f.Set.Len())
}

func (r *Renderer) drawLabels(ctx *canvas.Context, pg page, f renderer.Frame) error {
	family, err := r.ensureFontFamily()
	if err != nil {
		return err
	}
	ink := canvas.Hex("#333333")
	if f.Set != nil {
		face := family.Face(labelSize, ink, canvas.FontRegular, canvas.FontNormal)
		for _, l := range f.Set.Letters {
			if l.Placeholder() {
				continue
			}
			b := l.WorldBounds()
			baseline := pg.y(b.Max.Z) + face.Metrics().Ascent + 1
			ctx.DrawText(pg.x(b.Center().X), baseline, canvas.NewTextLine(face, string(l.Rune), canvas.Center))
		}
	}
	face := family.Face(captionSize, ink, canvas.FontRegular, canvas.FontNormal)
	baseline := pg.height - pg.margin/2 - face.Metrics().Descent
	ctx.DrawText(pg.margin, baseline, canvas.NewTextLine(face, caption(f), canvas.Left))
	return nil
}

// ensureFontFamily loads the label font once; a broken choice falls back to
// the default builtin font.
func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}
	family, err := loadFamily(r.opts.Font)
	if err != nil {
		fallback, fbErr := loadFamily(fonts.DefaultName)
		if fbErr != nil {
			return nil, err
		}
		family = fallback
	}
	r.family = family
	return family, nil
}

func loadFamily(name string) (*canvas.FontFamily, error) {
	data, err := fonts.Builtin(name)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("stampkit-" + name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载标注字体 %s 失败: %w", name, err)
	}
	return family, nil
}
