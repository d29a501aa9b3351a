package scene

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/ByLCY/stampkit/export"
	"github.com/ByLCY/stampkit/fonts"
	"github.com/ByLCY/stampkit/glyph"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/logx"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/settings"
	"github.com/ByLCY/stampkit/stamp"
)

// Hooks are called from the host goroutine. Every field is optional.
type Hooks struct {
	FontLoaded func(src string)
	FontFailed func(src string, err error)
	Applied    func(set *stamp.Set)
	Dropped    func(generation uint64) // stale layout response
	Exported   func(res export.Result)
	Previewed  func(path string)
	Failed     func(err error)
}

// Options wires the host to its collaborators. Nil collaborators get a
// default.
type Options struct {
	Settings    *settings.Store
	Fonts       *fonts.Store
	Coordinator *layout.Coordinator
	Exporter    *export.Exporter
	Glyph       glyph.Options
	Params      stamp.Params

	// NewPreview returns the renderer for a preview path.
	NewPreview  func(path string) (renderer.Renderer, error)
	PreviewPath string

	DebugLayoutPath string

	// The render loop runs only with OnFrame set and FrameInterval > 0.
	// MaxFrames > 0 stops it after that many frames.
	FrameInterval time.Duration
	MaxFrames     int
	OnFrame       func(renderer.Frame)

	Hooks Hooks
}

type job struct {
	export  *export.Result
	preview string
	err     error
}

// Host owns the pipeline state. Run processes events, font loads, layout
// responses and frame ticks one at a time; other goroutines only Send events
// and read Current.
type Host struct {
	opts    Options
	events  chan Event
	layouts chan layout.Response
	jobs    chan job
	current atomic.Pointer[stamp.Set]

	state      State
	rig        renderer.Rig
	resolver   *glyph.Resolver
	fontSrc    string
	loading    string
	fontCh     <-chan fonts.Result
	dirty      bool
	pending    *stamp.Set
	pendingReq *layout.Request
	deferred   []Event
	inflight   int
	frames     int
	elapsed    time.Duration
}

// NewHost loads the persisted settings and prepares a host. A broken
// settings file is reported and replaced by the defaults.
func NewHost(opts Options) *Host {
	if opts.Settings == nil {
		opts.Settings = settings.NewStore("")
	}
	if opts.Fonts == nil {
		opts.Fonts = fonts.NewStore(fonts.Options{})
	}
	if opts.Coordinator == nil {
		opts.Coordinator = layout.NewCoordinator(nil)
	}
	if opts.Exporter == nil {
		opts.Exporter = export.New(export.FileSink{Dir: "."}, export.Options{})
	}
	if opts.Glyph.Size <= 0 {
		opts.Glyph = glyph.DefaultOptions()
	}
	if opts.Params.TextHeight <= 0 {
		opts.Params = stamp.DefaultParams()
	}
	cfg, err := opts.Settings.Load()
	if err != nil {
		logx.Logger().Warn("settings ignored", "path", opts.Settings.Path(), "err", err)
	}
	return &Host{
		opts:    opts,
		events:  make(chan Event, 64),
		layouts: make(chan layout.Response),
		jobs:    make(chan job),
		state:   NewState(cfg, opts.Params),
		rig:     rigFromSettings(cfg),
	}
}

// Send queues ev for the host.
func (h *Host) Send(ctx context.Context, ev Event) error {
	select {
	case h.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns the set on screen, or nil before the first layout lands.
// The returned set is never modified again.
func (h *Host) Current() *stamp.Set { return h.current.Load() }

// Run drives the host until Quit has been handled or ctx ends.
func (h *Host) Run(ctx context.Context) error {
	h.loadFont(ctx, h.state.Settings.Font)

	var tick <-chan time.Time
	if h.opts.OnFrame != nil && h.opts.FrameInterval > 0 {
		t := time.NewTicker(h.opts.FrameInterval)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-h.events:
			if h.dispatch(ctx, ev) {
				return nil
			}
		case res, ok := <-h.fontCh:
			h.fontCh = nil
			if ok {
				h.fontLoaded(ctx, res)
			}
		case resp := <-h.layouts:
			h.applyLayout(resp)
		case j := <-h.jobs:
			h.finish(j)
		case <-tick:
			h.frame()
			if h.opts.MaxFrames > 0 && h.frames >= h.opts.MaxFrames {
				tick = nil
			}
		}
		if h.drain(ctx) {
			return nil
		}
	}
}

func (h *Host) settled() bool {
	return h.fontCh == nil && h.pending == nil && h.inflight == 0
}

// ready reports whether ev can run now. Quit also waits for a bounded
// render loop to finish.
func (h *Host) ready(ev Event) bool {
	if !waits(ev) {
		return true
	}
	if !h.settled() {
		return false
	}
	if _, ok := ev.(Quit); ok && h.opts.OnFrame != nil && h.opts.FrameInterval > 0 && h.opts.MaxFrames > 0 {
		return h.frames >= h.opts.MaxFrames
	}
	return true
}

// dispatch keeps events in order: once one is deferred, every later one
// queues behind it.
func (h *Host) dispatch(ctx context.Context, ev Event) bool {
	if len(h.deferred) > 0 || !h.ready(ev) {
		h.deferred = append(h.deferred, ev)
		return false
	}
	return h.handle(ctx, ev)
}

func (h *Host) drain(ctx context.Context) bool {
	for len(h.deferred) > 0 {
		ev := h.deferred[0]
		if !h.ready(ev) {
			return false
		}
		h.deferred = h.deferred[1:]
		if h.handle(ctx, ev) {
			return true
		}
	}
	return false
}

func (h *Host) handle(ctx context.Context, ev Event) (quit bool) {
	switch ev := ev.(type) {
	case TextChanged:
		h.state.Settings.Text = ev.Text
		h.save()
		h.regenerate(ctx)
	case DepthChanged:
		next := h.state.Settings
		next.Depth = ev.Depth
		h.update(ctx, next)
	case GutterChanged:
		next := h.state.Settings
		next.Gutter = ev.Gutter
		h.update(ctx, next)
	case FontChanged:
		h.state.Settings.Font = ev.Src
		h.save()
		h.loadFont(ctx, ev.Src)
	case HelperToggled:
		h.rig.SetHelper(ev.Helper, ev.Visible)
		setHelper(&h.state.Settings, ev.Helper, ev.Visible)
		h.save()
	case AutoRotateChanged:
		h.rig.AutoRotate = ev.On
		h.state.Settings.AutoRotate = ev.On
		h.save()
	case ResetRequested:
		h.reset(ctx)
	case ExportRequested:
		h.startExport(ctx, ev.Path)
	case PreviewRequested:
		h.startPreview(ctx, ev.Path)
	case Barrier:
		if ev.Done != nil {
			close(ev.Done)
		}
	case Quit:
		return true
	default:
		h.fail(fmt.Errorf("未知的事件类型 %T", ev))
	}
	return false
}

func (h *Host) update(ctx context.Context, next settings.Settings) {
	if err := next.Validate(); err != nil {
		h.fail(err)
		return
	}
	h.state.Settings = next
	h.save()
	h.regenerate(ctx)
}

func (h *Host) reset(ctx context.Context) {
	cfg, err := h.opts.Settings.Reset()
	if err != nil {
		h.fail(err)
	}
	h.state.Settings = cfg
	h.rig = rigFromSettings(cfg)
	if cfg.Font != h.fontSrc || h.fontCh != nil {
		h.loadFont(ctx, cfg.Font)
		return
	}
	h.regenerate(ctx)
}

func (h *Host) save() {
	if err := h.opts.Settings.Save(h.state.Settings); err != nil {
		logx.Logger().Warn("settings not saved", "path", h.opts.Settings.Path(), "err", err)
	}
}

func (h *Host) fail(err error) {
	logx.Logger().Error("scene", "err", err)
	if h.opts.Hooks.Failed != nil {
		h.opts.Hooks.Failed(err)
	}
}

func (h *Host) loadFont(ctx context.Context, src string) {
	logx.Logger().Debug("loading font", "src", src)
	h.loading = src
	h.fontCh = h.opts.Fonts.LoadAsync(ctx, src)
}

func (h *Host) fontLoaded(ctx context.Context, res fonts.Result) {
	if res.Err != nil {
		logx.Logger().Error("font load failed", "src", res.Src, "err", res.Err)
		if h.opts.Hooks.FontFailed != nil {
			h.opts.Hooks.FontFailed(res.Src, res.Err)
		}
		if h.resolver != nil {
			// 保留之前的字体和场景
			h.state.Settings.Font = h.fontSrc
			h.save()
			if h.dirty {
				h.regenerate(ctx)
			}
			return
		}
		f, err := h.opts.Fonts.Fallback()
		if err != nil {
			h.fail(fmt.Errorf("无法加载后备字体: %w", err))
			return
		}
		res = fonts.Result{Src: "builtin:" + fonts.DefaultName, Font: f}
	}
	h.resolver = glyph.NewResolver(res.Font, h.opts.Glyph)
	h.fontSrc = res.Src
	logx.Logger().Info("font loaded", "src", res.Src, "name", res.Font.Name)
	if h.opts.Hooks.FontLoaded != nil {
		h.opts.Hooks.FontLoaded(res.Src)
	}
	h.regenerate(ctx)
}

// regenerate starts the next generation. While a font is loading it only
// marks the state dirty.
func (h *Host) regenerate(ctx context.Context) {
	if h.resolver == nil || h.fontCh != nil {
		h.dirty = true
		return
	}
	h.dirty = false
	h.state.Generation++
	set, req, err := Regenerate(h.state, h.resolver)
	if err != nil {
		h.pending, h.pendingReq = nil, nil
		h.fail(err)
		return
	}
	h.pending, h.pendingReq = set, req
	logx.Logger().Debug("layout submitted", "generation", req.Generation, "letters", set.Len())

	ch := h.opts.Coordinator.Submit(ctx, req)
	go func() {
		for resp := range ch {
			select {
			case h.layouts <- resp:
			case <-ctx.Done():
			}
		}
	}()
}

func (h *Host) applyLayout(resp layout.Response) {
	if resp.Stale(h.state.Generation) || h.pending == nil || h.pending.Generation != resp.Generation {
		logx.Logger().Debug("stale layout dropped", "generation", resp.Generation, "current", h.state.Generation)
		if h.opts.Hooks.Dropped != nil {
			h.opts.Hooks.Dropped(resp.Generation)
		}
		return
	}
	set, req := h.pending, h.pendingReq
	h.pending, h.pendingReq = nil, nil

	if h.opts.DebugLayoutPath != "" {
		if err := layout.WriteDebugJSON(req, resp, h.opts.DebugLayoutPath); err != nil {
			logx.Logger().Warn("layout debug dump failed", "path", h.opts.DebugLayoutPath, "err", err)
		}
	}
	if resp.Err != nil {
		h.fail(fmt.Errorf("第 %d 代布局失败: %w", resp.Generation, resp.Err))
		return
	}
	moved := layout.Apply(set.Letters, resp.Result)
	h.current.Store(set)
	logx.Logger().Info("scene updated", "generation", set.Generation, "letters", set.Len(), "placed", moved)
	if h.opts.Hooks.Applied != nil {
		h.opts.Hooks.Applied(set)
	}
}

func (h *Host) spawn(ctx context.Context, fn func() job) {
	h.inflight++
	go func() {
		j := fn()
		select {
		case h.jobs <- j:
		case <-ctx.Done():
		}
	}()
}

func (h *Host) startExport(ctx context.Context, path string) {
	policy, err := export.ParsePolicy(h.state.Settings.ExportPolicy)
	if err != nil {
		h.fail(err)
		return
	}
	exp := h.opts.Exporter.WithPolicy(policy)
	if path != "" {
		exp = exp.WithSink(export.FileSink{Path: path})
	}
	set := h.current.Load()
	h.spawn(ctx, func() job {
		res, err := exp.Export(ctx, set)
		return job{export: &res, err: err}
	})
}

func (h *Host) startPreview(ctx context.Context, path string) {
	if path == "" {
		path = h.opts.PreviewPath
	}
	if path == "" || h.opts.NewPreview == nil {
		h.fail(errors.New("未配置预览输出"))
		return
	}
	r, err := h.opts.NewPreview(path)
	if err != nil {
		h.fail(err)
		return
	}
	f := h.snapshot()
	h.spawn(ctx, func() job {
		data, err := r.Render(f)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		if err != nil {
			err = fmt.Errorf("写入预览 %s 失败: %w", path, err)
		}
		return job{preview: path, err: err}
	})
}

func (h *Host) finish(j job) {
	h.inflight--
	switch {
	case j.err != nil && errors.Is(j.err, export.ErrNothingToExport):
		logx.Logger().Warn("nothing to export", "text", h.state.Settings.Text)
	case j.err != nil:
		h.fail(j.err)
	case j.export != nil:
		if h.opts.Hooks.Exported != nil {
			h.opts.Hooks.Exported(*j.export)
		}
	default:
		logx.Logger().Info("preview written", "path", j.preview)
		if h.opts.Hooks.Previewed != nil {
			h.opts.Hooks.Previewed(j.preview)
		}
	}
}

func (h *Host) snapshot() renderer.Frame {
	return renderer.Frame{Index: h.frames, Elapsed: h.elapsed, Set: h.current.Load(), Rig: h.rig}
}

func (h *Host) frame() {
	h.rig.Update(h.opts.FrameInterval)
	h.elapsed += h.opts.FrameInterval
	h.frames++
	h.opts.OnFrame(h.snapshot())
}
