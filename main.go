package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ByLCY/stampkit/binding"
	"github.com/ByLCY/stampkit/dsl"
	"github.com/ByLCY/stampkit/export"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/logx"
	"github.com/ByLCY/stampkit/renderer"
	canvasrenderer "github.com/ByLCY/stampkit/renderer/canvas"
	"github.com/ByLCY/stampkit/scene"
	"github.com/ByLCY/stampkit/settings"
)

type config struct {
	text, depth, font string
	script, data      string
	out, preview      string
	settings, debug   string
	frames            int
	verbose           bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.text, "text", "", "字模文字，支持 ${path} 占位符")
	flag.StringVar(&cfg.depth, "depth", "", "字身深度，如 0.5 或 5mm")
	flag.StringVar(&cfg.font, "font", "", "字体来源：builtin:go-regular 或 TTF 路径")
	flag.StringVar(&cfg.script, "script", "", "控制脚本路径")
	flag.StringVar(&cfg.data, "data", "", "绑定数据：JSON 字符串，或以 @ 开头的 JSON 文件路径")
	flag.StringVar(&cfg.out, "out", "output/stamps.zip", "导出压缩包路径")
	flag.StringVar(&cfg.preview, "preview", "", "预览输出路径（.pdf 或 .svg）")
	flag.StringVar(&cfg.settings, "settings", "", "配置文件路径（TOML），为空时不持久化")
	flag.StringVar(&cfg.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.IntVar(&cfg.frames, "frames", 0, "渲染循环的帧数")
	flag.BoolVar(&cfg.verbose, "v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatalf("生成字模失败: %v", err)
	}
}

// run 把命令行参数与控制脚本转换为事件序列，交给场景处理。
func run(ctx context.Context, cfg config) error {
	data, err := loadData(cfg.data)
	if err != nil {
		return err
	}
	events, err := buildEvents(cfg, data)
	if err != nil {
		return err
	}

	var interval time.Duration
	if cfg.frames > 0 {
		interval = 16 * time.Millisecond
	}

	var failures []error
	host := scene.NewHost(scene.Options{
		Settings:        settings.NewStore(cfg.settings),
		Exporter:        export.New(export.FileSink{Path: cfg.out}, export.Options{}),
		NewPreview:      newPreview,
		PreviewPath:     cfg.preview,
		DebugLayoutPath: cfg.debug,
		FrameInterval:   interval,
		MaxFrames:       cfg.frames,
		OnFrame: func(f renderer.Frame) {
			logx.Logger().Debug("frame", "index", f.Index, "letters", f.Set.Len(), "camera", f.Rig.Camera.Position)
		},
		Hooks: scene.Hooks{
			Exported: func(res export.Result) {
				fmt.Printf("已导出 %d 个字模：%s\n", len(res.Files), res.Location)
			},
			Previewed: func(path string) {
				fmt.Printf("已生成预览：%s\n", path)
			},
			Failed: func(err error) { failures = append(failures, err) },
			FontFailed: func(src string, err error) {
				failures = append(failures, fmt.Errorf("加载字体 %s 失败: %w", src, err))
			},
		},
	})

	done := make(chan error, 1)
	go func() { done <- host.Run(ctx) }()
	for _, ev := range events {
		if err := host.Send(ctx, ev); err != nil {
			return err
		}
	}
	if err := <-done; err != nil {
		return err
	}
	return errors.Join(failures...)
}

func loadData(raw string) (any, error) {
	switch {
	case raw == "":
		return nil, nil
	case strings.HasPrefix(raw, "@"):
		return binding.LoadFile(strings.TrimPrefix(raw, "@"))
	default:
		v, err := binding.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		return v, nil
	}
}

// buildEvents 先应用命令行覆盖项，再追加脚本命令；没有脚本时导出一次。
func buildEvents(cfg config, data any) ([]scene.Event, error) {
	var events []scene.Event
	if cfg.font != "" {
		events = append(events, scene.FontChanged{Src: cfg.font})
	}
	if cfg.text != "" {
		text, err := binding.Expand(cfg.text, data)
		if err != nil {
			return nil, fmt.Errorf("文字插值失败: %w", err)
		}
		events = append(events, scene.TextChanged{Text: text})
	}
	if cfg.depth != "" {
		l, err := layout.ParseLength(cfg.depth)
		if err != nil {
			return nil, err
		}
		events = append(events, scene.DepthChanged{Depth: l.ToScene(layout.DefaultMMPerUnit)})
	}

	if cfg.script == "" {
		events = append(events, scene.ExportRequested{})
		if cfg.preview != "" {
			events = append(events, scene.PreviewRequested{})
		}
		return append(events, scene.Quit{}), nil
	}

	src, err := os.ReadFile(cfg.script)
	if err != nil {
		return nil, fmt.Errorf("无法打开控制脚本 %s: %w", cfg.script, err)
	}
	compiled, err := dsl.CompileString(string(src), dsl.Options{Data: data})
	if err != nil {
		return nil, err
	}
	events = append(events, compiled...)
	return append(events, scene.Quit{}), nil
}

func newPreview(path string) (renderer.Renderer, error) {
	format, err := canvasrenderer.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return canvasrenderer.New(canvasrenderer.Options{Format: format, Labels: true}), nil
}
