package dsl

import (
	"fmt"

	"github.com/ByLCY/stampkit/binding"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/scene"
)

// Options controls how commands turn into events.
type Options struct {
	Data      any     // ${path} 插值使用的数据
	MMPerUnit float64 // 物理长度换算为场景单位，默认 layout.DefaultMMPerUnit
}

// Compile converts a parsed script into scene events, in order.
func Compile(s *Script, opts Options) ([]scene.Event, error) {
	if s == nil {
		return nil, nil
	}
	if opts.MMPerUnit <= 0 {
		opts.MMPerUnit = layout.DefaultMMPerUnit
	}
	events := make([]scene.Event, 0, len(s.Commands))
	for _, cmd := range s.Commands {
		ev, err := compileCommand(cmd, opts)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行 %s: %w", cmd.Pos.Line, cmd.Name(), err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// CompileString parses and compiles in one step.
func CompileString(src string, opts Options) ([]scene.Event, error) {
	s, err := ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("解析控制脚本失败: %w", err)
	}
	return Compile(s, opts)
}

func compileCommand(cmd *Command, opts Options) (scene.Event, error) {
	switch {
	case cmd.Text != nil:
		text, err := binding.Expand(string(*cmd.Text), opts.Data)
		if err != nil {
			return nil, err
		}
		return scene.TextChanged{Text: text}, nil
	case cmd.Depth != nil:
		v, err := sceneLength(*cmd.Depth, opts.MMPerUnit)
		if err != nil {
			return nil, err
		}
		return scene.DepthChanged{Depth: v}, nil
	case cmd.Gutter != nil:
		v, err := sceneLength(*cmd.Gutter, opts.MMPerUnit)
		if err != nil {
			return nil, err
		}
		return scene.GutterChanged{Gutter: v}, nil
	case cmd.Font != nil:
		if *cmd.Font == "" {
			return nil, fmt.Errorf("字体来源不能为空")
		}
		return scene.FontChanged{Src: string(*cmd.Font)}, nil
	case cmd.Show != nil, cmd.Hide != nil:
		name, visible := cmd.Show, true
		if name == nil {
			name, visible = cmd.Hide, false
		}
		h, err := renderer.ParseHelper(*name)
		if err != nil {
			return nil, err
		}
		return scene.HelperToggled{Helper: h, Visible: visible}, nil
	case cmd.AutoRotate != nil:
		return scene.AutoRotateChanged{On: *cmd.AutoRotate == "on"}, nil
	case cmd.Output != nil:
		path := ""
		if cmd.Output.Path != nil {
			p, err := binding.Expand(string(*cmd.Output.Path), opts.Data)
			if err != nil {
				return nil, err
			}
			path = p
		}
		if cmd.Output.Kind == "preview" {
			return scene.PreviewRequested{Path: path}, nil
		}
		return scene.ExportRequested{Path: path}, nil
	case cmd.Bare != nil:
		switch *cmd.Bare {
		case "reset":
			return scene.ResetRequested{}, nil
		case "wait":
			return scene.Barrier{}, nil
		case "quit":
			return scene.Quit{}, nil
		}
	}
	return nil, fmt.Errorf("无法识别的命令")
}

func sceneLength(raw string, mmPerUnit float64) (float64, error) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.ToScene(mmPerUnit), nil
}
