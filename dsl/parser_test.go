package dsl_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/stampkit/binding"
	"github.com/ByLCY/stampkit/dsl"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/scene"
)

const sampleScript = `
# 字模控制脚本
font "builtin:go-bold"
text "Hello ${user.name|World}"
depth 5mm; gutter 0.3
show light-helper
hide grid
autorotate on
wait
export "out/${user.id}.zip"   // 按用户导出
preview
reset
quit
`

func TestCompileScript(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ada", "id": 7}}
	events, err := dsl.CompileString(sampleScript, dsl.Options{Data: data})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	want := []scene.Event{
		scene.FontChanged{Src: "builtin:go-bold"},
		scene.TextChanged{Text: "Hello Ada"},
		scene.DepthChanged{Depth: 0.5},
		scene.GutterChanged{Gutter: 0.3},
		scene.HelperToggled{Helper: renderer.HelperLightHelper, Visible: true},
		scene.HelperToggled{Helper: renderer.HelperGrid, Visible: false},
		scene.AutoRotateChanged{On: true},
		scene.Barrier{},
		scene.ExportRequested{Path: "out/7.zip"},
		scene.PreviewRequested{},
		scene.ResetRequested{},
		scene.Quit{},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeepsPositions(t *testing.T) {
	s, err := dsl.ParseString("text \"A\"\n\n// comment\ndepth 0.5\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(s.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(s.Commands))
	}
	if s.Commands[1].Name() != "depth" || s.Commands[1].Pos.Line != 4 {
		t.Fatalf("unexpected second command %q at line %d", s.Commands[1].Name(), s.Commands[1].Pos.Line)
	}
}

// 物理单位按 MMPerUnit 换算为场景单位。
func TestCompileUnits(t *testing.T) {
	events, err := dsl.CompileString("depth 1cm\ndepth 0.25\ngutter 2mm", dsl.Options{MMPerUnit: 20})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	want := []scene.Event{
		scene.DepthChanged{Depth: 0.5},
		scene.DepthChanged{Depth: 0.25},
		scene.GutterChanged{Gutter: 0.1},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown helper": "show sun",
		"syntax":         "text",
		"unknown cmd":    "explode now",
		"bad switch":     "autorotate maybe",
	}
	for name, src := range cases {
		if _, err := dsl.CompileString(src, dsl.Options{}); err == nil {
			t.Fatalf("%s: expected error for %q", name, src)
		}
	}

	_, err := dsl.CompileString(`text "${missing}"`, dsl.Options{})
	if !errors.Is(err, binding.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
}

func TestEmptyScript(t *testing.T) {
	events, err := dsl.CompileString("\n# nothing\n", dsl.Options{})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
