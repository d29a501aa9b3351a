package fonts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestBuiltinAliases(t *testing.T) {
	for _, src := range []string{"go-regular", "builtin:go-regular", "embed:go-regular", "built-in:go-regular"} {
		data, err := Builtin(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if len(data) != len(goregular.TTF) {
			t.Fatalf("%s: unexpected font bytes", src)
		}
	}
	if _, err := Builtin("builtin:nope"); err == nil {
		t.Fatalf("unknown builtin font should fail")
	}
}

func TestParseMetrics(t *testing.T) {
	f, err := Parse("go", goregular.TTF)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.UnitsPerEm != 2048 {
		t.Fatalf("Go Regular has 2048 units per em, got %g", f.UnitsPerEm)
	}
	if f.Ascent <= 0.5 || f.Ascent > 1.5 {
		t.Fatalf("ascent out of range: %g", f.Ascent)
	}
	if f.Descent <= 0 || f.Descent > 0.5 {
		t.Fatalf("descent must be positive and small: %g", f.Descent)
	}
	if f.SpaceAdvance <= 0 || f.SpaceAdvance >= 1 {
		t.Fatalf("space advance out of range: %g", f.SpaceAdvance)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("junk", []byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStoreCachesAndFallsBack(t *testing.T) {
	s := NewStore(Options{})
	a, err := s.Load("")
	if err != nil {
		t.Fatalf("default font: %v", err)
	}
	b, err := s.Load("builtin:" + DefaultName)
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	if a != b {
		t.Fatalf("same source must hit the cache")
	}

	// 相对路径在没有 baseDir 时被拒绝
	if _, err := s.Load("fonts/foo.ttf"); err == nil {
		t.Fatalf("relative path without base dir should fail")
	}
	f, err := s.LoadOrFallback("/does/not/exist.ttf")
	if err == nil {
		t.Fatalf("load error should still be reported")
	}
	if f == nil || f.Name != DefaultName {
		t.Fatalf("expected fallback font, got %+v", f)
	}
}

func TestStoreReadsFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "my.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(Options{BaseDir: dir, Fonts: map[string][]byte{"custom": goregular.TTF}})
	if _, err := s.Load("my.ttf"); err != nil {
		t.Fatalf("path font: %v", err)
	}
	if _, err := s.Load("builtin:custom"); err != nil {
		t.Fatalf("registered font: %v", err)
	}
}

func TestLoadAsync(t *testing.T) {
	s := NewStore(Options{})
	res := <-s.LoadAsync(context.Background(), "builtin:go-mono")
	if res.Err != nil || res.Font == nil {
		t.Fatalf("async load: %+v", res)
	}
	if _, ok := <-s.LoadAsync(context.Background(), "builtin:missing"); !ok {
		t.Fatalf("failed load must still deliver a result")
	}
}
