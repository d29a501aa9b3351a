package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/stampkit/fonts"
	"github.com/ByLCY/stampkit/glyph"
	"github.com/ByLCY/stampkit/mesh"
	"github.com/ByLCY/stampkit/stamp"
)

func buildSet(t *testing.T, text string) *stamp.Set {
	t.Helper()
	f, err := fonts.Parse("go", goregular.TTF)
	require.NoError(t, err)
	set, err := stamp.BuildSet(1, text, glyph.NewResolver(f, glyph.DefaultOptions()), stamp.DefaultParams(), stamp.MissingBlank)
	require.NoError(t, err)
	return set
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	var order []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
		order = append(order, f.Name)
	}
	out["__order__"] = strings.Join(order, ",")
	return out
}

func TestExportArchive(t *testing.T) {
	sink := &MemorySink{}
	res, err := New(sink, Options{}).Export(context.Background(), buildSet(t, "A B"))
	require.NoError(t, err)
	require.Equal(t, []string{"A.stl", "B.stl"}, res.Files)
	require.Equal(t, "memory:stamps.zip", res.Location)

	name, data, calls := sink.Last()
	require.Equal(t, "stamps.zip", name)
	require.Equal(t, 1, calls)
	require.Equal(t, len(data), res.Bytes)

	files := readZip(t, data)
	require.Equal(t, "A.stl,B.stl", files["__order__"])
	require.True(t, strings.HasPrefix(files["A.stl"], "solid A\n"))
	require.True(t, strings.HasSuffix(files["B.stl"], "endsolid B\n"))
}

func TestExportIsByteIdentical(t *testing.T) {
	a, b := &MemorySink{}, &MemorySink{}
	_, err := New(a, Options{Workers: 1}).Export(context.Background(), buildSet(t, "Stamp"))
	require.NoError(t, err)
	_, err = New(b, Options{Workers: 8}).Export(context.Background(), buildSet(t, "Stamp"))
	require.NoError(t, err)
	_, da, _ := a.Last()
	_, db, _ := b.Last()
	require.True(t, bytes.Equal(da, db), "archives differ between runs")
}

func TestExportEmptySet(t *testing.T) {
	sink := &MemorySink{}
	for _, set := range []*stamp.Set{nil, {}, buildSet(t, "   ")} {
		_, err := New(sink, Options{}).Export(context.Background(), set)
		require.ErrorIs(t, err, ErrNothingToExport)
	}
	_, _, calls := sink.Last()
	require.Zero(t, calls, "no archive for an empty set")
}

func TestFileNames(t *testing.T) {
	var letters []*stamp.Letter
	for i, r := range "Aa1 ?A/" {
		if r == ' ' {
			continue
		}
		letters = append(letters, &stamp.Letter{Rune: r, Index: i})
	}
	got := FileNames(letters)
	want := []string{"A.stl", "letter_2.stl", "1.stl", "letter_5.stl", "letter_6.stl", "letter_7.stl"}
	require.Equal(t, want, got)
}

func brokenLetter(index int) *stamp.Letter {
	m := mesh.NewBox("quad", mesh.V3(1, 1, 1), mesh.V3(0, 0, 0))
	m.Vertices[0].X = math.NaN()
	return &stamp.Letter{ID: "broken", Rune: 'X', Index: index, Quad: m, Rotation: mesh.Identity()}
}

func TestExportPolicies(t *testing.T) {
	set := buildSet(t, "AB")
	set.Letters = append(set.Letters, brokenLetter(2))

	sink := &MemorySink{}
	_, err := New(sink, Options{}).Export(context.Background(), set)
	require.ErrorIs(t, err, ErrInvalidGeometry)
	_, _, calls := sink.Last()
	require.Zero(t, calls, "fail-fast must not deliver a partial archive")

	res, err := New(sink, Options{}).WithPolicy(BestEffort).Export(context.Background(), set)
	require.NoError(t, err)
	require.Equal(t, []string{"A.stl", "B.stl"}, res.Files)
	require.Len(t, res.Failed, 1)
	require.Equal(t, 2, res.Failed[0].Index)

	only := &stamp.Set{Letters: []*stamp.Letter{brokenLetter(0)}}
	_, err = New(sink, Options{Policy: BestEffort}).Export(context.Background(), only)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidGeometry))
}

// 盒子的 STL 必须是封闭的：每条边恰好被两个三角形共享。
func TestSTLBoxIsWatertight(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, "box", mesh.NewBox("box", mesh.V3(1, 2, 3), mesh.V3(0, 0, 0)), 10))

	var tris [][3]string
	var cur []string
	for _, line := range strings.Split(buf.String(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "vertex ") {
			cur = append(cur, strings.TrimPrefix(line, "vertex "))
		}
		if line == "endloop" {
			require.Len(t, cur, 3)
			tris = append(tris, [3]string{cur[0], cur[1], cur[2]})
			cur = nil
		}
	}
	require.Len(t, tris, 12)
	edges := map[[2]string]int{}
	for _, tri := range tris {
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]string{a, b}]++
		}
	}
	for e, n := range edges {
		require.Equal(t, 2, n, "edge %v", e)
	}
	require.Contains(t, buf.String(), "vertex 5.000000 10.000000 15.000000")
	require.NotContains(t, buf.String(), "-0.000000")
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	loc, err := FileSink{Dir: filepath.Join(dir, "out")}.Deliver(context.Background(), "s.zip", []byte("zip"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "out", "s.zip"), loc)
	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	require.Equal(t, "zip", string(data))

	// 目标是一个已存在的目录，重命名失败后不能留下临时文件
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))
	_, err = FileSink{Path: target}.Deliver(context.Background(), "ignored", []byte("zip"))
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}
