package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/stampkit/logx"
	"github.com/ByLCY/stampkit/stamp"
)

// ErrNothingToExport is returned when the set has no letter with geometry.
var ErrNothingToExport = errors.New("export: nothing to export")

// Policy decides how a failing letter affects the export.
type Policy int

const (
	// FailFast aborts the whole export on the first failing letter.
	FailFast Policy = iota
	// BestEffort leaves failing letters out and reports them in Result.
	BestEffort
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "fail-fast"
}

// ParsePolicy accepts "fail-fast" or "best-effort".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "fail-fast":
		return FailFast, nil
	case "best-effort":
		return BestEffort, nil
	}
	return FailFast, fmt.Errorf("未知的导出策略 %q", s)
}

// Options configures an Exporter.
type Options struct {
	ArchiveName string  // 默认 stamps.zip
	MMPerUnit   float64 // 一个场景单位对应的毫米数，默认 10
	Policy      Policy
	Workers     int // 并发序列化的字母数，默认 GOMAXPROCS
}

// Failure records a letter left out under BestEffort.
type Failure struct {
	Index int
	Rune  rune
	Err   error
}

// Result describes a finished export.
type Result struct {
	Location string
	Files    []string
	Failed   []Failure
	Bytes    int
}

// Exporter serialises stamp sets and hands the archive to its Sink.
type Exporter struct {
	sink Sink
	opts Options
}

// New returns an Exporter delivering to sink.
func New(sink Sink, opts Options) *Exporter {
	if opts.ArchiveName == "" {
		opts.ArchiveName = "stamps.zip"
	}
	if opts.MMPerUnit <= 0 {
		opts.MMPerUnit = 10
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Exporter{sink: sink, opts: opts}
}

// WithSink returns a copy of e that delivers to sink.
func (e *Exporter) WithSink(sink Sink) *Exporter {
	c := *e
	c.sink = sink
	return &c
}

// WithPolicy returns a copy of e using policy p.
func (e *Exporter) WithPolicy(p Policy) *Exporter {
	c := *e
	c.opts.Policy = p
	return &c
}

// Export writes one STL per letter in world coordinates, zips them in string
// order and delivers the archive. Letters without geometry are not exported;
// a set without any returns ErrNothingToExport and the sink is not called.
func (e *Exporter) Export(ctx context.Context, set *stamp.Set) (Result, error) {
	letters := set.Solids()
	if len(letters) == 0 {
		return Result{}, ErrNothingToExport
	}
	names := FileNames(letters)
	files := make([]*File, len(letters))

	var (
		mu     sync.Mutex
		failed []Failure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, l := range letters {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			stem := names[i][:len(names[i])-len(Ext)]
			if err := WriteSTL(&buf, stem, l.WorldMesh(), e.opts.MMPerUnit); err != nil {
				err = fmt.Errorf("字母 %q（第 %d 个）序列化失败: %w", l.Rune, l.Index+1, err)
				if e.opts.Policy == BestEffort {
					mu.Lock()
					failed = append(failed, Failure{Index: l.Index, Rune: l.Rune, Err: err})
					mu.Unlock()
					return nil
				}
				return err
			}
			files[i] = &File{Name: names[i], Data: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	sort.Slice(failed, func(a, b int) bool { return failed[a].Index < failed[b].Index })
	res := Result{Failed: failed}
	var entries []File
	for _, f := range files {
		if f == nil {
			continue
		}
		entries = append(entries, *f)
		res.Files = append(res.Files, f.Name)
	}
	if len(entries) == 0 {
		errs := make([]error, 0, len(failed))
		for _, f := range failed {
			errs = append(errs, f.Err)
		}
		return res, fmt.Errorf("所有字母都导出失败: %w", errors.Join(errs...))
	}
	for _, f := range failed {
		logx.Logger().Warn("letter skipped", "index", f.Index, "rune", string(f.Rune), "err", f.Err)
	}

	data, err := Zip(entries)
	if err != nil {
		return res, err
	}
	loc, err := e.sink.Deliver(ctx, e.opts.ArchiveName, data)
	if err != nil {
		return res, fmt.Errorf("交付压缩包失败: %w", err)
	}
	res.Location = loc
	res.Bytes = len(data)
	logx.Logger().Info("exported", "location", loc, "files", len(entries), "bytes", len(data))
	return res, nil
}
