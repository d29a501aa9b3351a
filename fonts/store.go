package fonts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ByLCY/stampkit/logx"
)

// Options configures a Store.
type Options struct {
	// BaseDir resolves relative font paths. Empty means only absolute paths
	// and built-in fonts are accepted.
	BaseDir string
	// Fonts registers additional fonts reachable via builtin:<name>.
	Fonts map[string][]byte
}

// Store loads fonts by source and caches the parsed result. Sources are
// "builtin:<name>" / "embed:<name>" or a file path.
type Store struct {
	baseDir string

	mu       sync.Mutex
	blobs    map[string][]byte
	cache    map[string]*Font
	fallback *Font
}

// NewStore creates a Store.
func NewStore(opts Options) *Store {
	s := &Store{
		baseDir: opts.BaseDir,
		blobs:   map[string][]byte{},
		cache:   map[string]*Font{},
	}
	for name, data := range opts.Fonts {
		if name == "" || len(data) == 0 {
			continue
		}
		s.blobs[name] = data
	}
	return s
}

// Load returns the font for src, parsing it on first use. An empty src
// selects the default font.
func (s *Store) Load(src string) (*Font, error) {
	if src == "" {
		src = "builtin:" + DefaultName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.cache[src]; ok {
		return f, nil
	}
	data, err := s.loadBytes(src)
	if err != nil {
		return nil, err
	}
	f, err := Parse(src, data)
	if err != nil {
		return nil, err
	}
	s.cache[src] = f
	logx.Logger().Debug("font loaded", "src", src, "upem", f.UnitsPerEm)
	return f, nil
}

// LoadOrFallback behaves like Load but answers with the default font when
// src cannot be loaded. The load error is still returned for reporting.
func (s *Store) LoadOrFallback(src string) (*Font, error) {
	f, err := s.Load(src)
	if err == nil {
		return f, nil
	}
	fb, fbErr := s.Fallback()
	if fbErr != nil {
		return nil, err
	}
	return fb, err
}

// Fallback returns the default built-in font.
func (s *Store) Fallback() (*Font, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallback != nil {
		return s.fallback, nil
	}
	data, err := Builtin(DefaultName)
	if err != nil {
		return nil, err
	}
	f, err := Parse(DefaultName, data)
	if err != nil {
		return nil, err
	}
	s.fallback = f
	return f, nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Src  string
	Font *Font
	Err  error
}

// LoadAsync loads src on its own goroutine. The channel receives exactly one
// Result and is then closed; nothing is sent if ctx ends first.
func (s *Store) LoadAsync(ctx context.Context, src string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		f, err := s.Load(src)
		select {
		case out <- Result{Src: src, Font: f, Err: err}:
		case <-ctx.Done():
		}
	}()
	return out
}

func (s *Store) loadBytes(src string) ([]byte, error) {
	if isBuiltinSource(src) {
		name := trimScheme(src)
		if blob, ok := s.blobs[name]; ok {
			return blob, nil
		}
		return Builtin(name)
	}
	path := src
	if s.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}
