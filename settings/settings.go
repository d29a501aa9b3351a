// Package settings 持久化控制面板的配置快照（TOML），并支持恢复默认值。
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/stampkit/export"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/stamp"
)

// Helpers 记录各个辅助对象是否可见。
type Helpers struct {
	Axes         bool `toml:"axes"`
	Grid         bool `toml:"grid"`
	LightHelper  bool `toml:"light_helper"`
	PointLight   bool `toml:"point_light"`
	AmbientLight bool `toml:"ambient_light"`
}

// Settings is the persisted configuration surface. Generated geometry is
// never stored here.
type Settings struct {
	Text       string  `toml:"text"`
	Depth      float64 `toml:"depth"`
	Font       string  `toml:"font"`
	Gutter     float64 `toml:"gutter"`
	AutoRotate bool    `toml:"auto_rotate"`

	MarginPolicy  string `toml:"margin_policy"`
	MissingPolicy string `toml:"missing_policy"`
	ExportPolicy  string `toml:"export_policy"`

	Helpers Helpers `toml:"helpers"`
}

// Defaults returns the out-of-the-box configuration.
func Defaults() Settings {
	return Settings{
		Text:          "ABCDE",
		Depth:         stamp.DefaultParams().Depth,
		Font:          "builtin:go-regular",
		Gutter:        0.2,
		MarginPolicy:  "trailing",
		MissingPolicy: "blank",
		ExportPolicy:  "fail-fast",
		Helpers: Helpers{
			Axes:         true,
			Grid:         true,
			PointLight:   true,
			AmbientLight: true,
		},
	}
}

// Validate checks the values a user can edit.
func (s Settings) Validate() error {
	if math.IsNaN(s.Depth) || s.Depth < stamp.MinDepth || s.Depth > stamp.MaxDepth {
		return fmt.Errorf("深度 %g 超出范围 [%g, %g]", s.Depth, stamp.MinDepth, stamp.MaxDepth)
	}
	if math.IsNaN(s.Gutter) || math.IsInf(s.Gutter, 0) || s.Gutter < 0 {
		return fmt.Errorf("间距无效: %g", s.Gutter)
	}
	if _, err := layout.ParseMarginPolicy(s.MarginPolicy); err != nil {
		return fmt.Errorf("margin_policy: %w", err)
	}
	if _, err := stamp.ParseMissingPolicy(s.MissingPolicy); err != nil {
		return fmt.Errorf("missing_policy: %w", err)
	}
	if _, err := export.ParsePolicy(s.ExportPolicy); err != nil {
		return fmt.Errorf("export_policy: %w", err)
	}
	return nil
}

// Store reads and writes one settings file. An empty path keeps everything
// in memory only.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store writes to.
func (s *Store) Path() string { return s.path }

// Load starts from Defaults and overlays the file. A missing file is not an
// error.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := Defaults()
	if s.path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("读取配置 %s 失败: %w", s.path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("解析配置 %s 失败: %w", s.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("配置 %s 无效: %w", s.path, err)
	}
	return cfg, nil
}

// Save writes cfg to the file.
func (s *Store) Save(cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("编码配置失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Reset removes the file and returns Defaults.
func (s *Store) Reset() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Defaults(), fmt.Errorf("删除配置 %s 失败: %w", s.path, err)
		}
	}
	return Defaults(), nil
}
