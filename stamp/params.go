// Package stamp 把字形轮廓组装成 T 形槽印章字块：字身、安装方块与背板。
package stamp

import (
	"errors"
	"fmt"
	"math"
)

// 深度的可调范围（场景单位）。
const (
	MinDepth = 0.05
	MaxDepth = 5.0
)

// Params holds the dimensions shared by every letter of one pass.
type Params struct {
	TextHeight   float64 `toml:"text_height" json:"textHeight"`
	Depth        float64 `toml:"depth" json:"depth"`
	QuadRatio    float64 `toml:"quad_ratio" json:"quadRatio"`
	Padding      float64 `toml:"padding" json:"padding"`
	Notch        float64 `toml:"notch" json:"notch"`
	BackingDepth float64 `toml:"backing_depth" json:"backingDepth"`
	Overlap      float64 `toml:"overlap" json:"overlap"`
}

// DefaultParams returns the stock T-slot dimensions.
func DefaultParams() Params {
	return Params{
		TextHeight:   1,
		Depth:        0.5,
		QuadRatio:    0.5,
		Padding:      0.25,
		Notch:        0.3,
		BackingDepth: 0.15,
		Overlap:      0.01,
	}
}

// QuadDepth is the thickness of the mount quad.
func (p Params) QuadDepth() float64 { return p.Depth * p.QuadRatio }

// Validate 检查参数是否可以生成实体。
func (p Params) Validate() error {
	var errs []error
	if p.TextHeight <= 0 {
		errs = append(errs, fmt.Errorf("text height must be positive, got %g", p.TextHeight))
	}
	if math.IsNaN(p.Depth) || p.Depth < MinDepth || p.Depth > MaxDepth {
		errs = append(errs, fmt.Errorf("depth %g out of range [%g, %g]", p.Depth, MinDepth, MaxDepth))
	}
	if p.QuadRatio <= 0 || p.QuadRatio >= 1 {
		errs = append(errs, fmt.Errorf("quad ratio must be in (0, 1), got %g", p.QuadRatio))
	}
	if p.Padding < 0 || p.Notch < 0 {
		errs = append(errs, errors.New("padding and notch must not be negative"))
	}
	if p.BackingDepth <= 0 {
		errs = append(errs, fmt.Errorf("backing depth must be positive, got %g", p.BackingDepth))
	}
	if p.Overlap < 0 || p.Overlap >= p.QuadDepth() {
		errs = append(errs, fmt.Errorf("overlap %g must be in [0, quad depth)", p.Overlap))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid stamp params: %w", errors.Join(errs...))
	}
	return nil
}
