package fonts

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed outline font. Metrics are in em units (1 = one em), with
// Descent positive below the baseline. A Font is immutable; concurrent users
// must each bring their own sfnt.Buffer.
type Font struct {
	Name string
	SFNT *sfnt.Font

	UnitsPerEm   float64
	Ascent       float64
	Descent      float64
	SpaceAdvance float64
}

// Parse 解析 TrueType/OpenType 字体数据。
func Parse(name string, data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	f := &Font{Name: name, SFNT: sf, UnitsPerEm: float64(sf.UnitsPerEm())}
	if f.UnitsPerEm <= 0 {
		return nil, fmt.Errorf("字体 %s 的 unitsPerEm 无效", name)
	}

	var buf sfnt.Buffer
	m, err := sf.Metrics(&buf, f.PPEM(), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 度量失败: %w", name, err)
	}
	f.Ascent = f.FromUnits(m.Ascent)
	f.Descent = f.FromUnits(m.Descent)
	if f.Descent < 0 {
		f.Descent = -f.Descent
	}

	if idx, err := sf.GlyphIndex(&buf, ' '); err == nil && idx != 0 {
		if adv, err := sf.GlyphAdvance(&buf, idx, f.PPEM(), font.HintingNone); err == nil {
			f.SpaceAdvance = f.FromUnits(adv)
		}
	}
	if f.SpaceAdvance == 0 {
		f.SpaceAdvance = 0.25
	}
	return f, nil
}

// PPEM is the size at which outlines come back in font units, so that
// FromUnits maps them to ems without hinting or rounding.
func (f *Font) PPEM() fixed.Int26_6 {
	return fixed.I(int(f.UnitsPerEm))
}

// FromUnits converts a 26.6 value loaded at PPEM into ems.
func (f *Font) FromUnits(v fixed.Int26_6) float64 {
	return float64(v) / 64 / f.UnitsPerEm
}
