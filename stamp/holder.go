package stamp

import (
	"math"

	"github.com/ByLCY/stampkit/glyph"
)

// Holder is the mount geometry shared by every letter of one pass.
type Holder struct {
	Height    float64 `json:"height"`
	Descender float64 `json:"descender"`
	Bottom    float64 `json:"bottom"` // local y of the quad's lower edge
}

// NewHolder computes the holder from the whole string:
// max(text height, tallest glyph) + padding + descender.
func NewHolder(outlines []glyph.Outline, descender float64, p Params) Holder {
	tallest := 0.0
	for _, o := range outlines {
		if o.Empty() {
			continue
		}
		tallest = math.Max(tallest, o.Bounds.Max.Y)
	}
	return Holder{
		Height:    math.Max(p.TextHeight, tallest) + p.Padding + descender,
		Descender: descender,
		Bottom:    -(descender + p.Padding/2),
	}
}

// CenterY is the local y of the holder's vertical centre.
func (h Holder) CenterY() float64 { return h.Bottom + h.Height/2 }
