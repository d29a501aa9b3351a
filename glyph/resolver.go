// Package glyph 把字符解析为平面轮廓（闭合折线，y 轴向上，基线 y=0）。
package glyph

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/stampkit/fonts"
	"github.com/ByLCY/stampkit/mesh"
)

// ErrMissingGlyph is returned when the font has no outline for a rune.
var ErrMissingGlyph = errors.New("glyph: missing glyph")

// Placeholder is the height given to outlines that have no geometry.
const Placeholder = 1e-3

// minArea drops slivers left over after flattening.
const minArea = 1e-9

// Options configures a Resolver.
type Options struct {
	Size          float64 // type size in scene units per em
	CurveSegments int     // straight pieces per curve
}

// DefaultOptions matches a one unit type size.
func DefaultOptions() Options {
	return Options{Size: 1, CurveSegments: 12}
}

// Outline is the flattened outline of a single rune.
type Outline struct {
	Rune       rune
	Contours   []mesh.Contour
	Bounds     mesh.Rect
	Advance    float64
	Whitespace bool
	Missing    bool
}

// Empty reports whether o has nothing to extrude.
func (o Outline) Empty() bool { return len(o.Contours) == 0 }

type cached struct {
	outline Outline
	err     error
}

// Resolver resolves runes against one font. It is safe for concurrent use.
type Resolver struct {
	font *fonts.Font
	opts Options

	mu    sync.Mutex
	cache map[rune]cached
}

// NewResolver creates a Resolver for f.
func NewResolver(f *fonts.Font, opts Options) *Resolver {
	def := DefaultOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.CurveSegments <= 0 {
		opts.CurveSegments = def.CurveSegments
	}
	return &Resolver{font: f, opts: opts, cache: map[rune]cached{}}
}

// Font returns the font the resolver reads from.
func (r *Resolver) Font() *fonts.Font { return r.font }

// Descender is the distance below the baseline, scaled to the type size.
func (r *Resolver) Descender() float64 { return r.font.Descent * r.opts.Size }

// Ascender is the distance above the baseline, scaled to the type size.
func (r *Resolver) Ascender() float64 { return r.font.Ascent * r.opts.Size }

// Resolve returns the outline of ch. For a missing glyph the returned outline
// is still usable as a blank placeholder and the error wraps ErrMissingGlyph.
func (r *Resolver) Resolve(ch rune) (Outline, error) {
	r.mu.Lock()
	if c, ok := r.cache[ch]; ok {
		r.mu.Unlock()
		return c.outline, c.err
	}
	r.mu.Unlock()

	o, err := r.resolve(ch)

	r.mu.Lock()
	r.cache[ch] = cached{outline: o, err: err}
	r.mu.Unlock()
	return o, err
}

func (r *Resolver) resolve(ch rune) (Outline, error) {
	if unicode.IsSpace(ch) {
		return r.placeholder(ch, r.font.SpaceAdvance*r.opts.Size, false), nil
	}

	var buf sfnt.Buffer
	sf := r.font.SFNT
	ppem := r.font.PPEM()
	idx, err := sf.GlyphIndex(&buf, ch)
	if err != nil {
		return Outline{}, fmt.Errorf("glyph %q: %w", ch, err)
	}
	if idx == 0 {
		return r.placeholder(ch, r.advance(&buf, 0), true), fmt.Errorf("%w: %q", ErrMissingGlyph, ch)
	}
	adv := r.advance(&buf, idx)

	segs, err := sf.LoadGlyph(&buf, idx, ppem, nil)
	if err != nil {
		return Outline{}, fmt.Errorf("glyph %q: %w", ch, err)
	}
	fl := flattener{scale: r.opts.Size / 64 / r.font.UnitsPerEm, segments: r.opts.CurveSegments}
	var contours []mesh.Contour
	bounds := mesh.EmptyRect()
	for _, c := range fl.run(segs) {
		c = c.Clean(minArea)
		if c == nil || math.Abs(c.SignedArea()) < minArea {
			continue
		}
		for _, p := range c {
			bounds.ExpandByPoint(p)
		}
		contours = append(contours, c)
	}
	if len(contours) == 0 {
		// 非空白字符却没有轮廓，按缺字处理
		return r.placeholder(ch, adv, true), fmt.Errorf("%w: %q has no outline", ErrMissingGlyph, ch)
	}
	return Outline{Rune: ch, Contours: contours, Bounds: bounds, Advance: adv}, nil
}

func (r *Resolver) advance(buf *sfnt.Buffer, idx sfnt.GlyphIndex) float64 {
	adv, err := r.font.SFNT.GlyphAdvance(buf, idx, r.font.PPEM(), font.HintingNone)
	if err != nil || adv <= 0 {
		return r.font.SpaceAdvance * r.opts.Size
	}
	return r.font.FromUnits(adv) * r.opts.Size
}

func (r *Resolver) placeholder(ch rune, advance float64, missing bool) Outline {
	return Outline{
		Rune:       ch,
		Bounds:     mesh.Rect{Max: mesh.V2(advance, Placeholder)},
		Advance:    advance,
		Whitespace: !missing,
		Missing:    missing,
	}
}

// Normalize returns s in Unicode normalisation form C, so that a base letter
// followed by a combining mark resolves to one precomposed glyph.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
