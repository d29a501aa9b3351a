package stamp

import (
	"errors"
	"fmt"

	"github.com/ByLCY/stampkit/glyph"
	"github.com/ByLCY/stampkit/logx"
)

// MissingPolicy decides what happens to runes the font cannot draw.
type MissingPolicy int

const (
	// MissingBlank keeps a letter with quad and backing but no body.
	MissingBlank MissingPolicy = iota
	// MissingSkip drops the rune from the set.
	MissingSkip
)

func (p MissingPolicy) String() string {
	switch p {
	case MissingSkip:
		return "skip"
	default:
		return "blank"
	}
}

// ParseMissingPolicy accepts "blank" or "skip".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "", "blank":
		return MissingBlank, nil
	case "skip":
		return MissingSkip, nil
	}
	return MissingBlank, fmt.Errorf("未知的缺字策略 %q", s)
}

// Resolver supplies glyph outlines and the font's descender.
type Resolver interface {
	Resolve(r rune) (glyph.Outline, error)
	Descender() float64
}

// Set is the ordered collection of letters built from one string.
type Set struct {
	Generation uint64
	Text       string
	Params     Params
	Holder     Holder
	Letters    []*Letter
	Missing    []rune
}

// Len returns the number of letters, including placeholders.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Letters)
}

// Solids returns the letters that carry geometry.
func (s *Set) Solids() []*Letter {
	if s == nil {
		return nil
	}
	var out []*Letter
	for _, l := range s.Letters {
		if !l.Placeholder() {
			out = append(out, l)
		}
	}
	return out
}

// Lookup finds a letter by its layout id.
func (s *Set) Lookup(id string) (*Letter, bool) {
	if s == nil {
		return nil, false
	}
	for _, l := range s.Letters {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// LetterID formats the id of the letter at index in the given generation.
func LetterID(generation uint64, index int) string {
	return fmt.Sprintf("letter-%d-%d", generation, index)
}

// BuildSet resolves every rune of text, computes the shared holder and builds
// each letter. The text is NFC-normalised first.
func BuildSet(generation uint64, text string, res Resolver, p Params, policy MissingPolicy) (*Set, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	text = glyph.Normalize(text)
	set := &Set{Generation: generation, Text: text, Params: p}

	type item struct {
		index   int
		outline glyph.Outline
	}
	var items []item
	var outlines []glyph.Outline
	for i, r := range []rune(text) {
		o, err := res.Resolve(r)
		if err != nil {
			if !errors.Is(err, glyph.ErrMissingGlyph) {
				return nil, fmt.Errorf("解析字符 %q 失败: %w", r, err)
			}
			set.Missing = append(set.Missing, r)
			logx.Logger().Warn("missing glyph", "rune", string(r), "policy", policy.String())
			if policy == MissingSkip {
				continue
			}
		}
		items = append(items, item{index: i, outline: o})
		outlines = append(outlines, o)
	}

	// 字块高度必须在构建任何字母之前由整串文字得出
	set.Holder = NewHolder(outlines, res.Descender(), p)

	set.Letters = make([]*Letter, 0, len(items))
	for _, it := range items {
		l, err := Build(it.outline, set.Holder, p)
		if err != nil {
			return nil, err
		}
		l.Index = it.index
		l.ID = LetterID(generation, it.index)
		set.Letters = append(set.Letters, l)
	}
	return set, nil
}
