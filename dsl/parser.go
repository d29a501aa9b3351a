// Package dsl 解析控制脚本：每行一条命令，编译为 scene 事件。
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)(?:mm|cm|in|pt|u)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `;`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
	)
)

// Script is the root AST node: commands separated by newlines or ';'.
type Script struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Commands []*Command     `parser:"( Newline | ';' )* ( @@ ( Newline | ';' )* )*"`
}

// Command is one control command. Exactly one field is set.
type Command struct {
	Pos lexer.Position `parser:"" json:"-"`

	Text       *StringLiteral `parser:"  'text' @String"`
	Depth      *string        `parser:"| 'depth' @Number"`
	Gutter     *string        `parser:"| 'gutter' @Number"`
	Font       *StringLiteral `parser:"| 'font' @String"`
	Show       *string        `parser:"| 'show' @Ident"`
	Hide       *string        `parser:"| 'hide' @Ident"`
	AutoRotate *string        `parser:"| 'autorotate' @( 'on' | 'off' )"`
	Output     *Output        `parser:"| @@"`
	Bare       *string        `parser:"| @( 'reset' | 'wait' | 'quit' )"`
}

// Output is an export or preview request with an optional target path.
type Output struct {
	Kind string         `parser:"@( 'export' | 'preview' )"`
	Path *StringLiteral `parser:"@String?"`
}

// Name returns the command keyword.
func (c *Command) Name() string {
	switch {
	case c == nil:
		return "unknown"
	case c.Text != nil:
		return "text"
	case c.Depth != nil:
		return "depth"
	case c.Gutter != nil:
		return "gutter"
	case c.Font != nil:
		return "font"
	case c.Show != nil:
		return "show"
	case c.Hide != nil:
		return "hide"
	case c.AutoRotate != nil:
		return "autorotate"
	case c.Output != nil:
		return c.Output.Kind
	case c.Bare != nil:
		return *c.Bare
	default:
		return "unknown"
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a control script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a control script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}
