package ffmt

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/microcosm-cc/bluemonday"
)

// Policy transforms the rendered text of a value. Implement it to add a
// directive; the renderer never needs to know about it.
type Policy interface {
	Apply(text string, loc Locale) (string, error)
}

// PolicyFunc adapts an ordinary function to Policy.
type PolicyFunc func(text string, loc Locale) (string, error)

// Apply calls f.
func (f PolicyFunc) Apply(text string, loc Locale) (string, error) { return f(text, loc) }

// Directive is a value plus the policies that shape its text. Policies form a
// flat list applied innermost first: wrapping a Directive appends to its list
// rather than nesting, so Pad(Fold(v, ...), ...) folds and then pads.
//
// A Directive is itself an Arg. The zero Directive renders nothing.
type Directive struct {
	base     Arg
	policies []Policy
}

// Identity returns a Directive that renders arg unchanged.
func Identity(arg Arg) Directive {
	if d, ok := arg.(Directive); ok {
		return d
	}
	return Directive{base: arg}
}

// With appends policies to arg's composition list.
func With(arg Arg, policies ...Policy) Directive {
	d := Identity(arg)
	out := make([]Policy, 0, len(d.policies)+len(policies))
	out = append(out, d.policies...)
	out = append(out, policies...)
	return Directive{base: d.base, policies: out}
}

// Then returns a copy of d with p applied after its existing policies.
func (d Directive) Then(p Policy) Directive { return With(d, p) }

// Policies returns the composition list in application order.
func (d Directive) Policies() []Policy {
	out := make([]Policy, len(d.policies))
	copy(out, d.policies)
	return out
}

// AppendText renders the base value and runs each policy over the result.
func (d Directive) AppendText(dst []byte, loc Locale) ([]byte, error) {
	if d.base == nil {
		return dst, nil
	}
	if len(d.policies) == 0 {
		return d.base.AppendText(dst, loc)
	}
	b, err := d.base.AppendText(nil, loc)
	if err != nil {
		return dst, err
	}
	text := string(b)
	for _, p := range d.policies {
		text, err = p.Apply(text, loc)
		if err != nil {
			return dst, asConversionError(p, err)
		}
	}
	return append(dst, text...), nil
}

func asConversionError(p Policy, err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	name := fmt.Sprintf("%T", p)
	if s, ok := p.(fmt.Stringer); ok {
		name = s.String()
	}
	return &ConversionError{Directive: name, Err: err}
}

// --- Case folding ---

// FoldPolicy maps letter case through the render's Locale.
type FoldPolicy struct {
	Mode FoldMode
}

func (p FoldPolicy) Apply(text string, loc Locale) (string, error) {
	return foldString(text, p.Mode, loc), nil
}

func (p FoldPolicy) String() string { return "fold(" + p.Mode.String() + ")" }

// Fold maps arg's text to the given case.
func Fold(arg Arg, mode FoldMode) Directive { return With(arg, FoldPolicy{Mode: mode}) }

// Lower is Fold with FoldLower.
func Lower(arg Arg) Directive { return Fold(arg, FoldLower) }

// Upper is Fold with FoldUpper.
func Upper(arg Arg) Directive { return Fold(arg, FoldUpper) }

// --- Padding ---

// PadPolicy pads text to Width display columns with Fill. Text already at
// least Width columns wide is left alone. A zero Fill pads with spaces.
type PadPolicy struct {
	Width int
	Fill  rune
	Align Alignment
}

func (p PadPolicy) Apply(text string, _ Locale) (string, error) {
	if p.Width < 0 {
		return "", fmt.Errorf("negative width %d", p.Width)
	}
	fill := p.Fill
	if fill == 0 {
		fill = ' '
	}
	fw := runewidth.RuneWidth(fill)
	if fw <= 0 {
		return "", fmt.Errorf("fill %q has no display width", fill)
	}
	return alignCell(text, p.Width, p.Align, fill, fw), nil
}

func (p PadPolicy) String() string { return "pad" }

// Pad pads arg's text to width display columns.
func Pad(arg Arg, width int, fill rune, align Alignment) Directive {
	return With(arg, PadPolicy{Width: width, Fill: fill, Align: align})
}

// alignCell pads s to width columns. Columns a wide fill rune cannot cover
// exactly are made up with spaces on the outside edge.
func alignCell(s string, width int, align Alignment, fill rune, fw int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	run := func(cols int) string {
		return strings.Repeat(string(fill), cols/fw) + strings.Repeat(" ", cols%fw)
	}
	switch align {
	case AlignRight:
		return run(pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return run(left) + s + run(right)
	default:
		return s + run(pad)
	}
}

// --- Truncation ---

// TruncatePolicy cuts text to Width display columns, ending with Tail when
// anything was removed.
type TruncatePolicy struct {
	Width int
	Tail  string
}

func (p TruncatePolicy) Apply(text string, _ Locale) (string, error) {
	if p.Width < 0 {
		return "", fmt.Errorf("negative width %d", p.Width)
	}
	return runewidth.Truncate(text, p.Width, p.Tail), nil
}

func (p TruncatePolicy) String() string { return "truncate" }

// Truncate cuts arg's text to width display columns with a "..." tail.
func Truncate(arg Arg, width int) Directive {
	return With(arg, TruncatePolicy{Width: width, Tail: "..."})
}

// --- Markup ---

// EscapePolicy escapes <, >, &, ' and " for safe inclusion in HTML.
type EscapePolicy struct{}

func (EscapePolicy) Apply(text string, _ Locale) (string, error) {
	return html.EscapeString(text), nil
}

func (EscapePolicy) String() string { return "escape" }

// EscapeHTML escapes arg's text for HTML.
func EscapeHTML(arg Arg) Directive { return With(arg, EscapePolicy{}) }

var strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// StripPolicy removes all HTML markup, keeping the text content.
type StripPolicy struct{}

func (StripPolicy) Apply(text string, _ Locale) (string, error) {
	return strictPolicy().Sanitize(text), nil
}

func (StripPolicy) String() string { return "strip" }

// StripTags removes HTML markup from arg's text.
func StripTags(arg Arg) Directive { return With(arg, StripPolicy{}) }

// --- Custom ---

type customPolicy struct {
	name string
	fn   func(string) (string, error)
}

func (p customPolicy) Apply(text string, _ Locale) (string, error) { return p.fn(text) }

func (p customPolicy) String() string { return p.name }

// Custom applies fn to arg's text. Errors from fn are reported as a
// *ConversionError naming the directive.
func Custom(arg Arg, name string, fn func(string) (string, error)) Directive {
	return With(arg, customPolicy{name: name, fn: fn})
}
