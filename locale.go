package ffmt

import (
	"strconv"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FoldMode selects a case mapping.
type FoldMode int

const (
	FoldLower FoldMode = iota
	FoldUpper
	// FoldCase maps to a caseless form suitable for comparison.
	FoldCase
)

func (m FoldMode) String() string {
	switch m {
	case FoldUpper:
		return "upper"
	case FoldCase:
		return "fold"
	default:
		return "lower"
	}
}

// Locale is the collaborator that supplies case mappings for alphabetic
// ranges beyond ASCII.
type Locale interface {
	CaseFold(r rune, mode FoldMode) rune
}

// --- Optional Locale Interfaces ---

// StringFolder maps whole strings. Implement it when a mapping can change
// the number of runes (German ß uppercases to SS). Without it, folding is
// applied rune by rune through CaseFold.
type StringFolder interface {
	FoldString(s string, mode FoldMode) string
}

// NumberGrouper renders integers with locale digit grouping.
// Without it, Grouped renders plain decimal digits.
type NumberGrouper interface {
	GroupInt(v int64) string
}

// ASCII is the fallback Locale. It folds A-Z and a-z only and leaves every
// other rune untouched.
var ASCII Locale = asciiLocale{}

type asciiLocale struct{}

func (asciiLocale) CaseFold(r rune, mode FoldMode) rune {
	switch mode {
	case FoldUpper:
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
	default:
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
	}
	return r
}

func (asciiLocale) String() string { return "ascii" }

// TextLocale implements Locale, StringFolder and NumberGrouper on top of
// golang.org/x/text for a single language tag.
type TextLocale struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocale returns a Locale for tag.
func NewLocale(tag language.Tag) *TextLocale {
	return &TextLocale{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// ParseLocale parses a BCP 47 tag such as "tr" or "de-CH".
func ParseLocale(s string) (*TextLocale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return nil, err
	}
	return NewLocale(tag), nil
}

// Tag returns the language tag.
func (l *TextLocale) Tag() language.Tag { return l.tag }

func (l *TextLocale) String() string { return l.tag.String() }

// CaseFold maps a single rune. Mappings that expand to several runes leave
// r unchanged; use FoldString for those.
func (l *TextLocale) CaseFold(r rune, mode FoldMode) rune {
	out := l.FoldString(string(r), mode)
	m, size := utf8.DecodeRuneInString(out)
	if size != len(out) {
		return r
	}
	return m
}

// FoldString maps s under the locale's casing rules. Casers are stateful and
// must not be shared between goroutines, so each call builds its own.
func (l *TextLocale) FoldString(s string, mode FoldMode) string {
	var c cases.Caser
	switch mode {
	case FoldUpper:
		c = cases.Upper(l.tag)
	case FoldCase:
		c = cases.Fold()
	default:
		c = cases.Lower(l.tag)
	}
	return c.String(s)
}

// GroupInt renders v with the locale's thousands separator.
func (l *TextLocale) GroupInt(v int64) string {
	return l.printer.Sprintf("%d", v)
}

var defaultLocale atomic.Pointer[localeHolder]

type localeHolder struct{ loc Locale }

// DefaultLocale returns the process-wide Locale, or nil when none was set.
// It is consulted only when a Formatter is built without WithLocale.
func DefaultLocale() Locale {
	if h := defaultLocale.Load(); h != nil {
		return h.loc
	}
	return nil
}

// SetDefaultLocale replaces the process-wide Locale. Pass nil to clear it.
func SetDefaultLocale(loc Locale) {
	defaultLocale.Store(&localeHolder{loc: loc})
}

func foldString(s string, mode FoldMode, loc Locale) string {
	if sf, ok := loc.(StringFolder); ok {
		return sf.FoldString(s, mode)
	}
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = utf8.AppendRune(buf, loc.CaseFold(r, mode))
	}
	return string(buf)
}

func groupInt(v int64, loc Locale) string {
	if g, ok := loc.(NumberGrouper); ok {
		return g.GroupInt(v)
	}
	return strconv.FormatInt(v, 10)
}
