package ffmt

import (
	"math"
	"strconv"
	"strings"
)

const marker = '%'

// TokenKind distinguishes literal text from placeholders.
type TokenKind int

const (
	Literal TokenKind = iota
	Placeholder
)

func (k TokenKind) String() string {
	if k == Placeholder {
		return "placeholder"
	}
	return "literal"
}

// MarshalText renders the kind by name in JSON and YAML token dumps.
func (k TokenKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Token is one element of a parsed format string.
//
// For placeholders, Index is the argument the placeholder binds to. Explicit
// reports whether the index was written in the format string; Auto is the
// ordinal of an auto-index placeholder among auto-index placeholders and -1
// otherwise. Literal tokens carry their text with escapes already resolved.
type Token struct {
	Kind     TokenKind `json:"kind" yaml:"kind"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty"`
	Index    int       `json:"index" yaml:"index"`
	Explicit bool      `json:"explicit,omitempty" yaml:"explicit,omitempty"`
	Auto     int       `json:"auto" yaml:"auto"`
}

// Template is a parsed format string. It is immutable and safe for
// concurrent use.
type Template struct {
	source       string
	tokens       []Token
	placeholders int
	arity        int
}

// Parse scans format once and returns its token sequence.
//
// Grammar:
//
//	%%      literal '%'
//	%N      explicit zero-based argument index
//	%{N}    explicit index, braced
//	%{}     auto index, braced
//	%       auto index when followed by any other character
//
// A marker at the end of input, an unclosed brace, a non-numeric braced index
// and an index that does not fit in an int are reported as *ParseError. The
// trailing-marker rule applies after an auto index too: "% %" is malformed,
// write "% %{}" instead.
//
// The Nth auto-index placeholder binds to the lowest argument index that no
// earlier placeholder, explicit or automatic, has referenced.
func Parse(format string) (*Template, error) {
	p := parser{src: format, used: make(map[int]bool)}
	if err := p.run(); err != nil {
		return nil, err
	}
	return &Template{
		source:       format,
		tokens:       p.tokens,
		placeholders: p.placeholders,
		arity:        p.arity,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for format strings
// known at compile time.
func MustParse(format string) *Template {
	t, err := Parse(format)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the original format string.
func (t *Template) Source() string { return t.source }

// String returns the original format string.
func (t *Template) String() string { return t.source }

// Tokens returns a copy of the token sequence.
func (t *Template) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Placeholders returns the number of placeholder tokens.
func (t *Template) Placeholders() int { return t.placeholders }

// Arity returns the minimum argument count the template needs: one more
// than the highest referenced index.
func (t *Template) Arity() int { return t.arity }

type parser struct {
	src          string
	lit          strings.Builder
	tokens       []Token
	used         map[int]bool
	nextFree     int
	autos        int
	placeholders int
	arity        int
}

func (p *parser) run() error {
	s := p.src
	i := 0
	for i < len(s) {
		j := strings.IndexByte(s[i:], marker)
		if j < 0 {
			p.lit.WriteString(s[i:])
			break
		}
		p.lit.WriteString(s[i : i+j])
		i += j
		if i+1 == len(s) {
			return p.fail(i, "unterminated placeholder")
		}
		switch c := s[i+1]; {
		case c == marker:
			p.lit.WriteByte(marker)
			i += 2
		case isDigit(c):
			end := i + 1
			for end < len(s) && isDigit(s[end]) {
				end++
			}
			n, err := p.index(s[i+1:end], i)
			if err != nil {
				return err
			}
			p.explicit(n)
			i = end
		case c == '{':
			closing := strings.IndexByte(s[i+2:], '}')
			if closing < 0 {
				return p.fail(i, "unterminated placeholder")
			}
			body := s[i+2 : i+2+closing]
			if body == "" {
				p.auto()
			} else {
				for k := 0; k < len(body); k++ {
					if !isDigit(body[k]) {
						return p.fail(i, "non-numeric placeholder index")
					}
				}
				n, err := p.index(body, i)
				if err != nil {
					return err
				}
				p.explicit(n)
			}
			i += 2 + closing + 1
		default:
			p.auto()
			i++
		}
	}
	p.flush()
	return nil
}

func (p *parser) fail(offset int, reason string) error {
	return &ParseError{Format: p.src, Offset: offset, Reason: reason}
}

func (p *parser) index(digits string, offset int) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n == math.MaxInt {
		return 0, p.fail(offset, "placeholder index out of range")
	}
	return n, nil
}

func (p *parser) flush() {
	if p.lit.Len() == 0 {
		return
	}
	p.tokens = append(p.tokens, Token{Kind: Literal, Text: p.lit.String(), Index: -1, Auto: -1})
	p.lit.Reset()
}

func (p *parser) explicit(n int) {
	p.place(Token{Kind: Placeholder, Index: n, Explicit: true, Auto: -1})
}

func (p *parser) auto() {
	for p.used[p.nextFree] {
		p.nextFree++
	}
	p.place(Token{Kind: Placeholder, Index: p.nextFree, Auto: p.autos})
	p.autos++
}

func (p *parser) place(tok Token) {
	p.flush()
	p.used[tok.Index] = true
	p.placeholders++
	if tok.Index >= p.arity {
		p.arity = tok.Index + 1
	}
	p.tokens = append(p.tokens, tok)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
