package ffmt

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// Arg is a bound argument: a value paired with the logic that renders it.
// Binding never converts; AppendText runs only when a placeholder references
// the argument.
type Arg interface {
	AppendText(dst []byte, loc Locale) ([]byte, error)
}

// ArgFunc adapts an ordinary function to Arg.
type ArgFunc func(dst []byte, loc Locale) ([]byte, error)

// AppendText calls f.
func (f ArgFunc) AppendText(dst []byte, loc Locale) ([]byte, error) { return f(dst, loc) }

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integer is the set of integer types.
type Integer interface {
	Signed | Unsigned
}

// Floating is the set of floating-point types.
type Floating interface {
	~float32 | ~float64
}

// Scalar is every type Of accepts.
type Scalar interface {
	Integer | Floating | ~string | ~bool
}

// --- Static binders ---
//
// Each constructor's type parameter is the capability check: a value that
// cannot be rendered does not compile.

type strArg string

func (a strArg) AppendText(dst []byte, _ Locale) ([]byte, error) { return append(dst, a...), nil }

// Str binds a string.
func Str[T ~string](v T) Arg { return strArg(v) }

type intArg int64

func (a intArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	return strconv.AppendInt(dst, int64(a), 10), nil
}

// Int binds a signed integer, rendered in decimal.
func Int[T Signed](v T) Arg { return intArg(v) }

type uintArg uint64

func (a uintArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	return strconv.AppendUint(dst, uint64(a), 10), nil
}

// Uint binds an unsigned integer, rendered in decimal.
func Uint[T Unsigned](v T) Arg { return uintArg(v) }

type floatArg struct {
	v    float64
	bits int
}

func (a floatArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	return strconv.AppendFloat(dst, a.v, 'g', -1, a.bits), nil
}

// Float binds a floating-point value, rendered in the shortest form that
// round-trips at the value's own precision.
func Float[T Floating](v T) Arg {
	bits := 64
	if reflect.TypeOf(v).Kind() == reflect.Float32 {
		bits = 32
	}
	return floatArg{v: float64(v), bits: bits}
}

type boolArg bool

func (a boolArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	return strconv.AppendBool(dst, bool(a)), nil
}

// Bool binds a boolean, rendered as "true" or "false".
func Bool[T ~bool](v T) Arg { return boolArg(v) }

type bytesArg []byte

func (a bytesArg) AppendText(dst []byte, _ Locale) ([]byte, error) { return append(dst, a...), nil }

// Bytes binds a byte slice holding text. The slice is read at render time.
func Bytes(b []byte) Arg { return bytesArg(b) }

type runeArg rune

func (a runeArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	return utf8.AppendRune(dst, rune(a)), nil
}

// Rune binds a single character. Use Int to render a rune's code point.
func Rune(r rune) Arg { return runeArg(r) }

type stringerArg struct{ v fmt.Stringer }

func (a stringerArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	return append(dst, a.v.String()...), nil
}

// Stringer binds any fmt.Stringer. String is called at render time.
func Stringer(v fmt.Stringer) Arg { return stringerArg{v: v} }

type textArg struct{ v encoding.TextMarshaler }

func (a textArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	b, err := a.v.MarshalText()
	if err != nil {
		return dst, &ConversionError{Directive: "text", Err: err}
	}
	return append(dst, b...), nil
}

// Text binds an encoding.TextMarshaler. A marshaling failure surfaces as a
// *ConversionError.
func Text(v encoding.TextMarshaler) Arg { return textArg{v: v} }

type errArg struct{ err error }

func (a errArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	if a.err == nil {
		return append(dst, "<nil>"...), nil
	}
	return append(dst, a.err.Error()...), nil
}

// Err binds an error, rendered through its Error method.
func Err(err error) Arg { return errArg{err: err} }

// Of binds any scalar, including named types. The kind is selected once
// here, never at render time.
func Of[T Scalar](v T) Arg {
	a, err := bindKind(v)
	if err != nil {
		// Unreachable: every kind in Scalar is handled by bindKind.
		panic(err)
	}
	return a
}
