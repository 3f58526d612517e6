package ffmt

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

const (
	MinBase = 2
	MaxBase = 36
)

// integer holds any integer without losing range: negative values in i,
// everything else in u.
type integer struct {
	neg bool
	i   int64
	u   uint64
}

func toInteger[T Integer](v T) integer {
	if v < 0 {
		return integer{neg: true, i: int64(v)}
	}
	return integer{u: uint64(v)}
}

func checkBase(directive string, base int) error {
	if base < MinBase || base > MaxBase {
		return convErr(directive, "base %d outside [%d, %d]", base, MinBase, MaxBase)
	}
	return nil
}

type radixArg struct {
	v        integer
	base     int
	unsigned bool
}

func (a radixArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	name := a.name()
	if err := checkBase(name, a.base); err != nil {
		return dst, err
	}
	if !a.v.neg {
		return strconv.AppendUint(dst, a.v.u, a.base), nil
	}
	if a.unsigned {
		if _, err := safecast.Conv[uint64](a.v.i); err != nil {
			return dst, &ConversionError{Directive: name, Err: err}
		}
	}
	return strconv.AppendInt(dst, a.v.i, a.base), nil
}

func (a radixArg) name() string {
	if a.unsigned {
		return fmt.Sprintf("unsigned radix(%d)", a.base)
	}
	return fmt.Sprintf("radix(%d)", a.base)
}

// Radix renders v in base, 2 through 36, using the digits 0-9a-z.
// Negative values get a leading '-'.
func Radix[T Integer](v T, base int) Directive {
	return Identity(radixArg{v: toInteger(v), base: base})
}

// UnsignedRadix is Radix restricted to non-negative values; a negative v
// fails at render time with a *ConversionError.
func UnsignedRadix[T Integer](v T, base int) Directive {
	return Identity(radixArg{v: toInteger(v), base: base, unsigned: true})
}

// Hex is Radix with base 16.
func Hex[T Integer](v T) Directive { return Radix(v, 16) }

// Binary is Radix with base 2.
func Binary[T Integer](v T) Directive { return Radix(v, 2) }

type precisionArg struct {
	v      float64
	digits int
	bits   int
}

func (a precisionArg) AppendText(dst []byte, _ Locale) ([]byte, error) {
	if a.digits < 0 {
		return dst, convErr("precision", "negative digit count %d", a.digits)
	}
	return strconv.AppendFloat(dst, a.v, 'f', a.digits, a.bits), nil
}

// Precision renders v in fixed-point notation with digits after the
// decimal point.
func Precision[T Floating](v T, digits int) Directive {
	f := Float(v).(floatArg)
	return Identity(precisionArg{v: f.v, digits: digits, bits: f.bits})
}

type groupedArg struct {
	v integer
}

func (a groupedArg) AppendText(dst []byte, loc Locale) ([]byte, error) {
	n := a.v.i
	if !a.v.neg {
		var err error
		if n, err = safecast.Conv[int64](a.v.u); err != nil {
			return dst, &ConversionError{Directive: "grouped", Err: err}
		}
	}
	return append(dst, groupInt(n, loc)...), nil
}

// Grouped renders v in decimal with the Locale's digit grouping
// ("1,234,567" in English, "1.234.567" in German). Locales without a
// NumberGrouper, ASCII included, render plain digits.
func Grouped[T Integer](v T) Directive {
	return Identity(groupedArg{v: toInteger(v)})
}
