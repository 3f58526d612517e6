package ffmt

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMalformedFormat         = errors.New("malformed format string")
	ErrArgumentIndexOutOfRange = errors.New("argument index out of range")
	ErrUnsupportedArgumentType = errors.New("unsupported argument type")
	ErrConversion              = errors.New("conversion failed")
	ErrSinkWrite               = errors.New("sink write failed")
	ErrUnsupportedEncoding     = errors.New("unsupported encoding")
)

// ParseError reports a malformed format string. Offset is the byte offset of
// the offending marker.
type ParseError struct {
	Format string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d in %q", ErrMalformedFormat, e.Reason, e.Offset, e.Format)
}

func (e *ParseError) Unwrap() error { return ErrMalformedFormat }

// IndexError reports a placeholder that references a missing argument.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d, %d arguments", ErrArgumentIndexOutOfRange, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrArgumentIndexOutOfRange }

// UnsupportedTypeError reports a value with no renderable capability.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnsupportedArgumentType, e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedArgumentType }

// ConversionError reports a directive that failed on its input.
type ConversionError struct {
	Directive string
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConversion, e.Directive, e.Err)
}

func (e *ConversionError) Unwrap() []error { return []error{ErrConversion, e.Err} }

// SinkError wraps an error returned by a Sink.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSinkWrite, e.Err)
}

func (e *SinkError) Unwrap() []error { return []error{ErrSinkWrite, e.Err} }

func convErr(directive string, format string, args ...any) error {
	return &ConversionError{Directive: directive, Err: fmt.Errorf(format, args...)}
}

// Alignment controls where padding goes.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Encoding selects how a RecordSink serializes finished records.
type Encoding string

const (
	JSON    Encoding = "json"
	JSONL   Encoding = "jsonl"
	YAML    Encoding = "yaml"
	MsgPack Encoding = "msgpack"
)

var encodings = []Encoding{JSON, JSONL, YAML, MsgPack}

// String returns the encoding name.
func (e Encoding) String() string { return string(e) }

// Encodings returns all supported record encodings.
func Encodings() []Encoding {
	out := make([]Encoding, len(encodings))
	copy(out, encodings)
	return out
}

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	for _, e := range encodings {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s)
}
