package ffmt

import (
	"errors"
	"fmt"
	"iter"
)

// Execute renders t with args into sink using loc for locale-sensitive
// directives. A nil loc means ASCII and is not reported; build a Formatter
// to have a missing locale logged and exposed through LocaleFallback.
//
// Tokens are processed in order and written as they are rendered. When a
// placeholder fails, output for earlier tokens stays in the sink and Finish is
// not called. Errors are *IndexError, *ConversionError, *UnsupportedTypeError
// or *SinkError.
func (t *Template) Execute(sink Sink, loc Locale, args ...Arg) error {
	return t.render(sink, loc, args, false)
}

// Executeln is Execute with a trailing newline written before Finish.
func (t *Template) Executeln(sink Sink, loc Locale, args ...Arg) error {
	return t.render(sink, loc, args, true)
}

func (t *Template) render(sink Sink, loc Locale, args []Arg, newline bool) error {
	if loc == nil {
		loc = ASCII
	}
	if err := t.execute(sink, loc, args, nil); err != nil {
		return err
	}
	if newline {
		if err := write(sink, "\n"); err != nil {
			return err
		}
	}
	return finish(sink)
}

// ExecuteEach renders t once per argument list from seq, each followed by a
// newline, and finishes sink once at the end. The first failure stops the
// sequence and is reported with the zero-based item number.
func (t *Template) ExecuteEach(sink Sink, loc Locale, seq iter.Seq[[]Arg]) error {
	if loc == nil {
		loc = ASCII
	}
	var buf []byte
	var err error
	n := 0
	seq(func(args []Arg) bool {
		if err = t.execute(sink, loc, args, &buf); err != nil {
			err = fmt.Errorf("item %d: %w", n, err)
			return false
		}
		if err = write(sink, "\n"); err != nil {
			return false
		}
		n++
		return true
	})
	if err != nil {
		return err
	}
	return finish(sink)
}

// ExecuteChan is ExecuteEach over a channel. It returns once ch is closed or
// a render fails.
func (t *Template) ExecuteChan(sink Sink, loc Locale, ch <-chan []Arg) error {
	return t.ExecuteEach(sink, loc, chanToIter(ch))
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}

func (t *Template) execute(sink Sink, loc Locale, args []Arg, scratch *[]byte) error {
	var buf []byte
	if scratch != nil {
		buf = *scratch
		defer func() { *scratch = buf }()
	}
	for _, tok := range t.tokens {
		if tok.Kind == Literal {
			if err := write(sink, tok.Text); err != nil {
				return err
			}
			continue
		}
		if tok.Index >= len(args) {
			return &IndexError{Index: tok.Index, Count: len(args)}
		}
		var err error
		if buf, err = renderArg(buf[:0], args[tok.Index], loc, tok.Index); err != nil {
			return err
		}
		if err := write(sink, string(buf)); err != nil {
			return err
		}
	}
	return nil
}

func renderArg(dst []byte, arg Arg, loc Locale, index int) ([]byte, error) {
	if arg == nil {
		return dst, &UnsupportedTypeError{}
	}
	out, err := arg.AppendText(dst, loc)
	if err == nil {
		return out, nil
	}
	var (
		ce *ConversionError
		ue *UnsupportedTypeError
	)
	if errors.As(err, &ce) || errors.As(err, &ue) {
		return dst, err
	}
	return dst, &ConversionError{Directive: fmt.Sprintf("argument %d", index), Err: err}
}

func write(sink Sink, text string) error {
	if err := sink.Write(text); err != nil {
		return &SinkError{Err: err}
	}
	return nil
}

func finish(sink Sink) error {
	if err := sink.Finish(); err != nil {
		return &SinkError{Err: err}
	}
	return nil
}
