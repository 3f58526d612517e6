package ffmt

import (
	"io"
	"log/slog"
)

// Formatter binds a Locale, a logger and a Registry to the render entry
// points. It holds no per-call state and is safe for concurrent use as long as
// each goroutine writes to its own Sink.
type Formatter struct {
	locale   Locale
	fallback bool
	logger   *slog.Logger
	registry *Registry
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLocale sets the Locale passed to every render.
func WithLocale(loc Locale) Option {
	return func(f *Formatter) { f.locale = loc }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Formatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRegistry sets the Registry used by FormatAny. Default: DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(f *Formatter) {
		if r != nil {
			f.registry = r
		}
	}
}

// New returns a Formatter. Without WithLocale it uses DefaultLocale; when
// that is unset too it falls back to ASCII, logs the fallback at debug level
// and reports it through LocaleFallback.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		logger:   slog.New(slog.DiscardHandler),
		registry: DefaultRegistry,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.locale == nil {
		f.locale = DefaultLocale()
	}
	if f.locale == nil {
		f.locale = ASCII
		f.fallback = true
		f.logger.Debug("no locale configured, case folding limited to ASCII")
	}
	return f
}

// Locale returns the Locale used for renders.
func (f *Formatter) Locale() Locale { return f.locale }

// LocaleFallback reports whether the Formatter fell back to ASCII because no
// Locale was available.
func (f *Formatter) LocaleFallback() bool { return f.fallback }

// Format parses format and renders it with args into sink. A malformed
// format fails before anything is written.
func (f *Formatter) Format(sink Sink, format string, args ...Arg) error {
	t, err := f.parse(format)
	if err != nil {
		return err
	}
	return f.render(sink, t, args, false)
}

// Formatln is Format followed by a newline.
func (f *Formatter) Formatln(sink Sink, format string, args ...Arg) error {
	t, err := f.parse(format)
	if err != nil {
		return err
	}
	return f.render(sink, t, args, true)
}

// Execute renders a parsed Template.
func (f *Formatter) Execute(sink Sink, t *Template, args ...Arg) error {
	return f.render(sink, t, args, false)
}

// Executeln is Execute followed by a newline.
func (f *Formatter) Executeln(sink Sink, t *Template, args ...Arg) error {
	return f.render(sink, t, args, true)
}

func (f *Formatter) parse(format string) (*Template, error) {
	t, err := Parse(format)
	if err != nil {
		f.logger.Debug("parse failed", slog.String("format", format), slog.Any("error", err))
		return nil, err
	}
	return t, nil
}

func (f *Formatter) render(sink Sink, t *Template, args []Arg, newline bool) error {
	if err := t.render(sink, f.locale, args, newline); err != nil {
		f.logger.Debug("render failed",
			slog.String("format", t.Source()),
			slog.Int("args", len(args)),
			slog.Any("error", err))
		return err
	}
	return nil
}

// FormatAny binds vs through the Formatter's Registry and renders them.
// The format is parsed before binding, so a malformed format is reported
// ahead of an unsupported value.
func (f *Formatter) FormatAny(sink Sink, format string, vs ...any) error {
	t, err := f.parse(format)
	if err != nil {
		return err
	}
	args, err := f.registry.BindAll(vs...)
	if err != nil {
		f.logger.Debug("bind failed", slog.String("format", format), slog.Any("error", err))
		return err
	}
	return f.render(sink, t, args, false)
}

// Write renders args back to back with no format string.
func (f *Formatter) Write(sink Sink, args ...Arg) error {
	for i, arg := range args {
		text, err := renderArg(nil, arg, f.locale, i)
		if err != nil {
			f.logger.Debug("write failed", slog.Int("arg", i), slog.Any("error", err))
			return err
		}
		if err := write(sink, string(text)); err != nil {
			return err
		}
	}
	return finish(sink)
}

// Writeln is Write followed by a newline.
func (f *Formatter) Writeln(sink Sink, args ...Arg) error {
	return f.Write(sink, append(args[:len(args):len(args)], Str("\n"))...)
}

// Sprint renders into a string.
func (f *Formatter) Sprint(format string, args ...Arg) (string, error) {
	var b Buffer
	if err := f.Format(&b, format, args...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Fprint renders to w.
func (f *Formatter) Fprint(w io.Writer, format string, args ...Arg) error {
	return f.Format(NewWriterSink(w), format, args...)
}

// --- Package-level helpers ---
//
// These build a Formatter per call from DefaultLocale. They are the only
// place the process-wide locale is read.

// Format renders format with args into sink.
func Format(sink Sink, format string, args ...Arg) error {
	return New().Format(sink, format, args...)
}

// Formatln is Format followed by a newline.
func Formatln(sink Sink, format string, args ...Arg) error {
	return New().Formatln(sink, format, args...)
}

// Write renders args back to back into sink.
func Write(sink Sink, args ...Arg) error {
	return New().Write(sink, args...)
}

// Writeln is Write followed by a newline.
func Writeln(sink Sink, args ...Arg) error {
	return New().Writeln(sink, args...)
}

// Sprint renders into a string.
func Sprint(format string, args ...Arg) (string, error) {
	return New().Sprint(format, args...)
}

// Fprint renders to w.
func Fprint(w io.Writer, format string, args ...Arg) error {
	return New().Fprint(w, format, args...)
}
