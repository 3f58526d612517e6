package ffmt

import (
	"context"
	"log/slog"
	"strings"
)

// LogSink collects a render and emits it as one structured log record on
// Finish. The record message is the rendered text; the segment count is
// attached as the "segments" attribute along with any configured attrs.
//
// A failed render leaves its partial text collected, since Finish is not
// called. Call Reset before reusing the sink so it does not reach the next
// record.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
	attrs  []slog.Attr
	ctx    context.Context
	sb     strings.Builder
	n      int
}

// LogOption configures a LogSink.
type LogOption func(*LogSink)

// WithLevel sets the record level. Default: slog.LevelInfo.
func WithLevel(level slog.Level) LogOption {
	return func(s *LogSink) { s.level = level }
}

// WithAttrs attaches attrs to every record.
func WithAttrs(attrs ...slog.Attr) LogOption {
	return func(s *LogSink) { s.attrs = append(s.attrs, attrs...) }
}

// WithContext sets the context passed to the logger, so handlers that pull
// request-scoped values from it see them.
func WithContext(ctx context.Context) LogOption {
	return func(s *LogSink) { s.ctx = ctx }
}

// NewLogSink returns a Sink that logs each finished render through logger.
// A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger, opts ...LogOption) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &LogSink{logger: logger, level: slog.LevelInfo, ctx: context.Background()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Write(text string) error {
	s.sb.WriteString(text)
	s.n++
	return nil
}

// Finish emits the record and resets the sink for the next render.
func (s *LogSink) Finish() error {
	attrs := make([]slog.Attr, 0, len(s.attrs)+1)
	attrs = append(attrs, s.attrs...)
	attrs = append(attrs, slog.Int("segments", s.n))
	s.logger.LogAttrs(s.ctx, s.level, s.sb.String(), attrs...)
	s.Reset()
	return nil
}

// Reset drops text collected since the last Finish.
func (s *LogSink) Reset() {
	s.sb.Reset()
	s.n = 0
}
