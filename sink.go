package ffmt

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Sink accepts finished text. The renderer calls Write once per literal run
// and once per rendered placeholder, then Finish once after a successful
// render. Finish is never called after a failure.
//
// A Sink is not safe for concurrent use unless its documentation says so.
type Sink interface {
	Write(text string) error
	Finish() error
}

// WriterSink streams text to an io.Writer through a buffer that is flushed
// by Finish. Text written by a render that later fails stays buffered; call
// Flush to push it out anyway.
type WriterSink struct {
	bw *bufio.Writer
}

// NewWriterSink returns a Sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{bw: bufio.NewWriter(w)}
}

func (s *WriterSink) Write(text string) error {
	_, err := s.bw.WriteString(text)
	return err
}

// Finish flushes buffered text to the underlying writer.
func (s *WriterSink) Finish() error { return s.bw.Flush() }

// Flush writes buffered text to the underlying writer.
func (s *WriterSink) Flush() error { return s.bw.Flush() }

// Buffer is an in-memory Sink. The zero value is ready to use and can be
// reused across renders; output accumulates until Reset.
type Buffer struct {
	sb       strings.Builder
	segments []string
	finished int
}

func (b *Buffer) Write(text string) error {
	b.sb.WriteString(text)
	b.segments = append(b.segments, text)
	return nil
}

// Finish records the completed render.
func (b *Buffer) Finish() error {
	b.finished++
	return nil
}

// String returns everything written so far.
func (b *Buffer) String() string { return b.sb.String() }

// Segments returns each Write in order.
func (b *Buffer) Segments() []string {
	out := make([]string, len(b.segments))
	copy(out, b.segments)
	return out
}

// Finished returns how many renders completed into b.
func (b *Buffer) Finished() int { return b.finished }

// Reset clears b.
func (b *Buffer) Reset() {
	b.sb.Reset()
	b.segments = nil
	b.finished = 0
}

type discard struct{}

func (discard) Write(string) error { return nil }
func (discard) Finish() error      { return nil }

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type teeSink struct {
	sinks []Sink
}

// Tee returns a Sink that forwards every call to each of sinks in order.
// Write stops at the first failing sink. Finish finishes every sink and
// joins their errors.
func Tee(sinks ...Sink) Sink {
	clean := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			clean = append(clean, s)
		}
	}
	return &teeSink{sinks: clean}
}

func (t *teeSink) Write(text string) error {
	for _, s := range t.sinks {
		if err := s.Write(text); err != nil {
			return err
		}
	}
	return nil
}

func (t *teeSink) Finish() error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Finish(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
