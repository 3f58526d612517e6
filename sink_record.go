package ffmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Record is one finished render as emitted by a RecordSink.
type Record struct {
	ID       string    `json:"id" yaml:"id" msgpack:"id"`
	Text     string    `json:"text" yaml:"text" msgpack:"text"`
	Segments []string  `json:"segments" yaml:"segments" msgpack:"segments"`
	Time     time.Time `json:"time" yaml:"time" msgpack:"time"`
}

// RecordSink collects a render and writes it as a structured Record on
// Finish, serialized with the configured Encoding.
//
// JSON writes each record indented, JSONL one compact record per line, YAML
// one document per record separated by "---", MsgPack a stream of maps.
//
// A failed render leaves its partial text collected, since Finish is not
// called. Call Reset before reusing the sink so it does not reach the next
// record.
type RecordSink struct {
	w        io.Writer
	enc      Encoding
	newID    func() string
	now      func() time.Time
	sb       strings.Builder
	segments []string
	written  int
}

// RecordOption configures a RecordSink.
type RecordOption func(*RecordSink)

// WithIDFunc sets the record ID generator. Default: random UUIDs.
func WithIDFunc(fn func() string) RecordOption {
	return func(s *RecordSink) { s.newID = fn }
}

// WithClock sets the record timestamp source. Default: time.Now.
func WithClock(fn func() time.Time) RecordOption {
	return func(s *RecordSink) { s.now = fn }
}

// NewRecordSink returns a Sink that encodes each finished render to w.
func NewRecordSink(w io.Writer, enc Encoding, opts ...RecordOption) (*RecordSink, error) {
	if _, err := ParseEncoding(string(enc)); err != nil {
		return nil, err
	}
	s := &RecordSink{w: w, enc: enc, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RecordSink) Write(text string) error {
	s.sb.WriteString(text)
	s.segments = append(s.segments, text)
	return nil
}

// Finish encodes the collected render and resets the sink.
func (s *RecordSink) Finish() error {
	rec := Record{
		ID:       s.newID(),
		Text:     s.sb.String(),
		Segments: s.segments,
		Time:     s.now(),
	}
	if rec.Segments == nil {
		rec.Segments = []string{}
	}
	s.Reset()
	if err := s.encode(rec); err != nil {
		return err
	}
	s.written++
	return nil
}

// Reset drops text collected since the last Finish.
func (s *RecordSink) Reset() {
	s.sb.Reset()
	s.segments = nil
}

func (s *RecordSink) encode(rec Record) error {
	switch s.enc {
	case JSON:
		return writeJSON(s.w, rec)
	case JSONL:
		return writeJSONL(s.w, rec)
	case YAML:
		return writeYAML(s.w, rec, s.written > 0)
	case MsgPack:
		return msgpack.NewEncoder(s.w).Encode(rec)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s.enc)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONL(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any, separate bool) error {
	if separate {
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
