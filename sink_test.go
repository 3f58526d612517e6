package ffmt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bjaus/ffmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// errWriter always fails.
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

func newRecordSink(t *testing.T, w io.Writer, enc ffmt.Encoding) *ffmt.RecordSink {
	t.Helper()
	s, err := ffmt.NewRecordSink(w, enc,
		ffmt.WithIDFunc(sequentialIDs()),
		ffmt.WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	return s
}

func renderTwice(t *testing.T, sink ffmt.Sink) {
	t.Helper()
	require.NoError(t, ffmt.Format(sink, "hello %0", ffmt.Str("world")))
	require.NoError(t, ffmt.Format(sink, "n=%0", ffmt.Int(2)))
}

var wantRecords = []ffmt.Record{
	{ID: "id-1", Text: "hello world", Segments: []string{"hello ", "world"}, Time: fixedTime},
	{ID: "id-2", Text: "n=2", Segments: []string{"n=", "2"}, Time: fixedTime},
}

func TestWriterSink(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := ffmt.NewWriterSink(&out)
	require.NoError(t, s.Write("buffered"))
	assert.Empty(t, out.String(), "nothing reaches the writer before Finish")
	require.NoError(t, s.Finish())
	assert.Equal(t, "buffered", out.String())

	require.NoError(t, s.Write(" more"))
	require.NoError(t, s.Flush())
	assert.Equal(t, "buffered more", out.String())
}

func TestWriterSinkError(t *testing.T) {
	t.Parallel()
	err := ffmt.Fprint(errWriter{}, "x")
	require.ErrorIs(t, err, ffmt.ErrSinkWrite)
	assert.Contains(t, err.Error(), "write failed")
}

func TestBuffer(t *testing.T) {
	t.Parallel()
	var b ffmt.Buffer
	require.NoError(t, ffmt.Format(&b, "a%0", ffmt.Int(1)))
	require.NoError(t, ffmt.Format(&b, "b"))
	assert.Equal(t, "a1b", b.String())
	assert.Equal(t, []string{"a", "1", "b"}, b.Segments())
	assert.Equal(t, 2, b.Finished())

	b.Reset()
	assert.Empty(t, b.String())
	assert.Empty(t, b.Segments())
	assert.Zero(t, b.Finished())
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	require.NoError(t, ffmt.Format(ffmt.Discard, "%0", ffmt.Str("gone")))
}

func TestTee(t *testing.T) {
	t.Parallel()
	var a, b ffmt.Buffer
	sink := ffmt.Tee(&a, nil, &b)
	require.NoError(t, ffmt.Format(sink, "%0!", ffmt.Str("hi")))
	assert.Equal(t, "hi!", a.String())
	assert.Equal(t, "hi!", b.String())
	assert.Equal(t, 1, a.Finished())
	assert.Equal(t, 1, b.Finished())
}

func TestTeeErrors(t *testing.T) {
	t.Parallel()
	var after ffmt.Buffer
	failing := &failSink{n: 0}
	err := ffmt.Format(ffmt.Tee(failing, &after), "x")
	require.ErrorIs(t, err, errSinkFailed)
	assert.Empty(t, after.String(), "write stops at the first failing sink")

	var b ffmt.Buffer
	finishErr := &failSink{n: 10, finalErr: errSinkFailed}
	err = ffmt.Format(ffmt.Tee(finishErr, &b), "x")
	require.ErrorIs(t, err, errSinkFailed)
	assert.Equal(t, 1, b.Finished(), "every sink is finished")
}

func TestLogSink(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&out, nil))
	sink := ffmt.NewLogSink(logger,
		ffmt.WithLevel(slog.LevelWarn),
		ffmt.WithAttrs(slog.String("component", "test")),
		ffmt.WithContext(context.Background()))
	renderTwice(t, sink)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "hello world", first["msg"])
	assert.Equal(t, "WARN", first["level"])
	assert.Equal(t, "test", first["component"])
	assert.InDelta(t, 2, first["segments"], 0)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "n=2", second["msg"], "sink resets between renders")
}

func TestLogSinkDefaults(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	sink := ffmt.NewLogSink(slog.New(slog.NewTextHandler(&out, nil)))
	require.NoError(t, ffmt.Format(sink, "plain"))
	assert.Contains(t, out.String(), "level=INFO")
	assert.Contains(t, out.String(), "msg=plain")
	assert.Contains(t, out.String(), "segments=1")
}

func TestRecordSinkJSON(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	renderTwice(t, newRecordSink(t, &out, ffmt.JSON))

	dec := json.NewDecoder(&out)
	for _, want := range wantRecords {
		var got ffmt.Record
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}
	assert.False(t, dec.More())
}

func TestRecordSinkJSONIndented(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, ffmt.Format(newRecordSink(t, &out, ffmt.JSON), "<b>"))
	assert.Contains(t, out.String(), "\n  \"id\": \"id-1\"")
	assert.Contains(t, out.String(), `"text": "<b>"`, "HTML is not escaped")
}

func TestRecordSinkJSONL(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	renderTwice(t, newRecordSink(t, &out, ffmt.JSONL))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	for i, line := range lines {
		var got ffmt.Record
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, wantRecords[i], got)
	}
}

func TestRecordSinkYAML(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	renderTwice(t, newRecordSink(t, &out, ffmt.YAML))
	assert.Equal(t, 1, strings.Count(out.String(), "---\n"))

	dec := yaml.NewDecoder(&out)
	for _, want := range wantRecords {
		var got ffmt.Record
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}
}

func TestRecordSinkMsgPack(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	renderTwice(t, newRecordSink(t, &out, ffmt.MsgPack))

	dec := msgpack.NewDecoder(&out)
	for _, want := range wantRecords {
		var got ffmt.Record
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Text, got.Text)
		assert.Equal(t, want.Segments, got.Segments)
		assert.True(t, want.Time.Equal(got.Time))
	}
}

func TestRecordSinkEmptyRender(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, ffmt.Format(newRecordSink(t, &out, ffmt.JSONL), ""))
	assert.Contains(t, out.String(), `"segments":[]`)
}

func TestRecordSinkDefaultID(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s, err := ffmt.NewRecordSink(&out, ffmt.JSONL)
	require.NoError(t, err)
	require.NoError(t, ffmt.Format(s, "x"))

	var got ffmt.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Len(t, got.ID, 36)
	assert.False(t, got.Time.IsZero())
}

func TestRecordSinkErrors(t *testing.T) {
	t.Parallel()
	_, err := ffmt.NewRecordSink(io.Discard, "xml")
	require.ErrorIs(t, err, ffmt.ErrUnsupportedEncoding)

	for _, enc := range ffmt.Encodings() {
		t.Run(enc.String(), func(t *testing.T) {
			t.Parallel()
			s, err := ffmt.NewRecordSink(errWriter{}, enc)
			require.NoError(t, err)
			err = ffmt.Format(s, "x")
			assert.ErrorIs(t, err, ffmt.ErrSinkWrite)
		})
	}
}

func TestRecordSinkResetAfterFailedRender(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := newRecordSink(t, &out, ffmt.JSONL)

	err := ffmt.Format(s, "stale-%0-%5", ffmt.Str("a"))
	require.ErrorIs(t, err, ffmt.ErrArgumentIndexOutOfRange)
	assert.Empty(t, out.String(), "a failed render emits no record")

	s.Reset()
	require.NoError(t, ffmt.Format(s, "fresh"))

	var got ffmt.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "fresh", got.Text)
	assert.Equal(t, []string{"fresh"}, got.Segments)
}

func TestLogSinkResetAfterFailedRender(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := ffmt.NewLogSink(slog.New(slog.NewJSONHandler(&out, nil)))

	err := ffmt.Format(s, "stale %0 %5", ffmt.Str("a"))
	require.ErrorIs(t, err, ffmt.ErrArgumentIndexOutOfRange)
	assert.Empty(t, out.String())

	s.Reset()
	require.NoError(t, ffmt.Format(s, "fresh"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "fresh", got["msg"])
	assert.InDelta(t, 1, got["segments"], 0)
}
