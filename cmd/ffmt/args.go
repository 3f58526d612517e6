package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bjaus/ffmt"
)

// parseArg turns a command-line word into a typed argument. A one-letter
// prefix selects the type:
//
//	s:text   string (also the default for unprefixed words)
//	i:-42    signed decimal
//	u:42     unsigned decimal
//	f:3.14   float
//	b:true   bool
//	x:255    integer rendered in hex (input accepts 0x, 0o, 0b prefixes)
//	g:1234   integer with locale digit grouping
func parseArg(word string) (ffmt.Arg, error) {
	kind, val, ok := strings.Cut(word, ":")
	if !ok || len(kind) != 1 {
		return ffmt.Str(word), nil
	}
	switch kind {
	case "s":
		return ffmt.Str(val), nil
	case "i":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		return ffmt.Int(n), nil
	case "u":
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		return ffmt.Uint(n), nil
	case "f":
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		return ffmt.Float(n), nil
	case "b":
		v, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		return ffmt.Bool(v), nil
	case "x":
		n, err := strconv.ParseInt(val, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		return ffmt.Hex(n), nil
	case "g":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		return ffmt.Grouped(n), nil
	default:
		return ffmt.Str(word), nil
	}
}

func parseArgs(words []string) ([]ffmt.Arg, error) {
	args := make([]ffmt.Arg, len(words))
	for i, w := range words {
		a, err := parseArg(w)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}

// newSink builds the output sink: "text" streams plain text, "log" emits
// one JSON log line per render, anything else is a record encoding.
func newSink(w io.Writer, kind string) (ffmt.Sink, error) {
	switch kind {
	case "", "text":
		return ffmt.NewWriterSink(w), nil
	case "log":
		return ffmt.NewLogSink(slog.New(slog.NewJSONHandler(w, nil))), nil
	default:
		enc, err := ffmt.ParseEncoding(kind)
		if err != nil {
			return nil, err
		}
		rs, err := ffmt.NewRecordSink(w, enc)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
}

// sinkKind resolves the --sink flag against the config file.
func sinkKind(flag string, changed bool) string {
	if changed || cfg.Encoding == "" {
		return flag
	}
	return cfg.Encoding
}
