// Package ffmt is a type-safe text formatting engine.
//
// A format string is parsed into literal runs and placeholders, each
// placeholder is paired with a bound argument, and the rendered pieces are
// streamed to a [Sink]. The central entry points are [Format], [Sprint] and
// [Fprint], or a configured [Formatter]:
//
//	ffmt.Sprint("%0 is %1 years old", ffmt.Str(name), ffmt.Int(age))
//
// # Format Strings
//
// The grammar is flat:
//
//   - %N: explicit zero-based argument index
//   - %{N}: explicit index, braced, so a digit may follow
//   - % or %{}: next argument not yet referenced
//   - %%: a literal percent sign
//
// Use [Parse] to check a format once and render it many times with
// [Template.Execute]. A malformed format fails with a [*ParseError] before
// anything is written.
//
// # Arguments
//
// Arguments are bound by typed constructors such as [Str], [Int], [Uint],
// [Float], [Bool], [Stringer], [Text] and [Of]. A value that cannot be
// rendered does not compile. For values whose type is only known at run time, [Bind]
// resolves them through a [Registry] and reports [ErrUnsupportedArgumentType].
// Conversion is deferred: an argument no placeholder references is never
// rendered.
//
// # Directives
//
// A [Directive] wraps a value with rendering policies. Wrapping composes in
// order, innermost first:
//
//	ffmt.Pad(ffmt.Upper(ffmt.Str("id")), 6, '.', ffmt.AlignLeft) // "ID...."
//	ffmt.Upper(ffmt.Pad(ffmt.Str("id"), 6, 'x', ffmt.AlignLeft)) // "IDXXXX"
//
// Built in: [Fold], [Pad], [Truncate], [EscapeHTML], [StripTags], [Custom],
// [Radix], [UnsignedRadix], [Precision] and [Grouped]. Implement [Policy] to
// add more.
//
// # Locales
//
// Case folding and digit grouping consult a [Locale]. [NewLocale] builds one
// from a language tag; without one, a [Formatter] falls back to [ASCII] and
// says so through [Formatter.LocaleFallback].
//
// # Sinks
//
// [Sink] has two methods, Write and Finish. Included adapters:
//
//   - [WriterSink]: any io.Writer
//   - [Buffer]: in memory
//   - [LogSink]: one slog record per render
//   - [RecordSink]: JSON, JSONL, YAML or MsgPack records
//   - [Tee], [Discard]
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrMalformedFormat]: bad format string, nothing written
//   - [ErrArgumentIndexOutOfRange]: placeholder without an argument
//   - [ErrUnsupportedArgumentType]: value with no text form
//   - [ErrConversion]: a directive rejected its input
//   - [ErrSinkWrite]: the sink failed and the render stops
//
// Each is wrapped by a typed error carrying the details. Output written
// before a render-time failure stays in the sink.
package ffmt
