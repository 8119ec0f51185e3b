package gocsv

import (
	"github.com/oleg578/gocsv/convert"
	"github.com/oleg578/gocsv/csvmap"
)

// TrimMode controls whitespace trimming applied to completed fields.
type TrimMode int

const (
	TrimNone TrimMode = iota
	TrimStart
	TrimEnd
	TrimBoth
)

// ParseMode controls whether bad data raises (Strict) or recovers via
// the BadDataFound callback and continues (Lenient).
type ParseMode int

const (
	Strict ParseMode = iota
	Lenient
)

// BadDataContext is delivered to Options.BadDataFound for every
// lenient-mode recovery, per spec.md's glossary entry.
type BadDataContext struct {
	RowIndex   int64
	LineNumber int64
	FieldIndex int
	Message    string
	RawField   []byte
}

const minBufferSize = 16

// Options is the immutable configuration bundle spec.md §3 describes.
// Construct it with NewOptions and the With* functional options, in the
// idiom burungbangkai-go-csv-serde uses for its SerializerOption chain;
// it is validated once, at Reader/Writer construction, and never mutated
// afterward.
type Options struct {
	Delimiter         byte
	Quote             byte
	Escape            byte
	HasHeader         bool
	Newline           string
	Trim              TrimMode
	Mode              ParseMode
	DetectColumnCount bool
	IgnoreBlankLines  bool
	Culture           convert.Culture
	CharBufferSize    int
	ByteBufferSize    int
	BadDataFound      func(BadDataContext)
	Converters        *convert.Registry
	MapRegistry       *csvmap.Registry
}

// Option configures an Options value, functional-options style.
type Option func(*Options)

// DefaultOptions returns the baseline configuration: comma delimiter,
// double-quote quoting (escape equal to quote), a header row expected,
// no trimming, strict mode, invariant culture.
func DefaultOptions() Options {
	return Options{
		Delimiter:      ',',
		Quote:          '"',
		Escape:         '"',
		HasHeader:      true,
		Trim:           TrimNone,
		Mode:           Strict,
		Culture:        convert.Invariant,
		CharBufferSize: 1 << 10,
		ByteBufferSize: 1 << 10,
	}
}

// NewOptions builds an Options starting from DefaultOptions and applying
// opts in order.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	// Clear Escape so that, unless WithEscape sets it, it follows the
	// final Quote (including one changed by WithQuote).
	o.Escape = 0
	for _, opt := range opts {
		opt(&o)
	}
	if o.Escape == 0 {
		o.Escape = o.Quote
	}
	return o
}

func WithDelimiter(delim byte) Option { return func(o *Options) { o.Delimiter = delim } }
func WithQuote(quote byte) Option     { return func(o *Options) { o.Quote = quote } }
func WithEscape(escape byte) Option   { return func(o *Options) { o.Escape = escape } }
func WithHasHeader(has bool) Option   { return func(o *Options) { o.HasHeader = has } }
func WithNewline(nl string) Option    { return func(o *Options) { o.Newline = nl } }
func WithTrim(t TrimMode) Option      { return func(o *Options) { o.Trim = t } }
func WithMode(m ParseMode) Option     { return func(o *Options) { o.Mode = m } }
func WithDetectColumnCount(b bool) Option {
	return func(o *Options) { o.DetectColumnCount = b }
}
func WithIgnoreBlankLines(b bool) Option {
	return func(o *Options) { o.IgnoreBlankLines = b }
}
func WithCulture(c convert.Culture) Option { return func(o *Options) { o.Culture = c } }
func WithCharBufferSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.CharBufferSize = n
		}
	}
}
func WithByteBufferSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.ByteBufferSize = n
		}
	}
}
func WithBadDataFound(f func(BadDataContext)) Option {
	return func(o *Options) { o.BadDataFound = f }
}
func WithConverters(r *convert.Registry) Option {
	return func(o *Options) { o.Converters = r }
}
func WithMapRegistry(r *csvmap.Registry) Option {
	return func(o *Options) { o.MapRegistry = r }
}

// Validate checks the invariants spec.md §3 requires: Delimiter and
// Quote must differ, Delimiter must not be CR/LF, and both buffer size
// hints must be at least 16 bytes.
func (o Options) Validate() error {
	if o.Delimiter == o.Quote {
		return argumentError("delimiter and quote must differ")
	}
	if o.Delimiter == '\r' || o.Delimiter == '\n' {
		return argumentError("delimiter must not be CR or LF")
	}
	if o.CharBufferSize < minBufferSize {
		return argumentError("char buffer size must be at least %d", minBufferSize)
	}
	if o.ByteBufferSize < minBufferSize {
		return argumentError("byte buffer size must be at least %d", minBufferSize)
	}
	return nil
}

func (o Options) escape() byte {
	if o.Escape == 0 {
		return o.Quote
	}
	return o.Escape
}

func (o Options) newline() string {
	if o.Newline != "" {
		return o.Newline
	}
	return "\n"
}
