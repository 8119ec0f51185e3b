package gocsv

import (
	"context"
	"io"
	"reflect"
	"strconv"

	"github.com/oleg578/gocsv/convert"
	"github.com/oleg578/gocsv/csvmap"
	"github.com/oleg578/gocsv/internal/source"
)

// Writer emits typed records or raw fields as CSV, generalizing the
// teacher's Write([]string)-only Writer with per-field quoting rules
// that honor Escape != Quote and quote edge whitespace independently of
// Trim, plus typed WriteRecord/WriteHeader
// entry points bound through csvmap. Not safe for concurrent use by
// multiple goroutines on the same instance.
type Writer struct {
	sink     *source.Sink
	opts     Options
	registry *csvmap.Registry

	fieldOnRow int
	scratch    [128]byte
	closed     bool
	err        error
}

// NewWriter constructs a Writer over w, applying opts over DefaultOptions
// and validating the result. Panics on a nil destination, matching the
// teacher's NewWriter.
func NewWriter(w io.Writer, opts ...Option) (*Writer, error) {
	if w == nil {
		panic("gocsv: writer destination cannot be nil")
	}
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	registry := o.MapRegistry
	if registry == nil {
		registry = csvmap.NewRegistry()
	}
	return &Writer{sink: source.NewSink(w, o.ByteBufferSize), opts: o, registry: registry}, nil
}

// Reset rebinds the writer to a new destination, clearing any stored
// error and the current row's field count, but preserving Options.
func (w *Writer) Reset(dst io.Writer) {
	w.sink.Reset(dst)
	w.fieldOnRow = 0
	w.err = nil
	w.closed = false
}

// Error reports the first write error encountered, matching the
// teacher's latch-and-report Writer.Error.
func (w *Writer) Error() error { return w.err }

// Close flushes any pending output. Idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.Flush()
}

// Flush flushes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.sink.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// FlushContext flushes, checking ctx for cancellation first.
func (w *Writer) FlushContext(ctx context.Context) error {
	if w.err != nil {
		return w.err
	}
	if err := w.sink.FlushContext(ctx); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteField writes one raw field, quoting/escaping as needed, and
// prepends the field delimiter if this is not the first field on the
// current row. Callers advance to the next row with NextRecord. Once a
// write fails, every subsequent call returns the same stored error.
func (w *Writer) WriteField(field string) error {
	if w.err != nil {
		return w.err
	}
	if w.fieldOnRow > 0 {
		if err := w.sink.WriteByte(w.opts.Delimiter); err != nil {
			w.err = err
			return err
		}
	}
	w.fieldOnRow++
	if err := w.writeQuoted(field); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteFieldValue writes value as the next field. string, []byte and nil
// are written directly; bool, integer and float kinds are formatted by
// fastFormat with strconv; every other value goes through the convert
// chain.
func (w *Writer) WriteFieldValue(value any) error {
	switch v := value.(type) {
	case string:
		return w.WriteField(v)
	case []byte:
		return w.WriteField(string(v))
	case nil:
		return w.WriteField("")
	}

	rv := reflect.ValueOf(value)
	ctx := convert.Context{Culture: w.opts.Culture}
	if formatted, ok := w.fastFormat(rv); ok {
		return w.WriteField(formatted)
	}
	s, err := convert.FormatFrom(ctx, rv, w.opts.Converters, nil)
	if err != nil {
		return err
	}
	return w.WriteField(s)
}

// fastFormat handles the common scalar kinds directly with strconv into
// the Writer's stack-resident scratch buffer, avoiding the reflection
// dispatch in convert.FormatFrom for the hot path — the Go rendering of
// spec.md §4.5's "stack buffer of 128, then grow-and-retry" note.
func (w *Writer) fastFormat(rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return string(strconv.AppendInt(w.scratch[:0], rv.Int(), 10)), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return string(strconv.AppendUint(w.scratch[:0], rv.Uint(), 10)), true
	case reflect.Float32:
		return string(strconv.AppendFloat(w.scratch[:0], rv.Float(), 'g', -1, 32)), true
	case reflect.Float64:
		return string(strconv.AppendFloat(w.scratch[:0], rv.Float(), 'g', -1, 64)), true
	case reflect.Bool:
		return string(strconv.AppendBool(w.scratch[:0], rv.Bool())), true
	default:
		return "", false
	}
}

// NextRecord terminates the current row with the configured newline
// sequence, ready for the next WriteField/WriteFieldValue call.
func (w *Writer) NextRecord() error {
	if w.err != nil {
		return w.err
	}
	if err := w.sink.WriteString(w.opts.newline()); err != nil {
		w.err = err
		return err
	}
	w.fieldOnRow = 0
	return nil
}

// WriteHeader writes one row containing the column names of T's
// registered ColumnMap, in declaration/tag order.
func WriteHeader[T any](w *Writer) error {
	var zero T
	cm, err := w.registry.GetOrCreate(reflect.TypeOf(zero))
	if err != nil {
		return err
	}
	for _, m := range cm.Mappings {
		if m.Ignore {
			continue
		}
		if err := w.WriteField(m.Name); err != nil {
			return err
		}
	}
	return w.NextRecord()
}

// WriteRecord writes rec's mapped fields as one row and terminates it.
func WriteRecord[T any](w *Writer, rec T) error {
	rv := reflect.ValueOf(rec)
	cm, err := w.registry.GetOrCreate(rv.Type())
	if err != nil {
		return err
	}
	for _, m := range cm.Mappings {
		if m.Ignore {
			continue
		}
		field := m.Get(rv)
		ctx := convert.Context{Culture: w.opts.Culture, ColumnName: m.Name}
		s, err := convert.FormatFrom(ctx, field, w.opts.Converters, m.Converter)
		if err != nil {
			return err
		}
		if err := w.WriteField(s); err != nil {
			return err
		}
	}
	return w.NextRecord()
}

// writeQuoted mirrors the teacher's writeField/fieldNeedsQuote, extended
// for a distinct Escape byte and for edge-whitespace-triggered quoting: a
// field is quoted if it contains the delimiter, the quote byte, CR, LF,
// or begins/ends with whitespace, regardless of the reader-side Trim
// setting — Trim is a parser field-completion policy, not a writer
// condition, so a round-tripped field always reads back unchanged.
func (w *Writer) writeQuoted(field string) error {
	if !w.needsQuote(field) {
		return w.sink.WriteString(field)
	}

	quote := w.opts.Quote
	escape := w.opts.escape()
	if err := w.sink.WriteByte(quote); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == quote {
			if start < i {
				if err := w.sink.WriteString(field[start:i]); err != nil {
					return err
				}
			}
			if escape == quote {
				if err := w.sink.Write([]byte{quote, quote}); err != nil {
					return err
				}
			} else {
				if err := w.sink.Write([]byte{escape, quote}); err != nil {
					return err
				}
			}
			start = i + 1
		}
	}
	if start < len(field) {
		if err := w.sink.WriteString(field[start:]); err != nil {
			return err
		}
	}
	return w.sink.WriteByte(quote)
}

func (w *Writer) needsQuote(field string) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case w.opts.Quote, w.opts.Delimiter, '\n', '\r':
			return true
		}
	}
	if len(field) == 0 {
		return false
	}
	return isSpace(field[0]) || isSpace(field[len(field)-1])
}
