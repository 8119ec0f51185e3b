package gocsv

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/oleg578/gocsv/convert"
	"github.com/oleg578/gocsv/csvmap"
	"github.com/oleg578/gocsv/internal/telemetry"
)

// Reader parses a character stream into rows, generalizing the teacher's
// single []string-returning Read into the four binding styles spec.md
// §4.2 describes: raw zero-copy Row, string-field indexing, ordered
// dictionary, and typed-record binding via csvmap. Not safe for
// concurrent use by multiple goroutines on the same instance.
type Reader struct {
	p        *parser
	opts     Options
	registry *csvmap.Registry

	headers        []string
	headerCaptured bool

	row    Row
	closed bool
}

// NewReader constructs a Reader over r, applying opts over DefaultOptions
// and validating the result. It panics on a nil source, matching the
// teacher's NewReader.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	if r == nil {
		panic("gocsv: reader source cannot be nil")
	}
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	registry := o.MapRegistry
	if registry == nil {
		registry = csvmap.NewRegistry()
	}
	return &Reader{p: newParser(r, o), opts: o, registry: registry}, nil
}

// Close releases the Reader's pooled buffer. Idempotent.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.p.close()
	return nil
}

// TryReadRow reads the next data row, capturing the header row first when
// Options.HasHeader is set. It reports (Row{}, false) at end of stream.
func (r *Reader) TryReadRow() (Row, bool, error) {
	return r.tryReadRow(nil)
}

// TryReadRowContext behaves like TryReadRow but checks ctx at every I/O
// boundary.
func (r *Reader) TryReadRowContext(ctx context.Context) (Row, bool, error) {
	return r.tryReadRow(ctx)
}

func (r *Reader) tryReadRow(ctx context.Context) (Row, bool, error) {
	if r.closed {
		return Row{}, false, argumentError("read on a closed reader")
	}
	if r.opts.HasHeader && !r.headerCaptured {
		if err := r.captureHeader(ctx); err != nil {
			return Row{}, false, err
		}
	}
	ok, err := r.p.readRow(ctx)
	if err != nil || !ok {
		return Row{}, false, err
	}
	r.row = newRow(r.p.rb, r.p.lastRowIndex(), r.p.lastLineNumber())
	return r.row, true, nil
}

func (r *Reader) captureHeader(ctx context.Context) error {
	ok, err := r.p.readRow(ctx)
	if err != nil {
		return err
	}
	if !ok {
		r.headerCaptured = true
		return nil
	}
	headers := make([]string, r.p.rb.FieldCount())
	for i := range headers {
		headers[i] = string(r.p.rb.Field(i))
	}
	r.headers = headers
	r.headerCaptured = true
	r.p.markHeaderConsumed()
	return nil
}

// Read advances to the next row and reports whether one was available.
// Use Field/FieldBytes to read the current row after a true result,
// mirroring the teacher's Read/consume split but adapted to the
// zero-copy Row contract instead of allocating a []string every call.
func (r *Reader) Read() (bool, error) {
	_, ok, err := r.TryReadRow()
	return ok, err
}

// Field returns field i of the row last returned by Read/TryReadRow as a
// string.
func (r *Reader) Field(i int) string { return r.row.Field(i) }

// FieldBytes returns field i of the current row as a zero-copy slice,
// valid only until the next Read call.
func (r *Reader) FieldBytes(i int) []byte { return r.row.FieldBytes(i) }

// FieldCount reports the number of fields in the current row.
func (r *Reader) FieldCount() int { return r.row.Len() }

// Headers returns the captured header row, or nil if HasHeader is false
// or no header has been read yet.
func (r *Reader) Headers() []string { return r.headers }

// TryReadDictionary reads the next row and returns it as an
// order-preserving header-name to field-text dictionary, synthesizing
// "Column<N>" names for fields past the end of the captured header.
func (r *Reader) TryReadDictionary() (*Dictionary, bool, error) {
	row, ok, err := r.TryReadRow()
	if err != nil || !ok {
		return nil, ok, err
	}
	return newDictionary(r.headers, row), true, nil
}

func syntheticColumnName(i int) string {
	return fmt.Sprintf("Column%d", i+1)
}

// GetRecord binds the row last returned by Read/TryReadRow into dst,
// which must be a non-nil pointer to a struct. Columns bind by an explicit
// tag/fluent index when one is set, else by header name when a header was
// captured, else by declaration order. In Strict mode, a missing column or
// a conversion failure raises CsvError wrapping ErrMissingField or
// ErrConversion respectively. In Lenient mode, a missing column is treated
// as an empty field, and a conversion failure (including one caused by
// that empty text) leaves the field at its zero value and is reported
// through BadDataFound instead of aborting the record; a missing column
// whose empty text converts cleanly is not reported.
func (r *Reader) GetRecord(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return argumentError("GetRecord requires a non-nil pointer, got %T", dst)
	}
	elem := rv.Elem()
	cm, err := r.registry.GetOrCreate(elem.Type())
	if err != nil {
		return err
	}

	row := r.row
	declOrder := 0
	for _, m := range cm.Mappings {
		if m.Ignore {
			continue
		}
		fieldIndex, raw, ok := r.resolveColumn(m, row, declOrder)
		declOrder++
		if !ok {
			if r.opts.Mode != Lenient {
				return newMissingFieldError(row.RowIndex(), row.LineNumber(), m.Index, fmt.Sprintf("column %q not found", m.Name))
			}
			raw = nil
		}
		ctx := convert.Context{Culture: r.opts.Culture, RowIndex: row.RowIndex(), FieldIndex: fieldIndex, ColumnName: m.Name}
		value, err := convert.ParseInto(ctx, raw, m.Type, r.opts.Converters, m.Converter)
		if err != nil {
			if r.opts.Mode != Lenient {
				return newConversionError(row.RowIndex(), row.LineNumber(), fieldIndex, err.Error())
			}
			r.reportLenientBind(row, fieldIndex, err.Error(), raw)
			m.Set(elem, reflect.Zero(m.Type))
			continue
		}
		m.Set(elem, value)
	}
	return nil
}

// reportLenientBind narrates a Lenient-mode binding failure the same way
// the parser's reportBadData narrates a scan-level one: telemetry always,
// plus the caller's BadDataFound if registered.
func (r *Reader) reportLenientBind(row Row, fieldIndex int, message string, raw []byte) {
	telemetry.BadData(row.RowIndex(), row.LineNumber(), fieldIndex, message)
	if r.opts.BadDataFound != nil {
		r.opts.BadDataFound(BadDataContext{
			RowIndex:   row.RowIndex(),
			LineNumber: row.LineNumber(),
			FieldIndex: fieldIndex,
			Message:    message,
			RawField:   append([]byte(nil), raw...),
		})
	}
}

// resolveColumn locates the field bytes for mapping m in row, preferring
// an explicit Index, then a header-name lookup, then declaration order
// (the ordinal position of m among the record's non-ignored mappings)
// when no header was captured at all.
func (r *Reader) resolveColumn(m csvmap.MemberMapping, row Row, declOrder int) (int, []byte, bool) {
	if m.Index >= 0 {
		if m.Index >= row.Len() {
			return m.Index, nil, false
		}
		return m.Index, row.FieldBytes(m.Index), true
	}
	if len(r.headers) > 0 {
		for i, h := range r.headers {
			if h == m.Name && i < row.Len() {
				return i, row.FieldBytes(i), true
			}
		}
		return -1, nil, false
	}
	if declOrder < row.Len() {
		return declOrder, row.FieldBytes(declOrder), true
	}
	return declOrder, nil, false
}

// GetRecords reads every remaining row into a freshly allocated []T,
// stopping at end of stream or the first error.
func GetRecords[T any](r *Reader) ([]T, error) {
	var out []T
	for {
		ok, err := r.Read()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		var rec T
		if err := r.GetRecord(&rec); err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
