package gocsv

import (
	"github.com/oleg578/gocsv/internal/bufpool"
)

// Row is a zero-copy view over one parsed record. It is valid only until
// the next row-advancing call (TryReadRow, Read, TryReadDictionary) on
// the Reader that produced it: the backing buffer is reused for the next
// row. Call Clone to retain a row past that point.
type Row struct {
	buf    []byte
	tokens []bufpool.FieldToken
	index  int64
	line   int64
}

func newRow(rb *bufpool.RowBuffer, index, line int64) Row {
	return Row{buf: rb.Bytes(), tokens: rb.Tokens(), index: index, line: line}
}

// Len reports the number of fields in the row.
func (r Row) Len() int { return len(r.tokens) }

// RowIndex is the 0-based index of this row among the rows the Reader
// has returned, excluding the header row when HasHeader is set.
func (r Row) RowIndex() int64 { return r.index }

// LineNumber is the 1-based physical line the row started on.
func (r Row) LineNumber() int64 { return r.line }

// FieldBytes returns a zero-copy slice into the row's backing buffer for
// field i. The slice is only valid for the row's lifetime.
func (r Row) FieldBytes(i int) []byte {
	t := r.tokens[i]
	return r.buf[t.Start : t.Start+t.Length]
}

// Field returns field i as a freshly allocated string.
func (r Row) Field(i int) string {
	return string(r.FieldBytes(i))
}

// Clone copies the row's data out of the shared buffer so it survives
// past the next read. Go has no compile-time lifetime enforcement for
// the zero-copy view, so this is the explicit escape hatch.
func (r Row) Clone() Row {
	buf := make([]byte, len(r.buf))
	copy(buf, r.buf)
	tokens := make([]bufpool.FieldToken, len(r.tokens))
	copy(tokens, r.tokens)
	return Row{buf: buf, tokens: tokens, index: r.index, line: r.line}
}
