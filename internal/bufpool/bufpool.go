// Package bufpool provides the pooled character buffer and field-token list
// that back one row of parsing or one write cycle. Buffers are rented from a
// process-wide sync.Pool, grown geometrically when a row outgrows its
// current capacity, and returned exactly once on Close.
package bufpool

import (
	"sync"

	"github.com/oleg578/gocsv/internal/telemetry"
)

// FieldToken locates one field's bytes inside a RowBuffer's backing array.
type FieldToken struct {
	Start  int
	Length int
}

// RowBuffer is the pooled backing store for one parser instance. Its
// occupied prefix holds the concatenation of every completed and
// in-progress field of the current row.
type RowBuffer struct {
	buf    []byte
	tokens []FieldToken
	curLen int
}

var pool = sync.Pool{
	New: func() any {
		return &RowBuffer{
			buf:    make([]byte, 0, defaultCharBufferSize),
			tokens: make([]FieldToken, 0, 32),
		}
	},
}

const defaultCharBufferSize = 1 << 10

// Get rents a RowBuffer from the pool, sized to at least size bytes.
func Get(size int) *RowBuffer {
	rb := pool.Get().(*RowBuffer)
	if cap(rb.buf) < size {
		rb.buf = make([]byte, 0, size)
	}
	rb.buf = rb.buf[:0]
	rb.tokens = rb.tokens[:0]
	rb.curLen = 0
	return rb
}

// Put returns rb to the pool. Callers must not use rb afterward.
func Put(rb *RowBuffer) {
	if rb == nil {
		return
	}
	pool.Put(rb)
}

// Reset clears tokens and occupied length without releasing the pool
// backing array, ready for the next row.
func (rb *RowBuffer) Reset() {
	rb.buf = rb.buf[:0]
	rb.tokens = rb.tokens[:0]
	rb.curLen = 0
}

// AppendByte appends one byte to the in-progress field, growing the
// backing array geometrically (doubling) when it runs out of capacity.
func (rb *RowBuffer) AppendByte(b byte) {
	if len(rb.buf) == cap(rb.buf) {
		oldCap := cap(rb.buf)
		grown := make([]byte, len(rb.buf), oldCap*2+1)
		copy(grown, rb.buf)
		rb.buf = grown
		telemetry.PoolGrew(oldCap, cap(rb.buf))
	}
	rb.buf = append(rb.buf, b)
	rb.curLen++
}

// AppendBytes appends a run of bytes to the in-progress field.
func (rb *RowBuffer) AppendBytes(b []byte) {
	needed := len(rb.buf) + len(b)
	if needed > cap(rb.buf) {
		oldCap := cap(rb.buf)
		newCap := oldCap*2 + 1
		for newCap < needed {
			newCap *= 2
		}
		grown := make([]byte, len(rb.buf), newCap)
		copy(grown, rb.buf)
		rb.buf = grown
		telemetry.PoolGrew(oldCap, cap(rb.buf))
	}
	rb.buf = append(rb.buf, b...)
	rb.curLen += len(b)
}

// CompleteField appends a token spanning the current in-progress field and
// resets the running field-length counter.
func (rb *RowBuffer) CompleteField() {
	start := len(rb.buf) - rb.curLen
	rb.tokens = append(rb.tokens, FieldToken{Start: start, Length: rb.curLen})
	rb.curLen = 0
}

// TruncateField drops the last n bytes of the in-progress field, used to
// apply trim-end after a field's raw token has already been accumulated.
func (rb *RowBuffer) TruncateField(n int) {
	if n <= 0 || n > rb.curLen {
		return
	}
	rb.buf = rb.buf[:len(rb.buf)-n]
	rb.curLen -= n
}

// CurrentFieldLen reports the length of the in-progress field.
func (rb *RowBuffer) CurrentFieldLen() int { return rb.curLen }

// CurrentFieldBytes returns a view over the in-progress field's bytes,
// valid until the next Append call reallocates the backing array.
func (rb *RowBuffer) CurrentFieldBytes() []byte {
	return rb.buf[len(rb.buf)-rb.curLen:]
}

// Bytes returns the full occupied prefix of the backing array.
func (rb *RowBuffer) Bytes() []byte { return rb.buf }

// Tokens returns the field tokens accumulated so far.
func (rb *RowBuffer) Tokens() []FieldToken { return rb.tokens }

// Field returns the byte slice for token i.
func (rb *RowBuffer) Field(i int) []byte {
	t := rb.tokens[i]
	return rb.buf[t.Start : t.Start+t.Length]
}

// FieldCount returns the number of completed fields.
func (rb *RowBuffer) FieldCount() int { return len(rb.tokens) }
