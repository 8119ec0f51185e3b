package gocsv

import (
	"context"
	"io"

	"github.com/oleg578/gocsv/internal/bufpool"
	"github.com/oleg578/gocsv/internal/source"
	"github.com/oleg578/gocsv/internal/telemetry"
)

// fieldState is the per-field parser state from spec.md §4.1. States are
// not persisted across Read calls; each row starts InField.
type fieldState int

const (
	stateInField fieldState = iota
	stateInQuotedField
	stateAfterClosingQuote
)

// parser is the character-level state machine. It owns the pooled row
// buffer and the byte source, and produces one row per call to readRow,
// generalizing the teacher's single fast-path Read loop into the
// three-state machine spec.md §4.1 specifies (escape-vs-quote duality,
// trim policy, blank-line suppression, and lenient bad-data recovery,
// none of which the teacher's doubled-quote-only loop implements).
type parser struct {
	src  *source.Source
	opts Options
	rb   *bufpool.RowBuffer

	rowIndex     int64
	headerOffset int64
	lineNumber   int64
	rowStartLine int64

	expectedFieldCount int
	haveExpected       bool
	detectedNewline    string
}

// markHeaderConsumed tells the parser that the row just scanned was a
// header row, not a data row: every row_index reported afterward (in
// CsvError and BadDataContext) is relative to the first data row, per
// spec.md §8 scenario 5's row-numbering.
func (p *parser) markHeaderConsumed() {
	p.headerOffset = p.rowIndex
}

func (p *parser) publicRowIndex() int64 {
	return p.rowIndex - p.headerOffset
}

// lastRowIndex is publicRowIndex for the row readRow just finished
// returning (after its internal rowIndex++).
func (p *parser) lastRowIndex() int64 {
	return p.rowIndex - 1 - p.headerOffset
}

// lastLineNumber is the physical line the row readRow just finished
// returning started on. p.lineNumber has already been advanced past that
// row's own trailing newline by the time readRow returns, the same
// off-by-one lastRowIndex compensates for on the row-index axis.
func (p *parser) lastLineNumber() int64 {
	return p.rowStartLine
}

func newParser(r io.Reader, opts Options) *parser {
	return &parser{
		src:          source.New(r, opts.ByteBufferSize),
		opts:         opts,
		rb:           bufpool.Get(opts.CharBufferSize),
		lineNumber:   1,
		rowStartLine: 1,
	}
}

func (p *parser) close() {
	if p.rb != nil {
		bufpool.Put(p.rb)
		p.rb = nil
	}
}

// readRow parses the next logical row into p.rb, applying blank-line
// suppression and column-count detection in a loop so the caller always
// gets either a row or (false, nil) at end of stream.
func (p *parser) readRow(ctx context.Context) (ok bool, err error) {
	for {
		p.rb.Reset()
		p.rowStartLine = p.lineNumber
		fieldCount, sawAny, err := p.scanRow(ctx)
		if err != nil {
			return false, err
		}
		if !sawAny {
			return false, nil
		}

		if p.opts.IgnoreBlankLines && fieldCount == 1 && len(p.rb.Field(0)) == 0 {
			continue
		}

		if p.opts.DetectColumnCount {
			if !p.haveExpected {
				p.expectedFieldCount = fieldCount
				p.haveExpected = true
			} else if fieldCount != p.expectedFieldCount {
				badErr := p.reportBadDataAt(p.rowStartLine, fieldCount-1, "wrong number of fields")
				if badErr != nil {
					return false, badErr
				}
			}
		}

		p.rowIndex++
		return true, nil
	}
}

// scanRow runs the InField/InQuotedField/AfterClosingQuote transition
// table for exactly one row.
func (p *parser) scanRow(ctx context.Context) (fieldCount int, sawAny bool, err error) {
	state := stateInField
	fieldIndex := 0

	next := func() (byte, error) {
		if ctx == nil {
			return p.src.Next()
		}
		return p.src.NextContext(ctx)
	}

	for {
		c, rerr := next()
		if rerr != nil {
			if rerr == io.EOF {
				return p.finishAtEOF(state, fieldIndex, sawAny)
			}
			return 0, false, rerr
		}
		sawAny = true

		switch state {
		case stateInField:
			switch {
			case c == p.opts.Delimiter:
				p.applyTrimEnd()
				p.rb.CompleteField()
				fieldIndex++
			case c == p.opts.Quote && p.rb.CurrentFieldLen() == 0:
				state = stateInQuotedField
			case c == p.opts.Quote:
				if badErr := p.reportBadData(fieldIndex, "unexpected quote in unquoted field"); badErr != nil {
					return 0, false, badErr
				}
				p.rb.AppendByte(c)
			case c == '\r' || c == '\n':
				if err := p.consumeNewlineSuffix(c, next); err != nil {
					return 0, false, err
				}
				p.applyTrimEnd()
				p.rb.CompleteField()
				return p.rb.FieldCount(), true, nil
			case p.rb.CurrentFieldLen() == 0 && (p.opts.Trim == TrimStart || p.opts.Trim == TrimBoth) && isSpace(c):
				// drop leading whitespace
			default:
				p.rb.AppendByte(c)
			}

		case stateInQuotedField:
			escape := p.opts.escape()
			switch {
			case escape != p.opts.Quote && c == escape:
				d, derr := next()
				if derr == io.EOF {
					p.rb.AppendByte(c)
				} else if derr != nil {
					return 0, false, derr
				} else if d == p.opts.Quote {
					p.rb.AppendByte(p.opts.Quote)
				} else {
					p.src.Push(d)
					p.rb.AppendByte(c)
				}
			case c == p.opts.Quote:
				d, derr := next()
				if derr == io.EOF {
					state = stateAfterClosingQuote
				} else if derr != nil {
					return 0, false, derr
				} else if d == p.opts.Quote {
					p.rb.AppendByte(p.opts.Quote)
				} else {
					p.src.Push(d)
					state = stateAfterClosingQuote
				}
			default:
				if c == '\n' {
					p.lineNumber++
				}
				p.rb.AppendByte(c)
			}

		case stateAfterClosingQuote:
			switch {
			case c == p.opts.Delimiter:
				p.applyTrimEnd()
				p.rb.CompleteField()
				fieldIndex++
				state = stateInField
			case c == '\r' || c == '\n':
				if err := p.consumeNewlineSuffix(c, next); err != nil {
					return 0, false, err
				}
				p.applyTrimEnd()
				p.rb.CompleteField()
				return p.rb.FieldCount(), true, nil
			case isSpace(c):
				// drop trailing whitespace after closing quote
			default:
				if badErr := p.reportBadData(fieldIndex, "unexpected character after closing quote"); badErr != nil {
					return 0, false, badErr
				}
				state = stateInField
				p.rb.AppendByte(c)
			}
		}
	}
}

// finishAtEOF applies spec.md §4.1's end-of-stream rules: no data at all
// means "no row"; an unterminated quoted field is bad data; otherwise
// flush the pending field as the final row.
func (p *parser) finishAtEOF(state fieldState, fieldIndex int, sawAny bool) (int, bool, error) {
	if !sawAny && p.rb.FieldCount() == 0 && p.rb.CurrentFieldLen() == 0 {
		return 0, false, nil
	}
	if state == stateInQuotedField {
		if badErr := p.reportBadData(fieldIndex, "unexpected end of file while inside a quoted field"); badErr != nil {
			return 0, false, badErr
		}
	}
	p.applyTrimEnd()
	p.rb.CompleteField()
	return p.rb.FieldCount(), true, nil
}

// consumeNewlineSuffix implements the CR/LF pairing and detected-newline
// tracking from spec.md §4.1, using the source's one-byte pushback for
// the "read one more, push back if not LF" rule.
func (p *parser) consumeNewlineSuffix(c byte, next func() (byte, error)) error {
	seq := string(c)
	if c == '\r' {
		d, err := next()
		if err == nil {
			if d == '\n' {
				seq = "\r\n"
			} else {
				p.src.Push(d)
			}
		} else if err != io.EOF {
			return err
		}
	}
	if p.detectedNewline == "" {
		p.detectedNewline = seq
	}
	p.lineNumber++
	return nil
}

// applyTrimEnd drops trailing whitespace from the raw completed token,
// regardless of whether the field was quoted, per spec.md §9's resolved
// open question.
func (p *parser) applyTrimEnd() {
	if p.opts.Trim != TrimEnd && p.opts.Trim != TrimBoth {
		return
	}
	field := p.rb.CurrentFieldBytes()
	n := 0
	for n < len(field) && isSpace(field[len(field)-1-n]) {
		n++
	}
	p.rb.TruncateField(n)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

// reportBadData applies the strict/lenient error policy from spec.md §7:
// strict raises, lenient logs and invokes BadDataFound, then continues.
// It reports the live line number, correct for every call site inside
// scanRow, where the current row's trailing newline hasn't been consumed
// yet.
func (p *parser) reportBadData(fieldIndex int, message string) error {
	return p.reportBadDataAt(p.lineNumber, fieldIndex, message)
}

// reportBadDataAt is reportBadData with an explicit line number, for call
// sites (like readRow's column-count check) that run after scanRow has
// already consumed the row's own trailing newline and advanced
// p.lineNumber past it.
func (p *parser) reportBadDataAt(lineNumber int64, fieldIndex int, message string) error {
	if p.opts.Mode == Strict {
		return newBadDataError(p.publicRowIndex(), lineNumber, fieldIndex, message)
	}
	telemetry.BadData(p.publicRowIndex(), lineNumber, fieldIndex, message)
	if p.opts.BadDataFound != nil {
		raw := append([]byte(nil), p.rb.CurrentFieldBytes()...)
		p.opts.BadDataFound(BadDataContext{
			RowIndex:   p.publicRowIndex(),
			LineNumber: lineNumber,
			FieldIndex: fieldIndex,
			Message:    message,
			RawField:   raw,
		})
	}
	return nil
}
