package gocsv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/oleg578/gocsv/convert"
	"github.com/stretchr/testify/require"
)

type invoiceRecord struct {
	ID       convert.GUID    `csv:"id"`
	Customer string          `csv:"customer"`
	Amount   convert.Decimal `csv:"amount"`
	IssuedOn convert.DateOnly `csv:"issued_on"`
	Paid     bool            `csv:"paid"`
}

func TestReaderWriterRoundTrip(t *testing.T) {
	t.Parallel()

	id, err := convert.ParseGUID("01234567-89ab-cdef-0123-456789abcdef")
	require.NoError(t, err)
	amount, err := convert.ParseDecimal("1234.56", convert.Invariant)
	require.NoError(t, err)
	issued := convert.DateOnly{Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}

	records := []invoiceRecord{
		{ID: id, Customer: "Acme, Inc.", Amount: amount, IssuedOn: issued, Paid: true},
		{ID: id, Customer: "Widget \"Co\"", Amount: amount, IssuedOn: issued, Paid: false},
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, WriteHeader[invoiceRecord](w))
	for _, rec := range records {
		require.NoError(t, WriteRecord(w, rec))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	got, err := GetRecords[invoiceRecord](r)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestReaderWriterRoundTripNoHeaderDeclarationOrder(t *testing.T) {
	t.Parallel()

	type row struct {
		A string `csv:"a"`
		B int    `csv:"b"`
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, WriteRecord(w, row{A: "x", B: 1}))
	require.NoError(t, WriteRecord(w, row{A: "y", B: 2}))
	require.NoError(t, w.Close())

	r, err := NewReader(strings.NewReader(buf.String()), WithHasHeader(false))
	require.NoError(t, err)
	got, err := GetRecords[row](r)
	require.NoError(t, err)
	require.Equal(t, []row{{A: "x", B: 1}, {A: "y", B: 2}}, got)
}

func TestReaderWriterRoundTripDictionary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("name"))
	require.NoError(t, w.WriteField("age"))
	require.NoError(t, w.NextRecord())
	require.NoError(t, w.WriteField("bob"))
	require.NoError(t, w.WriteField("30"))
	require.NoError(t, w.NextRecord())
	require.NoError(t, w.Close())

	r, err := NewReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	dict, ok, err := r.TryReadDictionary()
	require.NoError(t, err)
	require.True(t, ok)

	v, ok := dict.Get("name")
	require.True(t, ok)
	require.Equal(t, "bob", v)
	v, ok = dict.Get("age")
	require.True(t, ok)
	require.Equal(t, "30", v)
}
