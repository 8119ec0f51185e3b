package gocsv

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderReadRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  []Option
		want  [][]string
	}{
		{
			name:  "basicRows",
			input: "h1,h2\none,two\nthree,four\n",
			want:  [][]string{{"one", "two"}, {"three", "four"}},
		},
		{
			name:  "finalRowWithoutTerminator",
			input: "h1,h2,h3\nalpha,beta,gamma",
			want:  [][]string{{"alpha", "beta", "gamma"}},
		},
		{
			name:  "windowsLineEndings",
			input: "h1,h2\r\na,b\r\nc,d\r\n",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "quotedComma",
			input: "h1,h2,h3\na,\"b,b\",c\n",
			want:  [][]string{{"a", "b,b", "c"}},
		},
		{
			name:  "escapedQuoteDoubled",
			input: "h1,h2,h3\na,\"b\"\"c\",d\n",
			want:  [][]string{{"a", "b\"c", "d"}},
		},
		{
			name:  "escapedQuoteDistinctEscape",
			input: "h1,h2,h3\na,\"b\\\"c\",d\n",
			opts:  []Option{WithEscape('\\')},
			want:  [][]string{{"a", "b\"c", "d"}},
		},
		{
			name:  "embeddedNewline",
			input: "h1,h2,h3\na,\"b\nc\",d\n",
			want:  [][]string{{"a", "b\nc", "d"}},
		},
		{
			name:  "emptyFields",
			input: "h1,h2,h3\n,,\n",
			want:  [][]string{{"", "", ""}},
		},
		{
			name:  "customDelimiter",
			input: "h1;h2\nleft;right\nup;down\n",
			opts:  []Option{WithDelimiter(';')},
			want:  [][]string{{"left", "right"}, {"up", "down"}},
		},
		{
			name:  "customQuote",
			input: "h1,h2,h3\nalpha,'beta''gamma',delta\n",
			opts:  []Option{WithQuote('\'')},
			want:  [][]string{{"alpha", "beta'gamma", "delta"}},
		},
		{
			name:  "quotedEOF",
			input: "h1\n\"quoted\"",
			want:  [][]string{{"quoted"}},
		},
		{
			name:  "noHeader",
			input: "one\rtwo",
			opts:  []Option{WithHasHeader(false)},
			want:  [][]string{{"one"}, {"two"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewReader(strings.NewReader(tc.input), tc.opts...)
			require.NoError(t, err)

			var rows [][]string
			for {
				row, ok, err := r.TryReadRow()
				require.NoError(t, err)
				if !ok {
					break
				}
				fields := make([]string, row.Len())
				for i := range fields {
					fields[i] = row.Field(i)
				}
				rows = append(rows, fields)
			}
			require.Equal(t, tc.want, rows)
		})
	}
}

func TestReaderHeaders(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("name,age\nbob,30\n"))
	require.NoError(t, err)

	_, ok, err := r.TryReadRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"name", "age"}, r.Headers())
}

func TestReaderStrictBareQuote(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("h1,h2\na\"b,c\n"))
	require.NoError(t, err)

	_, _, err = r.TryReadRow()
	require.NoError(t, err)// header row

	_, ok, err := r.TryReadRow()
	require.False(t, ok)
	require.Error(t, err)

	var csvErr *CsvError
	require.True(t, errors.As(err, &csvErr))
	require.True(t, errors.Is(err, ErrBadData))
	require.Equal(t, int64(0), csvErr.RowIndex)
}

func TestReaderStrictUnterminatedQuote(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("h1\n\"value"))
	require.NoError(t, err)

	_, _, err = r.TryReadRow()
	require.NoError(t, err)

	_, ok, err := r.TryReadRow()
	require.False(t, ok)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadData))
}

func TestReaderDetectColumnCountMismatch(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("a,b\n1,2\n3\n"), WithDetectColumnCount(true), WithMode(Strict))
	require.NoError(t, err)

	row, ok, err := r.TryReadRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", row.Field(0))
	require.Equal(t, "2", row.Field(1))

	_, ok, err = r.TryReadRow()
	require.False(t, ok)
	require.Error(t, err)

	var csvErr *CsvError
	require.True(t, errors.As(err, &csvErr))
	require.Equal(t, int64(1), csvErr.RowIndex)
	require.Equal(t, int64(3), csvErr.LineNumber)
	require.Equal(t, 0, csvErr.FieldIndex)
}

func TestReaderLenientBadData(t *testing.T) {
	t.Parallel()

	var calls []BadDataContext
	r, err := NewReader(strings.NewReader("a,b\n1,te\"st\n"), WithMode(Lenient), WithBadDataFound(func(ctx BadDataContext) {
		calls = append(calls, ctx)
	}))
	require.NoError(t, err)

	row, ok, err := r.TryReadRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, len(calls))
	require.Equal(t, 1, calls[0].FieldIndex)
	require.Equal(t, "1", row.Field(0))
}

func TestReaderGetRecord(t *testing.T) {
	t.Parallel()

	type Person struct {
		Name string `csv:"name"`
		Age  int    `csv:"age"`
	}

	r, err := NewReader(strings.NewReader("name,age\nbob,30\nalice,25\n"))
	require.NoError(t, err)

	var people []Person
	for {
		ok, err := r.Read()
		require.NoError(t, err)
		if !ok {
			break
		}
		var p Person
		require.NoError(t, r.GetRecord(&p))
		people = append(people, p)
	}

	require.Equal(t, []Person{{Name: "bob", Age: 30}, {Name: "alice", Age: 25}}, people)
}

func TestReaderGetRecordLenientMissingColumn(t *testing.T) {
	t.Parallel()

	type Person struct {
		Name string `csv:"name"`
		Age  int    `csv:"age"`
	}

	r, err := NewReader(strings.NewReader("name\nbob\n"), WithMode(Lenient))
	require.NoError(t, err)

	ok, err := r.Read()
	require.NoError(t, err)
	require.True(t, ok)

	var p Person
	require.NoError(t, r.GetRecord(&p))
	require.Equal(t, Person{Name: "bob", Age: 0}, p)
}

func TestReaderGetRecordLenientConversionFailure(t *testing.T) {
	t.Parallel()

	type Person struct {
		Name string `csv:"name"`
		Age  int    `csv:"age"`
	}

	var calls []BadDataContext
	r, err := NewReader(strings.NewReader("name,age\nbob,not-a-number\n"), WithMode(Lenient), WithBadDataFound(func(ctx BadDataContext) {
		calls = append(calls, ctx)
	}))
	require.NoError(t, err)

	ok, err := r.Read()
	require.NoError(t, err)
	require.True(t, ok)

	p := Person{Age: 99}
	require.NoError(t, r.GetRecord(&p))
	require.Equal(t, Person{Name: "bob", Age: 0}, p)
	require.Equal(t, 1, len(calls))
	require.Equal(t, 1, calls[0].FieldIndex)
}

func TestReaderStrictMissingColumnAborts(t *testing.T) {
	t.Parallel()

	type Person struct {
		Name string `csv:"name"`
		Age  int    `csv:"age"`
	}

	r, err := NewReader(strings.NewReader("name\nbob\n"))
	require.NoError(t, err)

	ok, err := r.Read()
	require.NoError(t, err)
	require.True(t, ok)

	var p Person
	err = r.GetRecord(&p)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingField))
}

func TestReaderTryReadDictionary(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("name,age,city\nbob,30,ny,extra\n"))
	require.NoError(t, err)

	d, ok, err := r.TryReadDictionary()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, d.Len())

	v, ok := d.Get("city")
	require.True(t, ok)
	require.Equal(t, "ny", v)

	v, ok = d.Get("Column4")
	require.True(t, ok)
	require.Equal(t, "extra", v)
}

func TestNewReaderNilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		require.NotNil(t, recover())
	}()
	NewReader(nil)
}

func TestGetRecords(t *testing.T) {
	t.Parallel()

	type Row struct {
		A string `csv:"a"`
		B string `csv:"b"`
	}

	r, err := NewReader(strings.NewReader("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)

	rows, err := GetRecords[Row](r)
	require.NoError(t, err)
	require.Equal(t, []Row{{A: "1", B: "2"}, {A: "3", B: "4"}}, rows)
}
