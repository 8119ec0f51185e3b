package gocsv

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Dictionary is the ordered header-name to field-text view TryReadDictionary
// returns, preserving header order the way spec.md's "ordered mapping from
// header name to stringified field" wording requires. Built with
// wk8/go-ordered-map/v2 rather than a plain map, since a plain map's
// iteration order is unspecified in Go.
type Dictionary = orderedmap.OrderedMap[string, string]

func newDictionary(headers []string, row Row) *Dictionary {
	d := orderedmap.New[string, string](orderedmap.WithCapacity[string, string](row.Len()))
	for i := 0; i < row.Len(); i++ {
		name := columnName(headers, i)
		d.Set(name, row.Field(i))
	}
	return d
}

// columnName returns headers[i] if present, else the synthesized
// "Column<N>" (1-based) spec.md §4.2 specifies for rows wider than the
// captured header.
func columnName(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return syntheticColumnName(i)
}
