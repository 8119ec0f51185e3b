// Package csvmap builds and caches the per-record-type column maps that
// bind CSV columns to struct fields by name, index, or struct tag, with
// per-column custom converters. Maps are built once per concrete type
// (from the "csv" struct tag, or from a fluent registration) and reused
// across every row a Reader or Writer processes.
package csvmap

import (
	"reflect"

	"github.com/oleg578/gocsv/convert"
)

// MemberMapping binds one struct field to one CSV column.
type MemberMapping struct {
	Name      string
	Index     int // -1 when unset; binding falls back to header lookup or declaration order
	Ignore    bool
	Type      reflect.Type
	fieldPath []int
	Converter convert.Converter // nil => resolve via the Reader/Writer's Registry
}

// Get reads the mapped field out of v, dereferencing pointers to structs
// along the way. It reports the zero Value if a nil pointer is
// encountered before the leaf field.
func (m MemberMapping) Get(v reflect.Value) reflect.Value {
	for _, idx := range m.fieldPath {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(idx)
	}
	return v
}

// Set writes value into the mapped field of v, allocating intermediate
// nil pointers along the path as needed.
func (m MemberMapping) Set(v reflect.Value, value reflect.Value) {
	for i, idx := range m.fieldPath {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		if i == len(m.fieldPath)-1 {
			v.Field(idx).Set(value)
			return
		}
		v = v.Field(idx)
	}
}

// ColumnMap is the ordered, cached binding for one concrete record type.
type ColumnMap struct {
	Mappings []MemberMapping
}

// ByIndex returns the mapping whose explicit Index equals i, if any.
func (cm *ColumnMap) ByIndex(i int) (MemberMapping, bool) {
	for _, m := range cm.Mappings {
		if m.Index == i {
			return m, true
		}
	}
	return MemberMapping{}, false
}

// ByName returns the mapping whose Name matches name, if any.
func (cm *ColumnMap) ByName(name string) (MemberMapping, bool) {
	for _, m := range cm.Mappings {
		if m.Name == name {
			return m, true
		}
	}
	return MemberMapping{}, false
}
