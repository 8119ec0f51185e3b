package csvmap

import (
	"fmt"
	"reflect"

	"github.com/oleg578/gocsv/convert"
)

// Builder collects fluent mapping overrides for one record type T. Register
// stores them, and GetOrCreate merges them over the attribute-discovered
// mappings when it builds T's ColumnMap.
type Builder[T any] struct {
	byField map[uintptr]*fieldOverride
	typ     reflect.Type
	zero    T
}

type fieldOverride struct {
	path      []int
	name      *string
	index     *int
	ignore    bool
	converter convert.Converter
}

// entry exposes the per-field chain: .Name/.Index/.Converter/.Ignore.
type entry struct{ ov *fieldOverride }

func newBuilder[T any]() *Builder[T] {
	var zero T
	return &Builder[T]{byField: make(map[uintptr]*fieldOverride), typ: reflect.TypeOf(zero), zero: zero}
}

// Map begins a fluent override for the field addressed by fieldPtr, which
// must point into the same T value the builder was constructed for, e.g.
// b.Map(&rec.Amount).Name("amount").
func (b *Builder[T]) Map(fieldPtr any) *entry {
	path, ok := b.resolvePath(fieldPtr)
	if !ok {
		panic("csvmap: Map argument does not point into the mapped type")
	}
	key := reflect.ValueOf(fieldPtr).Pointer()
	ov, exists := b.byField[key]
	if !exists {
		ov = &fieldOverride{path: path}
		b.byField[key] = ov
	}
	return &entry{ov: ov}
}

func (b *Builder[T]) resolvePath(fieldPtr any) ([]int, bool) {
	base := reflect.ValueOf(&b.zero).Pointer()
	target := reflect.ValueOf(fieldPtr).Pointer()
	offset := target - base
	return findFieldByOffset(reflect.TypeOf(b.zero), uintptr(offset), nil)
}

func findFieldByOffset(t reflect.Type, offset uintptr, prefix []int) ([]int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Offset == offset {
			return append(append([]int{}, prefix...), i), true
		}
		if f.Type.Kind() == reflect.Struct && offset >= f.Offset && offset < f.Offset+f.Type.Size() {
			if path, ok := findFieldByOffset(f.Type, offset-f.Offset, append(prefix, i)); ok {
				return path, true
			}
		}
	}
	return nil, false
}

// Name overrides the column name for this field.
func (e *entry) Name(name string) *entry { e.ov.name = &name; return e }

// Index pins this field to an explicit column position.
func (e *entry) Index(i int) *entry { e.ov.index = &i; return e }

// Converter attaches a per-field converter, taking precedence over any
// registry- or built-in-resolved conversion for this field.
func (e *entry) Converter(c convert.Converter) *entry { e.ov.converter = c; return e }

// Ignore excludes this field from the column map entirely.
func (e *entry) Ignore() *entry { e.ov.ignore = true; return e }

func applyOverrides(mappings []MemberMapping, overrides map[uintptr]*fieldOverride) []MemberMapping {
	if len(overrides) == 0 {
		return mappings
	}
	byPath := make(map[string]*fieldOverride, len(overrides))
	for _, ov := range overrides {
		byPath[fmt.Sprint(ov.path)] = ov
	}
	out := mappings[:0:0]
	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		key := fmt.Sprint(m.fieldPath)
		seen[key] = true
		if ov, ok := byPath[key]; ok {
			if ov.ignore {
				continue
			}
			if ov.name != nil {
				m.Name = *ov.name
			}
			if ov.index != nil {
				m.Index = *ov.index
			}
			if ov.converter != nil {
				m.Converter = ov.converter
			}
		}
		out = append(out, m)
	}
	return out
}
