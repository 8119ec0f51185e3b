package csvmap

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/fatih/structtag"
)

// DefaultTagName is the struct tag key attribute discovery reads,
// matching the "csv" tag used throughout the reference corpus
// (burungbangkai-go-csv-serde's WithTagName default).
const DefaultTagName = "csv"

// buildFromTags discovers all exported settable fields of typ and turns
// them into MemberMappings from their "csv" tag, following spec.md §4.4:
// skip fields tagged "-", use the tag name (else the field name) as the
// column name, and honor an "index=N" tag option when present.
func buildFromTags(typ reflect.Type, tagName string) []MemberMapping {
	if tagName == "" {
		tagName = DefaultTagName
	}
	var mappings []MemberMapping
	walkFields(typ, nil, tagName, &mappings)
	return mappings
}

func walkFields(typ reflect.Type, prefix []int, tagName string, out *[]MemberMapping) {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		path := append(append([]int{}, prefix...), i)

		name := f.Name
		ignore := false
		index := -1

		if tags, err := structtag.Parse(string(f.Tag)); err == nil {
			if t, err := tags.Get(tagName); err == nil {
				if t.Name == "-" {
					ignore = true
				} else if t.Name != "" {
					name = t.Name
				}
				for _, opt := range t.Options {
					if v, found := strings.CutPrefix(opt, "index="); found {
						if n, err := strconv.Atoi(v); err == nil {
							index = n
						}
					}
				}
			}
		}

		if ignore {
			continue
		}

		*out = append(*out, MemberMapping{
			Name:      name,
			Index:     index,
			Type:      f.Type,
			fieldPath: path,
		})
	}
}
