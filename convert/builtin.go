package convert

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Char is the parse target for spec.md's "char" built-in: exactly one
// code point. It is a distinct named type from rune/int32 so the built-in
// table can tell "parse a single character" apart from "parse an int32".
type Char rune

var (
	decimalType  = reflect.TypeOf(Decimal{})
	guidType     = reflect.TypeOf(GUID{})
	charType     = reflect.TypeOf(Char(0))
	timeType     = reflect.TypeOf(time.Time{})
	dateOnlyType = reflect.TypeOf(DateOnly{})
	timeOnlyType = reflect.TypeOf(TimeOnly{})
)

// parseBuiltin implements the built-in parse table from spec.md §4.3,
// falling back to enum lookup for named integer types registered via
// Registry.RegisterEnum.
func parseBuiltin(ctx Context, raw []byte, t reflect.Type, registry *Registry) (reflect.Value, error) {
	s := string(raw)

	switch t {
	case decimalType:
		d, err := ParseDecimal(s, ctx.Culture)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	case guidType:
		g, err := ParseGUID(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(g), nil
	case charType:
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError || size != len(s) {
			return reflect.Value{}, fmt.Errorf("convert: %q is not a single character", s)
		}
		return reflect.ValueOf(Char(r)), nil
	case timeType:
		tm, err := time.Parse(ctx.Culture.DateTimeLayout, s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert: invalid date-time %q: %w", s, err)
		}
		return reflect.ValueOf(tm), nil
	case dateOnlyType:
		tm, err := time.Parse(ctx.Culture.DateOnlyLayout, s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert: invalid date %q: %w", s, err)
		}
		return reflect.ValueOf(DateOnly{tm}), nil
	case timeOnlyType:
		tm, err := time.Parse(ctx.Culture.TimeOnlyLayout, s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert: invalid time %q: %w", s, err)
		}
		return reflect.ValueOf(TimeOnly{tm}), nil
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fwd, _, ok := registry.lookupEnum(t); ok {
			v, err := parseEnum(s, fwd, t)
			if err != nil {
				return reflect.Value{}, err
			}
			return v, nil
		}
		n, err := strconv.ParseInt(normalizeNumeric(s, ctx.Culture, false), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert: invalid integer %q: %w", s, err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(normalizeNumeric(s, ctx.Culture, false), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert: invalid unsigned integer %q: %w", s, err)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(normalizeNumeric(s, ctx.Culture, true), t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("convert: invalid float %q: %w", s, err)
		}
		return reflect.ValueOf(f).Convert(t), nil
	}

	return reflect.Value{}, unsupportedTypeErr(t)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("convert: invalid bool %q", s)
}

func parseEnum(s string, fwd map[string]int64, t reflect.Type) (reflect.Value, error) {
	v, ok := fwd[normalizeEnumName(s)]
	if !ok {
		return reflect.Value{}, fmt.Errorf("convert: %q is not a valid %s value", s, t)
	}
	return reflect.ValueOf(v).Convert(t), nil
}

// formatBuiltin mirrors parseBuiltin for the writer path.
func formatBuiltin(ctx Context, v reflect.Value, registry *Registry) (string, error) {
	t := v.Type()

	switch t {
	case decimalType:
		return FormatDecimal(v.Interface().(Decimal), ctx.Culture), nil
	case guidType:
		return v.Interface().(GUID).String(), nil
	case charType:
		return string(rune(v.Interface().(Char))), nil
	case timeType:
		return v.Interface().(time.Time).Format(ctx.Culture.DateTimeLayout), nil
	case dateOnlyType:
		return v.Interface().(DateOnly).Format(ctx.Culture.DateOnlyLayout), nil
	case timeOnlyType:
		return v.Interface().(TimeOnly).Format(ctx.Culture.TimeOnlyLayout), nil
	}

	switch t.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if _, back, ok := registry.lookupEnum(t); ok {
			if name, ok := back[v.Int()]; ok {
				return name, nil
			}
		}
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return formatFloat(v.Float(), ctx.Culture, t.Bits()), nil
	}

	return "", unsupportedTypeErr(t)
}

func formatFloat(f float64, c Culture, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if c.DecimalSeparator == '.' {
		return s
	}
	return strings.Replace(s, ".", string(c.DecimalSeparator), 1)
}
