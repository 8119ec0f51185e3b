package convert

import "strings"

// Culture describes the locale rules the built-in numeric and date
// converters use: which characters separate the integer and fractional
// parts of a number, which character (if any) groups thousands, and
// which time.Time layout date-only/time-only/date-time fields parse
// against. No locale library appears anywhere in the reference corpus,
// so this is a small hand-built table rather than a wrapped dependency;
// see DESIGN.md.
type Culture struct {
	Name                string
	DecimalSeparator    byte
	ThousandsSeparator  byte
	DateTimeLayout      string
	DateOnlyLayout      string
	TimeOnlyLayout      string
}

// Invariant is the culture-neutral default: '.' decimal point, ','
// thousands separator, RFC 3339-ish layouts.
var Invariant = Culture{
	Name:               "invariant",
	DecimalSeparator:   '.',
	ThousandsSeparator: ',',
	DateTimeLayout:     "2006-01-02T15:04:05",
	DateOnlyLayout:     "2006-01-02",
	TimeOnlyLayout:     "15:04:05",
}

var builtinCultures = map[string]Culture{
	"en-US": Invariant,
	"fr-FR": {
		Name:               "fr-FR",
		DecimalSeparator:   ',',
		ThousandsSeparator: ' ',
		DateTimeLayout:     "02/01/2006 15:04:05",
		DateOnlyLayout:     "02/01/2006",
		TimeOnlyLayout:     "15:04:05",
	},
	"de-DE": {
		Name:               "de-DE",
		DecimalSeparator:   ',',
		ThousandsSeparator: '.',
		DateTimeLayout:     "02.01.2006 15:04:05",
		DateOnlyLayout:     "02.01.2006",
		TimeOnlyLayout:     "15:04:05",
	},
}

// LookupCulture returns a registered built-in culture by name
// ("fr-FR", "de-DE", ...), falling back to Invariant for an unknown or
// empty name.
func LookupCulture(name string) Culture {
	if c, ok := builtinCultures[name]; ok {
		return c
	}
	return Invariant
}

// normalizeNumeric rewrites a culture-formatted numeric string into the
// Go/strconv-canonical form: c's decimal separator becomes '.', and c's
// thousands separator is stripped when allowThousands is set (the
// AllowThousands numeric style from spec.md §4.3) and kept otherwise.
func normalizeNumeric(raw string, c Culture, allowThousands bool) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch == c.ThousandsSeparator && allowThousands:
			continue
		case ch == c.DecimalSeparator:
			b.WriteByte('.')
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
