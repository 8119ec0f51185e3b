package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// Decimal is a fixed-point number represented as an unscaled integer and a
// power-of-ten scale, avoiding the binary rounding error of float64 for
// currency-shaped fields. No arbitrary-precision decimal library appears
// anywhere in the reference corpus (see DESIGN.md), so this stays
// deliberately minimal: enough precision for the amounts spec.md's
// end-to-end scenarios exercise, not a general-purpose bignum type.
type Decimal struct {
	Unscaled int64
	Scale    int8
}

// String renders the decimal using '.' as the decimal point regardless of
// culture; culture-aware rendering happens in FormatDecimal.
func (d Decimal) String() string {
	if d.Scale <= 0 {
		return strconv.FormatInt(d.Unscaled*pow10(int(-d.Scale)), 10)
	}
	neg := d.Unscaled < 0
	u := d.Unscaled
	if neg {
		u = -u
	}
	div := pow10(int(d.Scale))
	whole := u / div
	frac := u % div
	s := fmt.Sprintf("%d.%0*d", whole, d.Scale, frac)
	if neg {
		s = "-" + s
	}
	return s
}

func pow10(n int) int64 {
	r := int64(1)
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}

// ParseDecimal parses raw text under numeric style Number (culture-aware
// decimal point, optional thousands grouping) per spec.md §4.3.
func ParseDecimal(raw string, c Culture) (Decimal, error) {
	norm := normalizeNumeric(raw, c, true)
	neg := false
	if strings.HasPrefix(norm, "-") {
		neg = true
		norm = norm[1:]
	} else if strings.HasPrefix(norm, "+") {
		norm = norm[1:]
	}
	dot := strings.IndexByte(norm, '.')
	var wholePart, fracPart string
	if dot < 0 {
		wholePart = norm
	} else {
		wholePart = norm[:dot]
		fracPart = norm[dot+1:]
	}
	if wholePart == "" {
		wholePart = "0"
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("convert: invalid decimal %q: %w", raw, err)
	}
	scale := len(fracPart)
	var frac int64
	if scale > 0 {
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return Decimal{}, fmt.Errorf("convert: invalid decimal %q: %w", raw, err)
		}
	}
	unscaled := whole*pow10(scale) + frac
	if neg {
		unscaled = -unscaled
	}
	return Decimal{Unscaled: unscaled, Scale: int8(scale)}, nil
}

// FormatDecimal renders d using c's decimal separator.
func FormatDecimal(d Decimal, c Culture) string {
	s := d.String()
	if c.DecimalSeparator == '.' {
		return s
	}
	return strings.Replace(s, ".", string(c.DecimalSeparator), 1)
}
