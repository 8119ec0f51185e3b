package convert

import "time"

// DateOnly and TimeOnly give the date-only and time-only parse targets
// spec.md §4.3 lists distinct Go types, since time.Time alone can't tell
// the built-in table which of the three culture layouts (date-time,
// date-only, time-only) to apply.

// DateOnly wraps a calendar date with no time-of-day component.
type DateOnly struct{ time.Time }

// TimeOnly wraps a time-of-day with no calendar date component.
type TimeOnly struct{ time.Time }
