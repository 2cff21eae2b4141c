package model

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for all persisted dates.
const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component. The zero value is
// "no date" and serializes to an empty string.
type Date struct {
	t time.Time
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate parses a date and panics on failure. For tests and
// compile-time-constant dates only.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current calendar day in local time.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates a time to its calendar day.
func DateOf(t time.Time) Date {
	y, m, day := t.Date()
	return Date{t: time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether d is the "no date" value.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats the date as "YYYY-MM-DD", or "" for the zero value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether two dates are the same calendar day. go-cmp and
// the == operator both work on Date, but Equal keeps comparisons explicit.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil returns the number of days from d to other (negative if other
// is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted date string. Empty strings and null decode
// to the zero value, matching documents written before a field existed.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
