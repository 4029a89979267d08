// Package dateutils provides the calendar-day value type and the weekday
// arithmetic used by the deposit scheduler and the goal projector.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is the only layout dates are persisted and exchanged in.
const DateLayoutISO = "2006-01-02"

var whitespace = regexp.MustCompile(`\s+`)

// Date is an immutable calendar day with no time-of-day and no zone.
// Internally it is pinned to midnight UTC so that day arithmetic never
// crosses a DST boundary.
type Date struct {
	t time.Time
}

// NewDate returns the calendar day year-month-day. Out of range values are
// normalised the same way time.Date does (Jan 32 becomes Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseISO parses a YYYY-MM-DD string.
func ParseISO(s string) (Date, error) {
	s = CleanDateString(s)
	t, err := time.Parse(DateLayoutISO, s)
	if err != nil {
		return Date{}, fmt.Errorf("unable to parse date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// MustParseISO is ParseISO for literals known to be valid. It panics otherwise.
func MustParseISO(s string) Date {
	d, err := ParseISO(s)
	if err != nil {
		panic(err)
	}
	return d
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Time returns the day as midnight UTC.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Compare returns -1, 0 or 1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the number of days from d to o; negative if o is earlier.
func (d Date) DaysUntil(o Date) int {
	// Both are UTC midnights; time.Duration would saturate after ~292 years.
	return int((o.t.Unix() - d.t.Unix()) / secondsPerDay)
}

func (d Date) String() string {
	return d.t.Format(DateLayoutISO)
}

// MarshalText encodes the day as YYYY-MM-DD. JSON, YAML and CSV encoders all
// pick this up.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD day.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseISO(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock supplies the current instant. "Today" is always derived from it so
// tests and the --today flag can pin the calendar.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.At }

// FixedDay returns a clock pinned to noon on day, which keeps Today stable
// regardless of the zone the result is later viewed in.
func FixedDay(day Date) FixedClock {
	return FixedClock{At: day.Time().Add(12 * time.Hour)}
}

// Today returns the local calendar day of clock.Now().
func Today(clock Clock) Date {
	return DateOf(clock.Now())
}
