// Package calendar models date-only values and the availability rules built on them.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical serialized form of a Date.
const Layout = "2006-01-02"

// Date is a calendar day with no time component. The zero value is the
// "no date" sentinel; every non-zero Date is stored as UTC midnight so that
// comparisons and map keys never drift with time zones or DST.
type Date struct {
	t time.Time
}

// Clock abstracts "now" for today comparisons.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// NewDate builds a Date from its year, month and day. Out-of-range values
// are normalized the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime takes the wall-clock year/month/day of t in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day as seen in loc.
func Today(clock Clock, loc *time.Location) Date {
	if clock == nil {
		clock = systemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(clock.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD string. Full RFC3339 timestamps are accepted
// too and truncated to their UTC day, which is how inquiries were stored
// before dates were canonicalized.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(Layout, raw); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return FromTime(t.UTC()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int { return d.t.Year() }

func (d Date) Month() time.Month { return d.t.Month() }

func (d Date) Day() int { return d.t.Day() }

// WeekOfMonth buckets the day into 1–5 as ceil(day/7).
func (d Date) WeekOfMonth() int {
	return (d.t.Day() + 6) / 7
}

// Time returns the UTC midnight instant of d.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// AddDays steps whole calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the whole number of days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t).Hours() / 24)
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// Format renders d with a time layout, e.g. "02/01/2006".
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(layout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Ordered returns a and b with the earlier date first.
func Ordered(a, b Date) (Date, Date) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// Days lists every day from start to end inclusive. A reversed range is
// swapped first.
func Days(start, end Date) []Date {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	start, end = Ordered(start, end)
	days := make([]Date, 0, end.DaysSince(start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
