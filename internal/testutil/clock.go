package testutil

import "time"

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// ClockAt returns a FixedClock at noon UTC on the given day.
func ClockAt(year int, month time.Month, day int) FixedClock {
	return FixedClock(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}
