package calendar

import "time"

// MonthGrid lays out the month containing d as Sunday-first weeks. Cells
// outside the month are zero Dates.
func MonthGrid(d Date) [][]Date {
	first := d.FirstOfMonth()
	last := first.t.AddDate(0, 1, -1)
	lead := int(first.t.Weekday() - time.Sunday)

	var weeks [][]Date
	week := make([]Date, 7)
	col := lead
	for day := first; !day.t.After(last); day = day.AddDays(1) {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]Date, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// AddMonths moves to the first day of the month n months away.
func (d Date) AddMonths(n int) Date {
	first := d.FirstOfMonth()
	return Date{t: first.t.AddDate(0, n, 0)}
}
