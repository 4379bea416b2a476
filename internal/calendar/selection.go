package calendar

import "fmt"

// SelectionState names the three states of a check-in/check-out pick.
type SelectionState int

const (
	Empty SelectionState = iota
	OneSelected
	TwoSelected
)

func (s SelectionState) String() string {
	switch s {
	case OneSelected:
		return "one_selected"
	case TwoSelected:
		return "two_selected"
	default:
		return "empty"
	}
}

// Selection is an in-progress check-in/check-out pick. When two dates are
// held the first is never after the second.
type Selection struct {
	first  Date
	second Date
}

// NewSelection restores a selection from up to two dates, for example the
// start/end parameters a page round-trips. Zero dates are skipped and two
// dates are put in order.
func NewSelection(dates ...Date) (Selection, error) {
	var picked []Date
	for _, d := range dates {
		if !d.IsZero() {
			picked = append(picked, d)
		}
	}
	switch len(picked) {
	case 0:
		return Selection{}, nil
	case 1:
		return Selection{first: picked[0]}, nil
	case 2:
		first, second := Ordered(picked[0], picked[1])
		return Selection{first: first, second: second}, nil
	default:
		return Selection{}, fmt.Errorf("selection holds at most two dates, got %d", len(picked))
	}
}

func (s Selection) State() SelectionState {
	switch {
	case s.first.IsZero():
		return Empty
	case s.second.IsZero():
		return OneSelected
	default:
		return TwoSelected
	}
}

// Start returns the first picked date, if any.
func (s Selection) Start() (Date, bool) {
	return s.first, !s.first.IsZero()
}

// Range returns check-in and check-out once both are picked.
func (s Selection) Range() (checkIn, checkOut Date, ok bool) {
	if s.State() != TwoSelected {
		return Date{}, Date{}, false
	}
	return s.first, s.second, true
}

// Dates lists the picked dates in order.
func (s Selection) Dates() []Date {
	switch s.State() {
	case OneSelected:
		return []Date{s.first}
	case TwoSelected:
		return []Date{s.first, s.second}
	}
	return nil
}

// Pick applies one user pick. Blocked days and days before today leave the
// selection unchanged. Picking the check-in day again yields a same-day range.
func (s Selection) Pick(d Date, blocked BlockedSet, today Date) Selection {
	if d.IsZero() || blocked.Contains(d) || d.Before(today) {
		return s
	}
	switch s.State() {
	case Empty:
		return Selection{first: d}
	case OneSelected:
		if d.Before(s.first) {
			return Selection{first: d, second: s.first}
		}
		return Selection{first: s.first, second: d}
	default:
		return Selection{first: d}
	}
}

// Reset cancels the selection.
func (s Selection) Reset() Selection {
	return Selection{}
}
