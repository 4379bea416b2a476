package calendar

import (
	"fmt"
	"sort"
)

// BlockedSet is an immutable set of unavailable days. Owner blocks and guest
// bookings are not distinguished. Mutating methods return a new set.
type BlockedSet struct {
	days map[Date]struct{}
}

// NewBlockedSet builds a set from the given days, ignoring zero dates.
func NewBlockedSet(days ...Date) BlockedSet {
	set := BlockedSet{days: make(map[Date]struct{}, len(days))}
	for _, d := range days {
		if d.IsZero() {
			continue
		}
		set.days[d] = struct{}{}
	}
	return set
}

// ParseBlockedSet reads the stored YYYY-MM-DD array form.
func ParseBlockedSet(raw []string) (BlockedSet, error) {
	days := make([]Date, 0, len(raw))
	for _, value := range raw {
		d, err := ParseDate(value)
		if err != nil {
			return BlockedSet{}, fmt.Errorf("blocked date: %w", err)
		}
		days = append(days, d)
	}
	return NewBlockedSet(days...), nil
}

func (s BlockedSet) Contains(d Date) bool {
	_, ok := s.days[d]
	return ok
}

func (s BlockedSet) Len() int { return len(s.days) }

// AddRange returns s plus every day from start to end inclusive.
func (s BlockedSet) AddRange(start, end Date) BlockedSet {
	next := s.clone()
	for _, d := range Days(start, end) {
		next.days[d] = struct{}{}
	}
	return next
}

// RemoveRange returns s minus every day from start to end inclusive.
func (s BlockedSet) RemoveRange(start, end Date) BlockedSet {
	next := s.clone()
	for _, d := range Days(start, end) {
		delete(next.days, d)
	}
	return next
}

// Toggle flips membership of a single day.
func (s BlockedSet) Toggle(d Date) BlockedSet {
	next := s.clone()
	if _, ok := next.days[d]; ok {
		delete(next.days, d)
	} else if !d.IsZero() {
		next.days[d] = struct{}{}
	}
	return next
}

// Sorted lists the days in ascending order.
func (s BlockedSet) Sorted() []Date {
	days := make([]Date, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Strings lists the days in ascending YYYY-MM-DD form.
func (s BlockedSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, d := range sorted {
		out[i] = d.String()
	}
	return out
}

// Equal reports whether both sets hold the same days.
func (s BlockedSet) Equal(other BlockedSet) bool {
	if len(s.days) != len(other.days) {
		return false
	}
	for d := range s.days {
		if _, ok := other.days[d]; !ok {
			return false
		}
	}
	return true
}

func (s BlockedSet) clone() BlockedSet {
	next := BlockedSet{days: make(map[Date]struct{}, len(s.days))}
	for d := range s.days {
		next.days[d] = struct{}{}
	}
	return next
}
