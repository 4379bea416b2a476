package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
)

// Scope is the granularity a rule applies at.
type Scope string

const (
	ScopeDay   Scope = "day"
	ScopeWeek  Scope = "week"
	ScopeMonth Scope = "month"
)

func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case ScopeDay, ScopeWeek, ScopeMonth:
		return Scope(raw), nil
	}
	return "", fmt.Errorf("unknown pricing scope %q", raw)
}

var ErrInvalidRule = errors.New("invalid pricing rule")

// Rule overrides the nightly price for a day, a week-of-month or a month.
// Only the fields of its Scope are meaningful.
type Rule struct {
	ID    string        `json:"id"`
	Scope Scope         `json:"scope"`
	Date  calendar.Date `json:"date,omitempty"`
	Year  int           `json:"year,omitempty"`
	Month time.Month    `json:"month,omitempty"`
	Week  int           `json:"week,omitempty"`
	Price Amount        `json:"price"`
}

func DayRule(d calendar.Date, price Amount) Rule {
	return Rule{Scope: ScopeDay, Date: d, Price: price}
}

func WeekRule(year int, month time.Month, week int, price Amount) Rule {
	return Rule{Scope: ScopeWeek, Year: year, Month: month, Week: week, Price: price}
}

func MonthRule(year int, month time.Month, price Amount) Rule {
	return Rule{Scope: ScopeMonth, Year: year, Month: month, Price: price}
}

// Validate checks the fields required by the rule's scope.
func (r Rule) Validate() error {
	if r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidRule)
	}
	switch r.Scope {
	case ScopeDay:
		if r.Date.IsZero() {
			return fmt.Errorf("%w: day rule needs a date", ErrInvalidRule)
		}
	case ScopeWeek:
		if r.Week < 1 || r.Week > 5 {
			return fmt.Errorf("%w: week of month must be 1-5", ErrInvalidRule)
		}
		fallthrough
	case ScopeMonth:
		if r.Year < 1 {
			return fmt.Errorf("%w: year is required", ErrInvalidRule)
		}
		if r.Month < time.January || r.Month > time.December {
			return fmt.Errorf("%w: month must be 1-12", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidRule, r.Scope)
	}
	return nil
}

// Key identifies the slot a rule occupies. Two rules with the same key
// would compete for the same days.
func (r Rule) Key() string {
	switch r.Scope {
	case ScopeDay:
		return "day:" + r.Date.String()
	case ScopeWeek:
		return fmt.Sprintf("week:%04d-%02d-w%d", r.Year, int(r.Month), r.Week)
	case ScopeMonth:
		return fmt.Sprintf("month:%04d-%02d", r.Year, int(r.Month))
	}
	return ""
}

// Matches reports whether the rule covers d.
func (r Rule) Matches(d calendar.Date) bool {
	switch r.Scope {
	case ScopeDay:
		return r.Date.Equal(d)
	case ScopeWeek:
		return r.Year == d.Year() && r.Month == d.Month() && r.Week == d.WeekOfMonth()
	case ScopeMonth:
		return r.Year == d.Year() && r.Month == d.Month()
	}
	return false
}

// Label is a short human description used in the admin list.
func (r Rule) Label() string {
	switch r.Scope {
	case ScopeDay:
		return r.Date.Format("02/01/2006")
	case ScopeWeek:
		return fmt.Sprintf("Semana %d de %02d/%d", r.Week, int(r.Month), r.Year)
	case ScopeMonth:
		return fmt.Sprintf("%02d/%d", int(r.Month), r.Year)
	}
	return string(r.Scope)
}
