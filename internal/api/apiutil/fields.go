package apiutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
)

func ParsePositiveIntField(raw string, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

// ParseAmountField reads a non-negative reais amount typed into a form.
func ParseAmountField(raw string, field string) (pricing.Amount, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	amount, err := pricing.ParseAmount(raw)
	if err != nil {
		return 0, FieldError{Field: field, Reason: "must be a valid amount"}
	}
	return amount, nil
}

// ParseDateField reads a YYYY-MM-DD date.
func ParseDateField(raw string, field string) (calendar.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return calendar.Date{}, FieldError{Field: field, Reason: "is required"}
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, FieldError{Field: field, Reason: "must be a date (YYYY-MM-DD)"}
	}
	return d, nil
}

// ParseOptionalDate reads a YYYY-MM-DD date and returns the zero Date for a
// blank value.
func ParseOptionalDate(raw string, field string) (calendar.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return calendar.Date{}, nil
	}
	return ParseDateField(raw, field)
}

// ParseMonthField reads a YYYY-MM month and returns its first day.
func ParseMonthField(raw string, field string) (calendar.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return calendar.Date{}, FieldError{Field: field, Reason: "is required"}
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return calendar.Date{}, FieldError{Field: field, Reason: "must be a month (YYYY-MM)"}
	}
	return calendar.NewDate(t.Year(), t.Month(), 1), nil
}

// FormatMonth is the inverse of ParseMonthField.
func FormatMonth(d calendar.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}
