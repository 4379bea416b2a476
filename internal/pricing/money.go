// Package pricing resolves nightly prices from date-scoped rules and
// computes stay quotes.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a non-negative money value in centavos.
type Amount int64

// Reais builds an Amount from whole reais.
func Reais(n int64) Amount { return Amount(n * 100) }

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a decimal reais amount as typed in the admin forms:
// "1000", "1000.50", "1000,50" and "1.000,50" are all accepted.
func ParseAmount(raw string) (Amount, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "R$")
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	switch {
	case strings.Contains(value, ","):
		// Brazilian notation: dots group thousands, the comma is the decimal mark.
		value = strings.ReplaceAll(value, ".", "")
		value = strings.Replace(value, ",", ".", 1)
	case strings.Count(value, ".") > 1:
		value = strings.ReplaceAll(value, ".", "")
	}

	whole, frac, hasFrac := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 || units > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
	}
	return Amount(units*100 + cents), nil
}

// FromFloat converts a reais value, as read from config, to an Amount.
func FromFloat(v float64) Amount {
	if v <= 0 {
		return 0
	}
	return Amount(v*100 + 0.5)
}

// Decimal renders the amount as plain reais with two decimals, e.g. "1000.50".
func (a Amount) Decimal() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// String renders the amount in pt-BR currency notation, e.g. "R$ 1.000,50".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v/100, 10)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), v%100)
}

// MarshalJSON encodes the amount as a reais number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal()), nil
}

// UnmarshalJSON accepts a reais number or a string in any ParseAmount form.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "null" || raw == "" {
		*a = 0
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !strings.Contains(raw, ",") {
		if f < 0 {
			return fmt.Errorf("%w: negative", ErrInvalidAmount)
		}
		*a = Amount(f*100 + 0.5)
		return nil
	}
	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
