package pricing

import (
	"github.com/casaluxe/stay/internal/calendar"
)

// Resolve returns the nightly price for d. A day rule beats a week rule,
// which beats a month rule, which beats def. Among rules of the same scope
// the first in slice order wins.
func Resolve(d calendar.Date, rules []Rule, def Amount) Amount {
	for _, scope := range [...]Scope{ScopeDay, ScopeWeek, ScopeMonth} {
		for _, r := range rules {
			if r.Scope == scope && r.Matches(d) {
				return r.Price
			}
		}
	}
	return def
}

// DayPrice is one line of a quote breakdown.
type DayPrice struct {
	Date  calendar.Date `json:"date"`
	Price Amount        `json:"price"`
}

// Quote is the priced outcome of a check-in/check-out selection.
type Quote struct {
	CheckIn     calendar.Date `json:"start_date"`
	CheckOut    calendar.Date `json:"end_date"`
	Nights      int           `json:"days"`
	Subtotal    Amount        `json:"subtotal"`
	CleaningFee Amount        `json:"cleaning_fee"`
	Total       Amount        `json:"total"`
	Breakdown   []DayPrice    `json:"price_breakdown"`
}

// NewQuote prices every day from checkIn to checkOut inclusive. Nights
// counts both endpoints, so a same-day selection is one night. Reversed
// dates are put in order first.
func NewQuote(checkIn, checkOut calendar.Date, rules []Rule, nightly, cleaningFee Amount) Quote {
	checkIn, checkOut = calendar.Ordered(checkIn, checkOut)
	q := Quote{
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		CleaningFee: cleaningFee,
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		q.Total = cleaningFee
		return q
	}

	q.Nights = checkOut.DaysSince(checkIn) + 1
	days := calendar.Days(checkIn, checkOut)
	q.Breakdown = make([]DayPrice, 0, len(days))
	for _, d := range days {
		price := Resolve(d, rules, nightly)
		q.Breakdown = append(q.Breakdown, DayPrice{Date: d, Price: price})
		q.Subtotal += price
	}
	q.Total = q.Subtotal + cleaningFee
	return q
}
