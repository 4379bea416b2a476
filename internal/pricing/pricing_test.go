package pricing

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
)

func TestNewQuoteDefaultPrice(t *testing.T) {
	q := NewQuote(
		calendar.MustParseDate("2025-01-10"),
		calendar.MustParseDate("2025-01-12"),
		nil,
		Reais(1000),
		Reais(200),
	)
	if q.Nights != 3 {
		t.Fatalf("Nights = %d, want 3", q.Nights)
	}
	if q.Subtotal != Reais(3000) {
		t.Fatalf("Subtotal = %s, want R$ 3.000,00", q.Subtotal)
	}
	if q.Total != Reais(3200) {
		t.Fatalf("Total = %s, want R$ 3.200,00", q.Total)
	}
	if len(q.Breakdown) != 3 {
		t.Fatalf("Breakdown len = %d, want 3", len(q.Breakdown))
	}
}

func TestNewQuoteMonthAndDayRules(t *testing.T) {
	rules := []Rule{
		MonthRule(2025, time.January, Reais(1500)),
		DayRule(calendar.MustParseDate("2025-01-11"), Reais(500)),
	}
	q := NewQuote(
		calendar.MustParseDate("2025-01-10"),
		calendar.MustParseDate("2025-01-12"),
		rules,
		Reais(1000),
		Reais(200),
	)

	want := []Amount{Reais(1500), Reais(500), Reais(1500)}
	for i, line := range q.Breakdown {
		if line.Price != want[i] {
			t.Fatalf("Breakdown[%d] (%s) = %s, want %s", i, line.Date, line.Price, want[i])
		}
	}
	if q.Subtotal != Reais(3500) || q.Total != Reais(3700) {
		t.Fatalf("Subtotal/Total = %s/%s, want 3500/3700", q.Subtotal, q.Total)
	}
}

func TestNewQuoteReversedDatesMatchOrdered(t *testing.T) {
	a := calendar.MustParseDate("2025-01-10")
	b := calendar.MustParseDate("2025-01-12")
	rules := []Rule{DayRule(a, Reais(700))}

	forward := NewQuote(a, b, rules, Reais(1000), Reais(200))
	reversed := NewQuote(b, a, rules, Reais(1000), Reais(200))
	if forward.Total != reversed.Total || forward.Nights != reversed.Nights {
		t.Fatalf("forward %+v != reversed %+v", forward, reversed)
	}
	if !reversed.CheckIn.Equal(a) {
		t.Fatalf("reversed CheckIn = %s, want %s", reversed.CheckIn, a)
	}
}

func TestNewQuoteSameDayIsOneNight(t *testing.T) {
	d := calendar.MustParseDate("2025-02-01")
	q := NewQuote(d, d, nil, Reais(1000), Reais(200))
	if q.Nights != 1 || q.Subtotal != Reais(1000) || q.Total != Reais(1200) {
		t.Fatalf("same-day quote = %+v", q)
	}
}

func TestResolvePrecedence(t *testing.T) {
	d := calendar.MustParseDate("2025-01-09") // week 2
	day := DayRule(d, Reais(100))
	week := WeekRule(2025, time.January, 2, Reais(200))
	month := MonthRule(2025, time.January, Reais(300))
	def := Reais(400)

	tests := []struct {
		name  string
		rules []Rule
		want  Amount
	}{
		{name: "day_beats_all", rules: []Rule{month, week, day}, want: Reais(100)},
		{name: "week_beats_month", rules: []Rule{month, week}, want: Reais(200)},
		{name: "month_beats_default", rules: []Rule{month}, want: Reais(300)},
		{name: "default", rules: nil, want: def},
		{
			name: "non_matching_scopes_ignored",
			rules: []Rule{
				DayRule(d.AddDays(1), Reais(1)),
				WeekRule(2025, time.January, 3, Reais(2)),
				MonthRule(2024, time.January, Reais(3)),
				MonthRule(2025, time.February, Reais(4)),
			},
			want: def,
		},
		{
			name:  "first_duplicate_wins",
			rules: []Rule{DayRule(d, Reais(11)), DayRule(d, Reais(22))},
			want:  Reais(11),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(d, tt.rules, def); got != tt.want {
				t.Fatalf("Resolve = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveWeekFiveIsShort(t *testing.T) {
	rule := WeekRule(2025, time.February, 5, Reais(900))
	// February 2025 has 28 days, so week 5 is empty.
	for _, d := range calendar.Days(calendar.NewDate(2025, time.February, 1), calendar.NewDate(2025, time.February, 28)) {
		if rule.Matches(d) {
			t.Fatalf("week 5 rule matched %s", d)
		}
	}
	march := WeekRule(2025, time.March, 5, Reais(900))
	for _, day := range []int{29, 30, 31} {
		if !march.Matches(calendar.NewDate(2025, time.March, day)) {
			t.Fatalf("week 5 rule should match March %d", day)
		}
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{name: "day_ok", rule: DayRule(calendar.MustParseDate("2025-01-01"), Reais(10))},
		{name: "day_missing_date", rule: DayRule(calendar.Date{}, Reais(10)), wantErr: true},
		{name: "week_ok", rule: WeekRule(2025, time.March, 5, 0)},
		{name: "week_zero", rule: WeekRule(2025, time.March, 0, 0), wantErr: true},
		{name: "week_six", rule: WeekRule(2025, time.March, 6, 0), wantErr: true},
		{name: "month_bad_month", rule: MonthRule(2025, 13, 0), wantErr: true},
		{name: "month_no_year", rule: MonthRule(0, time.May, 0), wantErr: true},
		{name: "negative_price", rule: MonthRule(2025, time.May, -1), wantErr: true},
		{name: "unknown_scope", rule: Rule{Scope: "year"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRule) {
					t.Fatalf("Validate() = %v, want ErrInvalidRule", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v", err)
			}
		})
	}
}

func TestRuleKey(t *testing.T) {
	if got := DayRule(calendar.MustParseDate("2025-01-11"), 0).Key(); got != "day:2025-01-11" {
		t.Fatalf("day key = %q", got)
	}
	if got := WeekRule(2025, time.January, 2, 0).Key(); got != "week:2025-01-w2" {
		t.Fatalf("week key = %q", got)
	}
	if got := MonthRule(2025, time.January, 0).Key(); got != "month:2025-01" {
		t.Fatalf("month key = %q", got)
	}
	a := MonthRule(2025, time.January, Reais(1))
	b := MonthRule(2025, time.January, Reais(2))
	if a.Key() != b.Key() {
		t.Fatal("same slot with different price should share a key")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    Amount
		wantErr bool
	}{
		{input: "1000", want: Reais(1000)},
		{input: "1000.50", want: 100050},
		{input: "1000,5", want: 100050},
		{input: "1.000,50", want: 100050},
		{input: "R$ 1.250.000,00", want: Reais(1250000)},
		{input: "0", want: 0},
		{input: "", wantErr: true},
		{input: "-10", wantErr: true},
		{input: "10.123", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "92233720368547757,99", want: 9223372036854775799},
		{input: "92233720368547758", wantErr: true},
		{input: "999999999999999999999", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %d, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestAmountString(t *testing.T) {
	tests := map[Amount]string{
		0:             "R$ 0,00",
		Reais(200):    "R$ 200,00",
		100050:        "R$ 1.000,50",
		Reais(123456): "R$ 123.456,00",
	}
	for amount, want := range tests {
		if got := amount.String(); got != want {
			t.Errorf("Amount(%d).String() = %q, want %q", int64(amount), got, want)
		}
	}
}

func TestAmountJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Total Amount `json:"total"`
	}{Total: 320050})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(payload) != `{"total":3200.50}` {
		t.Fatalf("Marshal = %s", payload)
	}

	var decoded struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":1500,"b":"1.000,25"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.A != Reais(1500) || decoded.B != 100025 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want Amount
	}{
		{1000, Reais(1000)},
		{199.99, Amount(19999)},
		{0.1, Amount(10)},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := FromFloat(tt.in); got != tt.want {
			t.Errorf("FromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
