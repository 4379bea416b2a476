package calendar

import (
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "2025-01-10", want: "2025-01-10"},
		{name: "padded", input: "  2025-01-10 ", want: "2025-01-10"},
		{name: "rfc3339_utc", input: "2025-01-10T03:00:00Z", want: "2025-01-10"},
		{name: "rfc3339_offset_crosses_day", input: "2025-01-10T22:00:00-03:00", want: "2025-01-11"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "10/01/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Fatalf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {21, 3}, {22, 4}, {28, 4}, {29, 5}, {31, 5},
	}
	for _, tt := range tests {
		if got := NewDate(2025, time.January, tt.day).WeekOfMonth(); got != tt.want {
			t.Errorf("day %d: WeekOfMonth() = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestFromTimeUsesWallClockDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2025, time.March, 5, 23, 30, 0, 0, loc)
	if got := FromTime(late).String(); got != "2025-03-05" {
		t.Fatalf("FromTime = %s, want 2025-03-05", got)
	}
	if got := Today(fixedClock{now: late}, time.UTC).String(); got != "2025-03-06" {
		t.Fatalf("Today in UTC = %s, want 2025-03-06", got)
	}
}

func TestDaysInclusiveAcrossDST(t *testing.T) {
	days := Days(MustParseDate("2025-03-08"), MustParseDate("2025-03-11"))
	want := []string{"2025-03-08", "2025-03-09", "2025-03-10", "2025-03-11"}
	if len(days) != len(want) {
		t.Fatalf("Days len = %d, want %d", len(days), len(want))
	}
	for i, d := range days {
		if d.String() != want[i] {
			t.Fatalf("Days[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestDaysReversedRangeIsSwapped(t *testing.T) {
	days := Days(MustParseDate("2025-01-12"), MustParseDate("2025-01-10"))
	if len(days) != 3 || days[0].String() != "2025-01-10" {
		t.Fatalf("Days reversed = %v", days)
	}
}

func TestBlockedSetAddRangeIncludesEndpoints(t *testing.T) {
	start := MustParseDate("2025-02-27")
	end := MustParseDate("2025-03-02")
	set := NewBlockedSet().AddRange(start, end)

	for _, d := range Days(start, end) {
		if !set.Contains(d) {
			t.Fatalf("expected %s blocked", d)
		}
	}
	if set.Contains(start.AddDays(-1)) || set.Contains(end.AddDays(1)) {
		t.Fatal("range leaked outside its endpoints")
	}
	if set.Len() != 4 {
		t.Fatalf("Len = %d, want 4", set.Len())
	}
}

func TestBlockedSetAddRangeIdempotent(t *testing.T) {
	start := MustParseDate("2025-01-10")
	end := MustParseDate("2025-01-15")
	once := NewBlockedSet().AddRange(start, end)
	twice := once.AddRange(start, end)
	if !once.Equal(twice) {
		t.Fatalf("second AddRange changed the set: %v vs %v", once.Strings(), twice.Strings())
	}
}

func TestBlockedSetRemoveRangeRestoresMembership(t *testing.T) {
	kept := MustParseDate("2025-01-05")
	base := NewBlockedSet(kept)
	start := MustParseDate("2025-01-10")
	end := MustParseDate("2025-01-12")

	restored := base.AddRange(start, end).RemoveRange(start, end)
	if !restored.Equal(base) {
		t.Fatalf("RemoveRange = %v, want %v", restored.Strings(), base.Strings())
	}
	if !restored.Contains(kept) {
		t.Fatal("unrelated day was removed")
	}
	if again := restored.RemoveRange(start, end); !again.Equal(base) {
		t.Fatal("removing non-members changed the set")
	}
}

func TestBlockedSetMethodsDoNotMutateReceiver(t *testing.T) {
	base := NewBlockedSet(MustParseDate("2025-01-01"))
	_ = base.AddRange(MustParseDate("2025-01-10"), MustParseDate("2025-01-11"))
	_ = base.Toggle(MustParseDate("2025-01-01"))
	if base.Len() != 1 {
		t.Fatalf("receiver mutated, Len = %d", base.Len())
	}
}

func TestParseBlockedSetSortsStrings(t *testing.T) {
	set, err := ParseBlockedSet([]string{"2025-01-12", "2025-01-10", "2025-01-12"})
	if err != nil {
		t.Fatalf("ParseBlockedSet: %v", err)
	}
	got := set.Strings()
	if len(got) != 2 || got[0] != "2025-01-10" || got[1] != "2025-01-12" {
		t.Fatalf("Strings = %v", got)
	}
	if _, err := ParseBlockedSet([]string{"nope"}); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestSelectionPick(t *testing.T) {
	today := MustParseDate("2025-03-01")
	blocked := NewBlockedSet(MustParseDate("2025-03-10"))

	sel := Selection{}.Pick(MustParseDate("2025-03-05"), blocked, today)
	if sel.State() != OneSelected {
		t.Fatalf("state = %s, want one_selected", sel.State())
	}

	sel = sel.Pick(MustParseDate("2025-03-01"), blocked, today)
	checkIn, checkOut, ok := sel.Range()
	if !ok {
		t.Fatalf("state = %s, want two_selected", sel.State())
	}
	if checkIn.String() != "2025-03-01" || checkOut.String() != "2025-03-05" {
		t.Fatalf("range = %s..%s, want reordered 2025-03-01..2025-03-05", checkIn, checkOut)
	}

	sel = sel.Pick(MustParseDate("2025-03-20"), blocked, today)
	if start, _ := sel.Start(); sel.State() != OneSelected || start.String() != "2025-03-20" {
		t.Fatalf("third pick should restart, got %v", sel.Dates())
	}
}

func TestSelectionRejectsBlockedAndPastDates(t *testing.T) {
	today := MustParseDate("2025-03-01")
	blocked := NewBlockedSet(MustParseDate("2025-03-10"))

	states := []Selection{
		{},
		{first: MustParseDate("2025-03-05")},
		{first: MustParseDate("2025-03-05"), second: MustParseDate("2025-03-07")},
	}
	for _, sel := range states {
		for _, d := range []Date{MustParseDate("2025-03-10"), MustParseDate("2025-02-28")} {
			got := sel.Pick(d, blocked, today)
			if got != sel {
				t.Fatalf("pick %s from %s changed selection to %v", d, sel.State(), got.Dates())
			}
		}
	}
}

func TestSelectionSameDayPick(t *testing.T) {
	today := MustParseDate("2025-03-01")
	d := MustParseDate("2025-03-05")
	sel := Selection{}.Pick(d, NewBlockedSet(), today).Pick(d, NewBlockedSet(), today)
	checkIn, checkOut, ok := sel.Range()
	if !ok || !checkIn.Equal(d) || !checkOut.Equal(d) {
		t.Fatalf("same-day pick = %v", sel.Dates())
	}
}

func TestSelectionTodayIsSelectable(t *testing.T) {
	today := MustParseDate("2025-03-01")
	sel := Selection{}.Pick(today, NewBlockedSet(), today)
	if sel.State() != OneSelected {
		t.Fatalf("today should be selectable, state = %s", sel.State())
	}
}

func TestSelectionReset(t *testing.T) {
	one, _ := NewSelection(MustParseDate("2025-01-10"))
	two, _ := NewSelection(MustParseDate("2025-01-10"), MustParseDate("2025-01-12"))
	for _, sel := range []Selection{{}, one, two} {
		cleared := sel.Reset()
		if cleared.State() != Empty || len(cleared.Dates()) != 0 {
			t.Fatalf("Reset(%v) = %v", sel.Dates(), cleared.Dates())
		}
	}
	if two.State() != TwoSelected {
		t.Fatal("Reset must not mutate the receiver")
	}
}

func TestNewSelectionOrdersDates(t *testing.T) {
	sel, err := NewSelection(MustParseDate("2025-01-12"), MustParseDate("2025-01-10"))
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	checkIn, checkOut, ok := sel.Range()
	if !ok || checkIn.String() != "2025-01-10" || checkOut.String() != "2025-01-12" {
		t.Fatalf("NewSelection range = %v", sel.Dates())
	}
	if _, err := NewSelection(checkIn, checkOut, checkOut); err == nil {
		t.Fatal("expected error for three dates")
	}
	empty, err := NewSelection(Date{}, Date{})
	if err != nil || empty.State() != Empty {
		t.Fatalf("zero dates should give empty selection, got %s (%v)", empty.State(), err)
	}
}

func TestMonthGrid(t *testing.T) {
	// March 2025 starts on a Saturday and spans six Sunday-first rows.
	weeks := MonthGrid(MustParseDate("2025-03-17"))
	if len(weeks) != 6 {
		t.Fatalf("weeks = %d, want 6", len(weeks))
	}
	if !weeks[0][5].IsZero() || weeks[0][6].String() != "2025-03-01" {
		t.Fatalf("first row = %v", weeks[0])
	}
	if weeks[5][1].String() != "2025-03-31" || !weeks[5][2].IsZero() {
		t.Fatalf("last row = %v", weeks[5])
	}
}

func TestDateTextRoundTrip(t *testing.T) {
	var d Date
	if err := d.UnmarshalText([]byte("2025-12-31")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	text, _ := d.MarshalText()
	if string(text) != "2025-12-31" {
		t.Fatalf("MarshalText = %s", text)
	}
}
