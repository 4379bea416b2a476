package inquiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/email"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/ratelimit"
	"github.com/casaluxe/stay/internal/settings"
	"github.com/casaluxe/stay/internal/store"
	"github.com/casaluxe/stay/internal/testutil"
)

type fakeNotifier struct {
	calls  int
	last   email.InquiryNotification
	result email.DeliveryResult
}

func (f *fakeNotifier) NotifyInquiry(_ context.Context, n email.InquiryNotification) email.DeliveryResult {
	f.calls++
	f.last = n
	return f.result
}

type failingRecorder struct{}

func (failingRecorder) InsertInquiry(context.Context, store.Inquiry) (store.Inquiry, error) {
	return store.Inquiry{}, errors.New("database is locked")
}

type fakeThrottle struct {
	deny     bool
	reserved int
	released int
}

func (f *fakeThrottle) ReserveInquiry(string, string) ratelimit.LimitResult {
	if f.deny {
		return ratelimit.LimitResult{RetryAfter: 12 * time.Minute, Reason: "email_limit"}
	}
	f.reserved++
	return ratelimit.LimitResult{Allowed: true}
}

func (f *fakeThrottle) ReleaseInquiry(string, string) { f.released++ }

func testSnapshot(t *testing.T) settings.Snapshot {
	t.Helper()
	st := store.NewSQLite(testutil.NewTestDB(t))
	svc := settings.NewService(st, nil, settings.Defaults{NightlyPrice: pricing.Reais(1000), CleaningFee: pricing.Reais(200)})
	if _, err := svc.CreateRule(context.Background(), pricing.DayRule(calendar.MustParseDate("2025-01-11"), pricing.Reais(1200))); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	return svc.Snapshot()
}

func twoDates(t *testing.T, a, b string) calendar.Selection {
	t.Helper()
	sel, err := calendar.NewSelection(calendar.MustParseDate(a), calendar.MustParseDate(b))
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	return sel
}

func validSubmission(t *testing.T) Submission {
	return Submission{
		Name:      "Ana Souza",
		Email:     "ana@example.com",
		Phone:     "(47) 99999-0000",
		Notes:     "Chegamos tarde",
		Selection: twoDates(t, "2025-01-10", "2025-01-12"),
		ClientIP:  "203.0.113.10",
	}
}

func TestSubmitSuccess(t *testing.T) {
	db := testutil.NewTestDB(t)
	st := store.NewSQLite(db)
	notifier := &fakeNotifier{result: email.DeliveryResult{Sent: true, To: "owner@example.com"}}
	throttle := &fakeThrottle{}
	svc := NewService(st, notifier, Options{OwnerEmail: "owner@example.com", PhoneRegion: "BR", Throttle: throttle})

	res, err := svc.Submit(context.Background(), testSnapshot(t), validSubmission(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Message != "E-mail enviado para owner@example.com. Você receberá os valores em breve." {
		t.Fatalf("Message = %q", res.Message)
	}
	if res.Quote.Nights != 3 || res.Quote.Subtotal != pricing.Reais(3200) || res.Quote.Total != pricing.Reais(3400) {
		t.Fatalf("quote = %+v", res.Quote)
	}
	if res.Inquiry.Phone != "+5547999990000" {
		t.Fatalf("phone = %q", res.Inquiry.Phone)
	}
	if notifier.last.AdminEmail != "owner@example.com" || notifier.last.StartDate != "2025-01-10" || len(notifier.last.PriceBreakdown) != 3 {
		t.Fatalf("notification = %+v", notifier.last)
	}
	if throttle.reserved != 1 || throttle.released != 0 {
		t.Fatalf("throttle reserved %d, released %d", throttle.reserved, throttle.released)
	}

	recent, err := st.ListRecentInquiries(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentInquiries: %v", err)
	}
	if len(recent) != 1 || recent[0].Email != "ana@example.com" {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestSubmitValidation(t *testing.T) {
	oneDate, _ := calendar.NewSelection(calendar.MustParseDate("2025-01-10"))
	tests := []struct {
		name   string
		mutate func(*Submission)
		want   string
	}{
		{name: "missing_name", mutate: func(s *Submission) { s.Name = "  " }, want: MsgIncomplete},
		{name: "missing_email", mutate: func(s *Submission) { s.Email = "" }, want: MsgIncomplete},
		{name: "missing_phone", mutate: func(s *Submission) { s.Phone = "" }, want: MsgIncomplete},
		{name: "one_date", mutate: func(s *Submission) { s.Selection = oneDate }, want: MsgIncomplete},
		{name: "no_dates", mutate: func(s *Submission) { s.Selection = calendar.Selection{} }, want: MsgIncomplete},
		{name: "bad_email", mutate: func(s *Submission) { s.Email = "ana.example.com" }, want: MsgBadEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			svc := NewService(failingRecorder{}, notifier, Options{})
			sub := validSubmission(t)
			tt.mutate(&sub)

			_, err := svc.Submit(context.Background(), settings.Snapshot{}, sub)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Message != tt.want {
				t.Fatalf("Message = %q, want %q", verr.Message, tt.want)
			}
			if notifier.calls != 0 {
				t.Fatal("notifier called for invalid submission")
			}
		})
	}
}

func TestSubmitPersistenceFailureAborts(t *testing.T) {
	notifier := &fakeNotifier{result: email.DeliveryResult{Sent: true}}
	throttle := &fakeThrottle{}
	svc := NewService(failingRecorder{}, notifier, Options{Throttle: throttle})

	_, err := svc.Submit(context.Background(), settings.Snapshot{}, validSubmission(t))
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}
	if perr.Error() != "Erro ao salvar: database is locked" {
		t.Fatalf("Error() = %q", perr.Error())
	}
	if notifier.calls != 0 {
		t.Fatal("notifier should not run after a failed insert")
	}
	if throttle.reserved != 1 || throttle.released != 1 {
		t.Fatalf("failed insert should release its slot: reserved %d, released %d", throttle.reserved, throttle.released)
	}
}

func TestSubmitNotificationFailureKeepsRecord(t *testing.T) {
	st := store.NewSQLite(testutil.NewTestDB(t))
	notifier := &fakeNotifier{result: email.DeliveryResult{To: "owner@example.com", Error: "MessageRejected: Email address is not verified"}}
	svc := NewService(st, notifier, Options{OwnerEmail: "owner@example.com"})

	res, err := svc.Submit(context.Background(), testSnapshot(t), validSubmission(t))
	var nerr *NotificationError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want NotificationError", err)
	}
	if nerr.Reason != "MessageRejected: Email address is not verified" {
		t.Fatalf("Reason = %q", nerr.Reason)
	}
	if res.Message != "Mensagem salva. E-mail não enviado: MessageRejected: Email address is not verified" {
		t.Fatalf("Message = %q", res.Message)
	}
	if res.Inquiry.ID == "" || res.Quote.Total != pricing.Reais(3400) {
		t.Fatalf("result = %+v", res)
	}

	recent, err := st.ListRecentInquiries(context.Background(), 10)
	if err != nil || len(recent) != 1 {
		t.Fatalf("inquiry should stay recorded: %v, %d", err, len(recent))
	}
}

func TestSubmitRejectsUnavailableEndpoints(t *testing.T) {
	today := calendar.MustParseDate("2025-01-05")
	snap := testSnapshot(t)
	snap.Blocked = calendar.NewBlockedSet(calendar.MustParseDate("2025-01-20"))

	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{name: "past_check_in", start: "2024-12-01", end: "2025-01-08", want: MsgPastDate},
		{name: "past_and_blocked", start: "2024-12-01", end: "2025-01-20", want: MsgPastDate},
		{name: "blocked_check_out", start: "2025-01-18", end: "2025-01-20", want: MsgBlocked},
		{name: "blocked_check_in", start: "2025-01-20", end: "2025-01-22", want: MsgBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			throttle := &fakeThrottle{}
			svc := NewService(failingRecorder{}, notifier, Options{Throttle: throttle})
			sub := validSubmission(t)
			sub.Selection = twoDates(t, tt.start, tt.end)
			sub.Today = today

			_, err := svc.Submit(context.Background(), snap, sub)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.want {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			if notifier.calls != 0 || throttle.reserved != 0 {
				t.Fatal("rejected submission should not reach the throttle or notifier")
			}
		})
	}
}

func TestSubmitAllowsBlockedNightInside(t *testing.T) {
	st := store.NewSQLite(testutil.NewTestDB(t))
	svc := NewService(st, &fakeNotifier{result: email.DeliveryResult{Sent: true}}, Options{OwnerEmail: "owner@example.com"})
	snap := testSnapshot(t)
	snap.Blocked = calendar.NewBlockedSet(calendar.MustParseDate("2025-01-11"))

	sub := validSubmission(t)
	sub.Today = calendar.MustParseDate("2025-01-05")
	if _, err := svc.Submit(context.Background(), snap, sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitThrottled(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(failingRecorder{}, notifier, Options{Throttle: &fakeThrottle{deny: true}})

	_, err := svc.Submit(context.Background(), settings.Snapshot{}, validSubmission(t))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Message != "Muitas solicitações. Tente novamente em 12 minutos." {
		t.Fatalf("Message = %q", verr.Message)
	}
}

func TestSameDaySelectionIsOneNight(t *testing.T) {
	st := store.NewSQLite(testutil.NewTestDB(t))
	notifier := &fakeNotifier{result: email.DeliveryResult{Sent: true, To: "owner@example.com"}}
	svc := NewService(st, notifier, Options{OwnerEmail: "owner@example.com"})

	sub := validSubmission(t)
	sub.Selection = twoDates(t, "2025-01-11", "2025-01-11")
	res, err := svc.Submit(context.Background(), testSnapshot(t), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Quote.Nights != 1 || res.Quote.Subtotal != pricing.Reais(1200) {
		t.Fatalf("quote = %+v", res.Quote)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw, region, want string
	}{
		{"(47) 99999-0000", "BR", "+5547999990000"},
		{"+1 555 123 4567", "BR", "+15551234567"},
		{"47 99999 0000", "", "+5547999990000"},
		{"ramal 12", "BR", "ramal 12"},
		{"  ", "BR", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.raw, tt.region); got != tt.want {
			t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.raw, tt.region, got, tt.want)
		}
	}
}
