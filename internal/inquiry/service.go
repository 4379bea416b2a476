// Package inquiry runs the guest availability request pipeline: validate,
// record, price and notify the owner.
package inquiry

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/email"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/ratelimit"
	"github.com/casaluxe/stay/internal/settings"
	"github.com/casaluxe/stay/internal/store"
)

const (
	MsgIncomplete = "Preencha nome, e-mail, telefone e selecione check-in e check-out."
	MsgBadEmail   = "Informe um e-mail válido."
	MsgPastDate   = "As datas selecionadas já passaram. Escolha novas datas."
	MsgBlocked    = "Check-in ou check-out em data indisponível. Escolha novas datas."
)

// Recorder persists inquiries.
type Recorder interface {
	InsertInquiry(ctx context.Context, in store.Inquiry) (store.Inquiry, error)
}

// Throttle limits submissions per guest email and client IP. A reserved
// slot is released when the inquiry cannot be recorded.
type Throttle interface {
	ReserveInquiry(email, ip string) ratelimit.LimitResult
	ReleaseInquiry(email, ip string)
}

// Submission is what the guest typed plus the current date selection.
type Submission struct {
	Name      string
	Email     string
	Phone     string
	Notes     string
	Selection calendar.Selection
	ClientIP  string

	// Today is the property's current date. Check-in before it is rejected;
	// the zero Date skips the check.
	Today calendar.Date
}

// Result describes a recorded inquiry. Title and Message are the texts
// shown to the guest.
type Result struct {
	Inquiry  store.Inquiry
	Quote    pricing.Quote
	Delivery email.DeliveryResult
	Title    string
	Message  string
}

type Service struct {
	recorder    Recorder
	notifier    email.InquiryNotifier
	throttle    Throttle
	ownerEmail  string
	phoneRegion string
}

type Options struct {
	OwnerEmail  string
	PhoneRegion string

	// Throttle may be nil to disable rate limiting.
	Throttle Throttle
}

func NewService(recorder Recorder, notifier email.InquiryNotifier, opts Options) *Service {
	return &Service{
		recorder:    recorder,
		notifier:    notifier,
		throttle:    opts.Throttle,
		ownerEmail:  strings.TrimSpace(opts.OwnerEmail),
		phoneRegion: opts.PhoneRegion,
	}
}

func (s *Service) validate(snap settings.Snapshot, sub Submission) (store.Inquiry, error) {
	in := store.Inquiry{
		Name:  strings.TrimSpace(sub.Name),
		Email: strings.TrimSpace(sub.Email),
		Phone: strings.TrimSpace(sub.Phone),
		Notes: strings.TrimSpace(sub.Notes),
	}
	checkIn, checkOut, ok := sub.Selection.Range()
	if in.Name == "" || in.Email == "" || in.Phone == "" || !ok {
		return store.Inquiry{}, &ValidationError{Message: MsgIncomplete}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return store.Inquiry{}, &ValidationError{Message: MsgBadEmail}
	}
	if !sub.Today.IsZero() && checkIn.Before(sub.Today) {
		return store.Inquiry{}, &ValidationError{Message: MsgPastDate}
	}
	if snap.IsBlocked(checkIn) || snap.IsBlocked(checkOut) {
		return store.Inquiry{}, &ValidationError{Message: MsgBlocked}
	}
	in.Phone = NormalizePhone(in.Phone, s.phoneRegion)
	in.CheckIn, in.CheckOut = checkIn, checkOut
	return in, nil
}

func retryText(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes <= 1 {
		return "Muitas solicitações. Tente novamente em instantes."
	}
	return fmt.Sprintf("Muitas solicitações. Tente novamente em %d minutos.", minutes)
}

// Submit records the inquiry and notifies the owner. The error is a
// *ValidationError or *PersistenceError when nothing was recorded. When the
// inquiry is recorded but the email fails, Submit returns the Result
// together with a *NotificationError.
func (s *Service) Submit(ctx context.Context, snap settings.Snapshot, sub Submission) (Result, error) {
	logger := log.Ctx(ctx)

	in, err := s.validate(snap, sub)
	if err != nil {
		return Result{}, err
	}

	if s.throttle != nil {
		if limit := s.throttle.ReserveInquiry(in.Email, sub.ClientIP); !limit.Allowed {
			ratelimit.LogRateLimitExceeded(in.Email, sub.ClientIP, limit.Reason)
			return Result{}, &ValidationError{Message: retryText(limit.RetryAfter)}
		}
	}

	saved, err := s.recorder.InsertInquiry(ctx, in)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to record inquiry")
		if s.throttle != nil {
			s.throttle.ReleaseInquiry(in.Email, sub.ClientIP)
		}
		return Result{}, &PersistenceError{Err: err}
	}

	quote := snap.Quote(saved.CheckIn, saved.CheckOut)
	res := Result{Inquiry: saved, Quote: quote}

	res.Delivery = s.notifier.NotifyInquiry(ctx, s.notification(saved, quote))
	if !res.Delivery.Sent {
		reason := res.Delivery.Error
		if reason == "" {
			reason = "e-mail não enviado"
		}
		nerr := &NotificationError{Reason: reason}
		res.Title = "Solicitação registrada"
		res.Message = nerr.Error()
		logger.Warn().
			Str("inquiry_id", saved.ID).
			Str("reason", reason).
			Msg("Inquiry recorded without owner notification")
		return res, nerr
	}

	to := res.Delivery.To
	if to == "" {
		to = s.ownerEmail
	}
	res.Title = "Solicitação enviada"
	res.Message = fmt.Sprintf("E-mail enviado para %s. Você receberá os valores em breve.", to)
	logger.Info().
		Str("inquiry_id", saved.ID).
		Int("nights", quote.Nights).
		Str("total", quote.Total.Decimal()).
		Msg("Inquiry recorded and owner notified")
	return res, nil
}

func (s *Service) notification(in store.Inquiry, q pricing.Quote) email.InquiryNotification {
	return email.InquiryNotification{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Notes:          in.Notes,
		StartDate:      in.CheckIn.String(),
		EndDate:        in.CheckOut.String(),
		AdminEmail:     s.ownerEmail,
		Days:           q.Nights,
		Subtotal:       q.Subtotal,
		CleaningFee:    q.CleaningFee,
		Total:          q.Total,
		PriceBreakdown: q.Breakdown,
	}
}
