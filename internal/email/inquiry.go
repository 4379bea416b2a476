package email

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
)

//go:embed templates/*
var templateFS embed.FS

var templateFuncs = map[string]any{
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "—"
		}
		return s
	},
}

var (
	inquiryHTML = template.Must(template.New("inquiry.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/inquiry.html"))
	inquiryText = texttemplate.Must(texttemplate.New("inquiry.txt").Funcs(templateFuncs).ParseFS(templateFS, "templates/inquiry.txt"))
)

// InquiryNotification is the payload describing a guest inquiry and its
// computed price. It is also the JSON body of the notification endpoint.
type InquiryNotification struct {
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Notes          string             `json:"notes,omitempty"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	AdminEmail     string             `json:"admin_email,omitempty"`
	Days           int                `json:"days"`
	Subtotal       pricing.Amount     `json:"subtotal"`
	CleaningFee    pricing.Amount     `json:"cleaning_fee"`
	Total          pricing.Amount     `json:"total"`
	PriceBreakdown []pricing.DayPrice `json:"price_breakdown"`
}

type breakdownRow struct {
	Date  string         `json:"date"`
	Price pricing.Amount `json:"price"`
}

// UnmarshalJSON also accepts the storefront's older body: amounts under
// subtotal_brl, cleaning_fee_brl and total_brl, and breakdown dates written
// as dd/mm/yyyy. The current keys win when both are sent.
func (n *InquiryNotification) UnmarshalJSON(data []byte) error {
	type plain InquiryNotification
	var wire struct {
		plain
		PriceBreakdown []breakdownRow  `json:"price_breakdown"`
		SubtotalBRL    *pricing.Amount `json:"subtotal_brl"`
		CleaningFeeBRL *pricing.Amount `json:"cleaning_fee_brl"`
		TotalBRL       *pricing.Amount `json:"total_brl"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return err
	}
	out := InquiryNotification(wire.plain)
	if out.Subtotal == 0 && wire.SubtotalBRL != nil {
		out.Subtotal = *wire.SubtotalBRL
	}
	if out.CleaningFee == 0 && wire.CleaningFeeBRL != nil {
		out.CleaningFee = *wire.CleaningFeeBRL
	}
	if out.Total == 0 && wire.TotalBRL != nil {
		out.Total = *wire.TotalBRL
	}
	out.PriceBreakdown = nil
	for _, row := range wire.PriceBreakdown {
		d, err := parseBreakdownDate(row.Date)
		if err != nil {
			return err
		}
		out.PriceBreakdown = append(out.PriceBreakdown, pricing.DayPrice{Date: d, Price: row.Price})
	}
	*n = out
	return nil
}

func parseBreakdownDate(raw string) (calendar.Date, error) {
	if d, err := calendar.ParseDate(raw); err == nil {
		return d, nil
	}
	t, err := time.Parse("02/01/2006", strings.TrimSpace(raw))
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid breakdown date %q", raw)
	}
	return calendar.FromTime(t), nil
}

// DeliveryResult reports the outcome of a notification. Error carries the
// provider's reason verbatim when Sent is false.
type DeliveryResult struct {
	Sent  bool   `json:"sent"`
	To    string `json:"to,omitempty"`
	Error string `json:"error,omitempty"`
}

// InquirySubject is the subject line of the owner notification.
func InquirySubject(siteName string) string {
	return "Nova solicitação de disponibilidade - " + siteName
}

type breakdownLine struct {
	Date  string
	Price string
}

type inquiryView struct {
	SiteName    string
	Name        string
	Email       string
	Phone       string
	StartDate   string
	EndDate     string
	Days        int
	Subtotal    string
	CleaningFee string
	Total       string
	Breakdown   []breakdownLine
	Notes       template.HTML
	RawNotes    string
	Year        int
}

// notesHTML escapes the guest note and keeps its line breaks.
func notesHTML(notes string) template.HTML {
	escaped := template.HTMLEscapeString(strings.TrimSpace(notes))
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}

// BuildInquiryMessage renders the owner notification for n.
func BuildInquiryMessage(siteName, to string, n InquiryNotification, now time.Time) (Message, error) {
	view := inquiryView{
		SiteName:    siteName,
		Name:        n.Name,
		Email:       n.Email,
		Phone:       n.Phone,
		StartDate:   n.StartDate,
		EndDate:     n.EndDate,
		Days:        n.Days,
		Subtotal:    n.Subtotal.String(),
		CleaningFee: n.CleaningFee.String(),
		Total:       n.Total.String(),
		Notes:       notesHTML(n.Notes),
		RawNotes:    strings.TrimSpace(n.Notes),
		Year:        now.Year(),
	}
	for _, line := range n.PriceBreakdown {
		view.Breakdown = append(view.Breakdown, breakdownLine{
			Date:  line.Date.Format("02/01/2006"),
			Price: line.Price.String(),
		})
	}

	var html, text bytes.Buffer
	if err := inquiryHTML.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("render inquiry email: %w", err)
	}
	if err := inquiryText.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("render inquiry email: %w", err)
	}

	return Message{
		To:       to,
		Subject:  InquirySubject(siteName),
		HTMLBody: html.String(),
		TextBody: text.String(),
		ReplyTo:  strings.TrimSpace(n.Email),
	}, nil
}

// InquiryNotifier delivers owner notifications for new inquiries.
type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, n InquiryNotification) DeliveryResult
}

// Notifier renders inquiry notifications and hands them to an EmailSender.
type Notifier struct {
	sender     EmailSender
	siteName   string
	ownerEmail string
	timeout    time.Duration
	now        func() time.Time
}

func NewNotifier(sender EmailSender, siteName, ownerEmail string, timeout time.Duration) *Notifier {
	if sender == nil {
		sender = Disabled()
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Notifier{
		sender:     sender,
		siteName:   siteName,
		ownerEmail: strings.TrimSpace(ownerEmail),
		timeout:    timeout,
		now:        time.Now,
	}
}

// Recipient picks the payload's admin address, falling back to the
// configured owner.
func (n *Notifier) Recipient(payload InquiryNotification) string {
	if to := strings.TrimSpace(payload.AdminEmail); to != "" {
		return to
	}
	return n.ownerEmail
}

// NotifyInquiry sends the notification synchronously. Failures are
// reported in the result, never retried.
func (n *Notifier) NotifyInquiry(ctx context.Context, payload InquiryNotification) DeliveryResult {
	to := n.Recipient(payload)
	if to == "" {
		return DeliveryResult{Error: "e-mail do administrador não definido"}
	}

	msg, err := BuildInquiryMessage(n.siteName, to, payload, n.now())
	if err != nil {
		return DeliveryResult{To: to, Error: err.Error()}
	}

	sendCtx, cancel := sendContext(ctx, n.timeout)
	defer cancel()
	if err := n.sender.Send(sendCtx, msg); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("recipient", to).Msg("Inquiry notification not sent")
		return DeliveryResult{To: to, Error: err.Error()}
	}
	return DeliveryResult{Sent: true, To: to}
}
