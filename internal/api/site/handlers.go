// internal/api/site/handlers.go
package site

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/api/htmx"
	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/config"
	"github.com/casaluxe/stay/internal/inquiry"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/ratelimit"
	"github.com/casaluxe/stay/internal/settings"
	sitetempl "github.com/casaluxe/stay/internal/templates/components/site"
	"github.com/casaluxe/stay/internal/templates/layouts"
)

const maxInquiryBytes = 32 << 10

// Deps are the services the public handlers read from.
type Deps struct {
	Config    *config.Config
	Settings  *settings.Service
	Inquiries *inquiry.Service
	Clock     calendar.Clock
}

var (
	deps     Deps
	depsOnce sync.Once
)

func InitHandlers(d Deps) {
	depsOnce.Do(func() {
		if d.Clock == nil {
			d.Clock = calendar.SystemClock()
		}
		deps = d
	})
}

func today() calendar.Date {
	return calendar.Today(deps.Clock, deps.Config.Location())
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if deps.Settings == nil || deps.Config == nil {
		log.Ctx(r.Context()).Error().Msg("Site handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

// selectionFromValues restores the selection carried in start/end.
func selectionFromValues(start, end string) (calendar.Selection, error) {
	startDate, err := apiutil.ParseOptionalDate(start, "start")
	if err != nil {
		return calendar.Selection{}, err
	}
	endDate, err := apiutil.ParseOptionalDate(end, "end")
	if err != nil {
		return calendar.Selection{}, err
	}
	return calendar.NewSelection(startDate, endDate)
}

// monthFromValue reads month=YYYY-MM, falling back to the check-in month
// and then to the current month.
func monthFromValue(raw string, sel calendar.Selection, now calendar.Date) (calendar.Date, error) {
	if strings.TrimSpace(raw) != "" {
		return apiutil.ParseMonthField(raw, "month")
	}
	if start, ok := sel.Start(); ok {
		return start.FirstOfMonth(), nil
	}
	return now.FirstOfMonth(), nil
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Debug().Err(err).Msg("Rejected request parameters")
	if apiutil.WantsJSON(r) {
		apiutil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func renderCalendar(w http.ResponseWriter, r *http.Request, data sitetempl.CalendarData) {
	apiutil.RenderHTMLComponent(r.Context(), w, sitetempl.Calendar(data), nil,
		"Failed to render calendar", "Failed to render calendar")
}

// HandleHome handles GET /.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	query := r.URL.Query()
	now := today()
	sel, err := selectionFromValues(query.Get("start"), query.Get("end"))
	if err != nil {
		sel = calendar.Selection{}
	}
	month, err := monthFromValue(query.Get("month"), sel, now)
	if err != nil {
		month = now.FirstOfMonth()
	}

	snap := deps.Settings.Snapshot()
	cfg := deps.Config
	home := buildHome(snap, cfg.Site.Name, cfg.Site.OwnerEmail, buildCalendar(snap, month, sel, now))
	page := layouts.PageData{Title: cfg.Site.Name, SiteName: cfg.Site.Name}
	apiutil.RenderHTMLComponent(r.Context(), w, layouts.Base(page, sitetempl.Home(home)), nil,
		"Failed to render home page", "Failed to render page")
}

// HandleHealth handles GET /health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write health response")
	}
}

// HandleCalendar handles GET /api/v1/calendar. htmx callers get the
// calendar partial; everyone else gets the month as JSON.
func HandleCalendar(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	query := r.URL.Query()
	now := today()
	sel, err := selectionFromValues(query.Get("start"), query.Get("end"))
	if err != nil {
		badRequest(w, r, err)
		return
	}
	month, err := monthFromValue(query.Get("month"), sel, now)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	snap := deps.Settings.Snapshot()
	if htmx.IsRequest(r) {
		renderCalendar(w, r, buildCalendar(snap, month, sel, now))
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, buildCalendarJSON(snap, month, now)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write calendar response")
	}
}

type pickRequest struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Month string `json:"month"`
}

type selectionResponse struct {
	State string         `json:"state"`
	Start *calendar.Date `json:"start,omitempty"`
	End   *calendar.Date `json:"end,omitempty"`
	Quote *pricing.Quote `json:"quote,omitempty"`
}

func decodePick(r *http.Request) (pickRequest, error) {
	var req pickRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return pickRequest{}, apiutil.FieldError{Field: "body", Reason: "must be valid JSON"}
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return pickRequest{}, err
	}
	return pickRequest{
		Date:  r.FormValue("date"),
		Start: r.FormValue("start"),
		End:   r.FormValue("end"),
		Month: r.FormValue("month"),
	}, nil
}

// HandlePick handles POST /api/v1/selection/pick: one step of the date
// selection.
func HandlePick(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	req, err := decodePick(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	picked, err := apiutil.ParseDateField(req.Date, "date")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	sel, err := selectionFromValues(req.Start, req.End)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	now := today()
	snap := deps.Settings.Snapshot()
	next := sel.Pick(picked, snap.Blocked, now)

	if htmx.IsRequest(r) || !apiutil.WantsJSON(r) {
		month, err := monthFromValue(req.Month, next, now)
		if err != nil {
			badRequest(w, r, err)
			return
		}
		renderCalendar(w, r, buildCalendar(snap, month, next, now))
		return
	}

	resp := selectionResponse{State: next.State().String()}
	dates := next.Dates()
	if len(dates) > 0 {
		resp.Start = &dates[0]
	}
	if checkIn, checkOut, ok := next.Range(); ok {
		resp.End = &dates[1]
		q := snap.Quote(checkIn, checkOut)
		resp.Quote = &q
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write selection response")
	}
}

// HandleResetSelection handles POST /api/v1/selection/reset: it cancels
// the current selection and redraws the requested month.
func HandleResetSelection(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	req, err := decodePick(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	sel, err := selectionFromValues(req.Start, req.End)
	if err != nil {
		sel = calendar.Selection{}
	}
	now := today()
	month, err := monthFromValue(req.Month, sel, now)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	cleared := sel.Reset()

	if htmx.IsRequest(r) || !apiutil.WantsJSON(r) {
		renderCalendar(w, r, buildCalendar(deps.Settings.Snapshot(), month, cleared, now))
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, selectionResponse{State: cleared.State().String()}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write selection response")
	}
}

// HandleQuote handles GET /api/v1/quote?start=&end=.
func HandleQuote(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	query := r.URL.Query()
	start, err := apiutil.ParseDateField(query.Get("start"), "start")
	if err != nil {
		apiutil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := apiutil.ParseDateField(query.Get("end"), "end")
	if err != nil {
		apiutil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := deps.Settings.Snapshot().Quote(start, end)
	if err := apiutil.WriteJSON(w, http.StatusOK, q); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write quote response")
	}
}

type inquiryRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

type inquiryResponse struct {
	ID        string         `json:"id,omitempty"`
	Title     string         `json:"title,omitempty"`
	Message   string         `json:"message"`
	EmailSent bool           `json:"email_sent"`
	Quote     *pricing.Quote `json:"quote,omitempty"`
}

func decodeInquiry(r *http.Request) (inquiryRequest, error) {
	var req inquiryRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return inquiryRequest{}, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return inquiryRequest{}, err
	}
	return inquiryRequest{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
		Phone: r.FormValue("phone"),
		Notes: r.FormValue("notes"),
		Start: r.FormValue("start"),
		End:   r.FormValue("end"),
	}, nil
}

func writeInquiryOutcome(w http.ResponseWriter, r *http.Request, status int, kind string, resp inquiryResponse) {
	if apiutil.WantsJSON(r) {
		if err := apiutil.WriteJSON(w, status, resp); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write inquiry response")
		}
		return
	}
	// htmx only swaps 2xx responses, so the banner is always sent with 200.
	apiutil.RenderHTMLComponent(r.Context(), w, sitetempl.InquiryResult(sitetempl.InquiryResultData{
		Kind:    kind,
		Title:   resp.Title,
		Message: resp.Message,
	}), nil, "Failed to render inquiry result", "Failed to render inquiry result")
}

// HandleSubmitInquiry handles POST /api/v1/inquiries.
func HandleSubmitInquiry(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	if deps.Inquiries == nil {
		log.Ctx(r.Context()).Error().Msg("Inquiry service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxInquiryBytes)
	req, err := decodeInquiry(r)
	if err != nil {
		writeInquiryOutcome(w, r, http.StatusBadRequest, "error", inquiryResponse{Message: inquiry.MsgIncomplete})
		return
	}

	sel, err := selectionFromValues(req.Start, req.End)
	if err != nil {
		sel = calendar.Selection{}
	}

	res, err := deps.Inquiries.Submit(r.Context(), deps.Settings.Snapshot(), inquiry.Submission{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		Selection: sel,
		ClientIP:  ratelimit.GetClientIP(r, deps.Config.RateLimit.TrustProxy),
		Today:     today(),
	})

	var (
		validationErr   *inquiry.ValidationError
		persistenceErr  *inquiry.PersistenceError
		notificationErr *inquiry.NotificationError
	)
	switch {
	case errors.As(err, &validationErr):
		writeInquiryOutcome(w, r, http.StatusUnprocessableEntity, "error", inquiryResponse{Message: validationErr.Message})
	case errors.As(err, &persistenceErr):
		writeInquiryOutcome(w, r, http.StatusInternalServerError, "error", inquiryResponse{Message: persistenceErr.Error()})
	case errors.As(err, &notificationErr):
		writeInquiryOutcome(w, r, http.StatusCreated, "warning", inquiryResponse{
			ID:      res.Inquiry.ID,
			Title:   res.Title,
			Message: res.Message,
			Quote:   &res.Quote,
		})
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("Inquiry submission failed")
		writeInquiryOutcome(w, r, http.StatusInternalServerError, "error", inquiryResponse{Message: "Erro ao enviar solicitação."})
	default:
		writeInquiryOutcome(w, r, http.StatusCreated, "notice", inquiryResponse{
			ID:        res.Inquiry.ID,
			Title:     res.Title,
			Message:   res.Message,
			EmailSent: true,
			Quote:     &res.Quote,
		})
	}
}
