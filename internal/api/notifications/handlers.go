// internal/api/notifications/handlers.go
package notifications

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/email"
	"github.com/casaluxe/stay/internal/ratelimit"
)

const maxPayloadBytes = 64 << 10

const (
	msgUnauthorized     = "Não autorizado"
	msgRecipientMissing = "ADMIN_EMAIL não definido"
	msgRecipientDenied  = "admin_email não permitido"
)

// Deps configures the notification endpoint. Mail only ever goes to
// OwnerEmail, and only for callers presenting Token.
type Deps struct {
	Notifier      *email.Notifier
	OwnerEmail    string
	Token         string
	AllowedOrigin string
	Limiter       *ratelimit.Limiter
	TrustProxy    bool
}

var (
	deps     Deps
	depsOnce sync.Once
)

func InitHandlers(d Deps) {
	if d.Notifier == nil {
		return
	}
	depsOnce.Do(func() {
		d.OwnerEmail = strings.TrimSpace(d.OwnerEmail)
		deps = d
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	if deps.AllowedOrigin != "" {
		h.Set("Access-Control-Allow-Origin", deps.AllowedOrigin)
		h.Set("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// bearerToken reads the caller's token from Authorization: Bearer or the
// apikey header.
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("apikey"))
}

func authorized(r *http.Request) bool {
	if deps.Token == "" {
		return false
	}
	got := bearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(deps.Token)) == 1
}

// HandleInquiryEmailPreflight answers OPTIONS /api/v1/notifications/inquiry-email.
func HandleInquiryEmailPreflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleInquiryEmail handles POST /api/v1/notifications/inquiry-email. It
// renders and sends the owner notification for the posted inquiry.
func HandleInquiryEmail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	setCORSHeaders(w)

	if deps.Notifier == nil {
		logger.Error().Msg("Inquiry notifier not initialized")
		apiutil.WriteJSONError(w, http.StatusInternalServerError, email.ErrNotConfigured.Error())
		return
	}

	ip := ratelimit.GetClientIP(r, deps.TrustProxy)
	if deps.Limiter != nil {
		if limit := deps.Limiter.ReserveIP(ip); !limit.Allowed {
			logger.Warn().Str("ip", ip).Str("reason", limit.Reason).Msg("Notification rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(limit.RetryAfter.Seconds())+1))
			apiutil.WriteJSONError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
	}

	if !authorized(r) {
		logger.Warn().Str("ip", ip).Msg("Notification request without a valid token")
		apiutil.WriteJSONError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	var payload email.InquiryNotification
	if err := apiutil.DecodeJSON(r, &payload); err != nil {
		apiutil.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if deps.OwnerEmail == "" {
		apiutil.WriteJSONError(w, http.StatusBadRequest, msgRecipientMissing)
		return
	}
	if requested := strings.TrimSpace(payload.AdminEmail); requested != "" && !strings.EqualFold(requested, deps.OwnerEmail) {
		logger.Warn().Str("ip", ip).Msg("Notification for a foreign recipient refused")
		apiutil.WriteJSONError(w, http.StatusForbidden, msgRecipientDenied)
		return
	}
	payload.AdminEmail = deps.OwnerEmail

	result := deps.Notifier.NotifyInquiry(r.Context(), payload)
	status := http.StatusOK
	if !result.Sent {
		status = http.StatusInternalServerError
		logger.Warn().Str("recipient", result.To).Str("reason", result.Error).Msg("Inquiry email not sent")
	}
	if err := apiutil.WriteJSON(w, status, result); err != nil {
		logger.Error().Err(err).Msg("Failed to write notification response")
	}
}
