package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPNotifier forwards inquiry notifications to a remote notification
// endpoint that speaks the same JSON contract as
// POST /api/v1/notifications/inquiry-email.
type HTTPNotifier struct {
	url     string
	token   string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPNotifier posts to url, sending token as a bearer credential.
func NewHTTPNotifier(url, token string, timeout time.Duration, client *http.Client) *HTTPNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &HTTPNotifier{url: url, token: token, client: client, timeout: timeout}
}

// NotifyInquiry posts the payload. A 2xx answer with "sent": false is a
// soft failure and its error text is passed through unchanged.
func (h *HTTPNotifier) NotifyInquiry(ctx context.Context, payload InquiryNotification) DeliveryResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}

	reqCtx, cancel := sendContext(ctx, h.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("url", h.url).Msg("Inquiry notification request failed")
		return DeliveryResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}

	var result DeliveryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		text := strings.TrimSpace(string(raw))
		if text == "" {
			text = resp.Status
		}
		return DeliveryResult{Error: text}
	}
	if resp.StatusCode >= 300 && result.Error == "" {
		result.Error = fmt.Sprintf("notification endpoint returned %s", resp.Status)
	}
	if resp.StatusCode >= 300 {
		result.Sent = false
	}
	if !result.Sent && result.Error == "" {
		result.Error = "e-mail não enviado"
	}
	return result
}
