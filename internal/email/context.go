package email

import (
	"context"
	"time"
)

const defaultSendTimeout = 10 * time.Second

// sendContext bounds a delivery by timeout. The caller's cancellation is
// dropped so a guest closing the page does not abort a send in flight; its
// values, such as the request logger, are kept.
func sendContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
