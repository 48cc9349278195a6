package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/componentadmin/backend/internal/domain/shared"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// httpStatusError is a non-2xx Admin API response
type httpStatusError struct {
	statusCode int
	status     string
	body       string
}

func (e *httpStatusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("vendor request failed: %s", e.status)
	}
	return fmt.Sprintf("vendor request failed: %s: %s", e.status, e.body)
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	return &httpStatusError{
		statusCode: statusCode,
		status:     status,
		body:       strings.TrimSpace(string(body)),
	}
}

// vendorTransportError converts a terminal transport or HTTP-level
// failure into the domain error callers map to a gateway response. The
// vendor's status line and body text are kept so auth failures and rate
// limit messages reach the caller unchanged. Context cancellation is
// passed through untouched.
func vendorTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return shared.NewDomainError("VENDOR_ERROR", err.Error())
}

// isRetryableHTTPError reports whether the request is worth repeating:
// rate limiting and transient upstream failures qualify, everything else
// surfaces immediately.
func isRetryableHTTPError(err error) bool {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		switch httpErr.statusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// isThrottleError reports whether the GraphQL errors carry the vendor's
// THROTTLED cost-limit signal.
func isThrottleError(errs []graphQLError) bool {
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e.Message), "throttled") {
			return true
		}
		if code, ok := e.Extensions["code"].(string); ok && strings.EqualFold(code, "THROTTLED") {
			return true
		}
	}
	return false
}

// retryDelay returns the backoff for the given zero-based attempt,
// doubling from retryBaseDelay up to retryMaxDelay.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt > 10 {
		attempt = 10
	}
	delay := retryBaseDelay << attempt
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
