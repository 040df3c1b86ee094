package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// SchemaError reports canonical columns that could not be resolved from the
// input headers. It aborts the run.
type SchemaError struct {
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Geocoding failures that are worth retrying. Providers wrap their errors with
// one of these so the Resolver can tell them apart from everything else.
var (
	ErrGeocodeTimeout = errors.New("geocoding request timed out")
	ErrGeocodeService = errors.New("geocoding service error")
)

// NewServiceError builds a service error for a non-200 provider response.
func NewServiceError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("%w: status %d %s: %s", ErrGeocodeService, status, http.StatusText(status), msg)
}

// ClassifyTransportError wraps an error returned while talking to a provider.
// Timeouts become ErrGeocodeTimeout, caller cancellation is returned as is,
// and any other transport failure becomes ErrGeocodeService.
func ClassifyTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrGeocodeTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrGeocodeService, err)
}

// IsTransient reports whether a geocoding error should be retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrGeocodeTimeout) || errors.Is(err, ErrGeocodeService) {
		return true
	}
	return isTimeout(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
