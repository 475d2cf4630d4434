package errors

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when a remote service refuses a request with
// HTTP 429.
type RateLimitError struct {
	Service    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Service, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Service)
}

// NewRateLimitError creates a new RateLimitError for service
func NewRateLimitError(service string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Service: service, RetryAfter: retryAfter}
}

// IsRateLimitError reports whether err is a RateLimitError (even when wrapped).
func IsRateLimitError(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}
