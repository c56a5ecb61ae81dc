package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfOrderPractice rejects practice events dated before the user's
	// last recorded practice day.
	ErrOutOfOrderPractice = errors.New("practice date precedes last recorded day")
)

// QuotaExceededError is returned when a user hits their tier's daily
// sentence quota. DailyLimit carries the numeric limit so the caller can
// render an upgrade prompt.
type QuotaExceededError struct {
	DailyLimit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily practice limit reached (%d sentences)", e.DailyLimit)
}

// AsQuotaExceeded unwraps err into a QuotaExceededError if there is one.
func AsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
