package services

import (
	"errors"
	"fmt"
)

// ValidationError is a locally resolvable input failure. It never
// involves a network call and never advances the flow.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

var (
	// ErrEmptyCart aborts a flow before it starts; the UI redirects to
	// the catalog instead.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidStep rejects an action that the current step does not
	// allow.
	ErrInvalidStep = errors.New("action not allowed at current checkout step")

	// ErrSubmitInFlight rejects a second submission while one is
	// outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrFlowNotFound means the session has no active checkout flow.
	ErrFlowNotFound = errors.New("no active checkout flow")
)
