package provider

import (
	"errors"
	"fmt"
)

// ErrIncompleteIdentity reports a provider profile without an email. Email
// is the join key to the local user record, so its absence is a hard
// failure; it is never fabricated.
var ErrIncompleteIdentity = errors.New("provider: identity missing email")

// RejectedError is a failure the provider itself reported, carrying its
// error code and description verbatim. Operators need the provider's own
// reason to diagnose PKCE and redirect mismatches, so this is never
// collapsed into a generic message.
type RejectedError struct {
	// StatusCode is the HTTP status the provider responded with.
	StatusCode int

	// Code is the provider error code, e.g. "invalid_grant".
	Code string

	// Description is the provider's human-readable description.
	Description string
}

func (e *RejectedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider rejected request: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("provider rejected request: %s", e.Code)
}

// IsRejected reports whether err is a provider rejection and returns it.
func IsRejected(err error) (*RejectedError, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
