package stakelight

import (
	"errors"
	"fmt"
)

// Error taxonomy for the publication pipeline and its gates. Authorization
// failures are always surfaced verbatim; callers must be able to tell
// "log in" (ErrMissingToken, ErrUnauthenticated) apart from "you lack
// permission" (ErrForbidden).
var (
	// ErrMissingToken means no access token was supplied at all.
	ErrMissingToken = errors.New("missing access token")

	// ErrUnauthenticated means the identity provider rejected the token
	// (invalid, expired or revoked).
	ErrUnauthenticated = errors.New("invalid or expired token")

	// ErrForbidden means the token resolved to a valid identity without the
	// admin role. The message is deliberately generic.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the requested post does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrProviderUnavailable means the identity provider could not be
	// reached or answered with a server error. Retryable.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrStoreUnavailable means the durable store could not serve the
	// operation. Retryable.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a missing or malformed field on a write operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
