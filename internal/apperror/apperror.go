// Package apperror defines the error kinds shared by all restopos services.
//
// Every service error wraps exactly one kind sentinel, so callers and the HTTP
// layer classify errors with errors.Is instead of string matching.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the kind of input that failed validation before any persistence attempt.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is the kind of uniqueness violations detected against stored state.
	ErrConflict = errors.New("conflict")

	// ErrNotFound is the kind of lookups that returned nothing.
	ErrNotFound = errors.New("not found")

	// ErrAuthentication is the kind of failed authentication attempts.
	ErrAuthentication = errors.New("authentication failed")

	// ErrForbidden is the kind of authenticated requests lacking a permission.
	ErrForbidden = errors.New("forbidden")

	// ErrDomain is the kind of business rule violations.
	ErrDomain = errors.New("domain rule violated")
)

var (
	// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrAuthentication)

	// ErrAccountDisabled is returned when an inactive user tries to log in.
	ErrAccountDisabled = fmt.Errorf("%w: account is disabled", ErrAuthentication)

	// ErrAccountLocked is returned when an account is locked. It does not say why.
	ErrAccountLocked = fmt.Errorf("%w: account is locked", ErrAuthentication)

	// ErrSessionInvalid is returned for missing, revoked, expired or mismatching sessions.
	ErrSessionInvalid = fmt.Errorf("%w: session is not valid", ErrAuthentication)

	// ErrRecuperationTokenInvalid is returned for unknown or expired recuperation tokens.
	ErrRecuperationTokenInvalid = fmt.Errorf("%w: recuperation token is invalid or expired", ErrAuthentication)
)

// Kind names used in API error bodies.
const (
	KindValidation     = "validation"
	KindConflict       = "conflict"
	KindNotFound       = "not_found"
	KindAuthentication = "authentication"
	KindAccountLocked  = "account_locked"
	KindForbidden      = "forbidden"
	KindDomain         = "domain"
	KindInternal       = "internal"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountLocked):
		return KindAccountLocked
	case errors.Is(err, ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrDomain):
		return KindDomain
	default:
		return KindInternal
	}
}

// NotFound reports a missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Conflict reports a duplicate value of a unique field.
func Conflict(entity, field string, value any) error {
	return fmt.Errorf("%w: %s with %s %q already exists", ErrConflict, entity, field, fmt.Sprint(value))
}

// Domain reports a business rule violation.
func Domain(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

// Forbidden reports a missing permission.
func Forbidden(permission string) error {
	return fmt.Errorf("%w: missing permission %s", ErrForbidden, permission)
}
