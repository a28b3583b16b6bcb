package auth

import (
	"fmt"

	"github.com/restopos/restopos/internal/apperror"
)

var (
	// ErrNoBearerToken is returned when a request lacks the Authorization: Bearer header.
	ErrNoBearerToken = fmt.Errorf("%w: missing bearer token", apperror.ErrAuthentication)

	// ErrNoPrincipal is returned when a permission check runs before authentication.
	ErrNoPrincipal = fmt.Errorf("%w: request is not authenticated", apperror.ErrAuthentication)
)
