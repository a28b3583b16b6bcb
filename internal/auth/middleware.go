package auth

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
)

type localsKey uint8

const principalKey localsKey = iota

// RequireAuthenticated resolves the Authorization: Bearer token to a principal and
// stores it in the request locals. Errors are passed to the app error handler.
func RequireAuthenticated(authService *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		raw, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return ErrNoBearerToken
		}

		p, err := authService.Authenticate(c.Context(), raw)
		if err != nil {
			log.Debug().Err(err).Str("ip", c.IP()).Msg("authentication rejected")
			return err
		}

		c.Locals(principalKey, p)

		return c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)

	return raw, raw != ""
}

// PrincipalFrom returns the principal stored by RequireAuthenticated.
func PrincipalFrom(c fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(principalKey).(*Principal)
	return p, ok && p != nil
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(permission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return ErrNoPrincipal
		}

		if !p.Has(permission) {
			log.Warn().Uint64("user_id", p.User.ID).Str("permission", permission).
				Msg("User lacks required permission")

			return apperror.Forbidden(permission)
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return ErrNoPrincipal
		}

		for _, perm := range permissions {
			if p.Has(perm) {
				return c.Next()
			}
		}

		log.Warn().Uint64("user_id", p.User.ID).Strs("permissions", permissions).
			Msg("User lacks required permissions")

		return apperror.Forbidden(strings.Join(permissions, "|"))
	}
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(permissions ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return ErrNoPrincipal
		}

		for _, perm := range permissions {
			if !p.Has(perm) {
				log.Warn().Uint64("user_id", p.User.ID).Str("permission", perm).
					Msg("User lacks required permission")

				return apperror.Forbidden(perm)
			}
		}

		return c.Next()
	}
}
