// Package logout provides the route that ends the session of the caller.
package logout

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/web/handler"
	"github.com/restopos/restopos/internal/web/handler/login"
)

// Service is the logout handler service.
type Service struct {
	authService *auth.Service
}

// Init registers the logout route.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil {
		return handler.ErrNilServices
	}

	s.authService = svc.Auth

	router.Post(login.Path+"/logout", auth.RequireAuthenticated(svc.Auth), s.Logout)

	return nil
}

// Logout revokes the session the access token belongs to.
func (s *Service) Logout(c fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	if err := s.authService.Logout(c.Context(), p); err != nil {
		return err
	}

	return handler.NoContent(c)
}
