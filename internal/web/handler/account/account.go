// Package account provides the routes of the authenticated caller: who am I,
// my sessions and my password.
package account

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/web/handler"
	"github.com/restopos/restopos/internal/web/handler/login"
)

// Service is the account handler service.
type Service struct {
	authService *auth.Service
}

// Init registers the account routes.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil {
		return handler.ErrNilServices
	}

	s.authService = svc.Auth

	authenticated := auth.RequireAuthenticated(svc.Auth)

	router.Get(login.Path+"/me", authenticated, s.Me)
	router.Get(login.Path+"/sessions", authenticated, s.Sessions)
	router.Post(login.Path+"/password/change", authenticated, s.ChangePassword)

	return nil
}

// Me describes the caller.
func (s *Service) Me(c fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	permissions := p.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	return c.JSON(dto.PrincipalResponse{
		User:        dto.UserToResponse.Map(p.User),
		Session:     dto.ToSessionResponse(p.Session, s.authService.Now()),
		Permissions: permissions,
	})
}

// Sessions lists the sessions of the caller. With ?active=true it answers the
// usable sessions as a plain list.
func (s *Service) Sessions(c fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	if fiber.Query[bool](c, "active") {
		active, err := s.authService.ActiveSessions(c.Context(), p.User.ID)
		if err != nil {
			return err
		}

		return c.JSON(dto.ToSessionResponses(active, s.authService.Now()))
	}

	page, err := s.authService.ListSessions(c.Context(), p.User.ID, handler.Page(c))
	if err != nil {
		return err
	}

	now := s.authService.Now()

	return c.JSON(repository.MapPage(page, func(sessions []models.Session) []dto.SessionResponse {
		return dto.ToSessionResponses(sessions, now)
	}))
}

// ChangePassword replaces the password of the caller.
func (s *Service) ChangePassword(c fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := s.authService.ChangePassword(c.Context(), p.User.ID, req); err != nil {
		return err
	}

	return handler.NoContent(c)
}
