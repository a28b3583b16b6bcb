// Package login provides the public authentication routes: login, token
// refresh and password reset with a recuperation token.
package login

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/web/handler"
)

const (
	// Path is the base path of the authentication routes.
	Path = "/auth"

	// TokenType is sent with every issued access token.
	TokenType = "Bearer"
)

// Service is the login handler service.
type Service struct {
	authService *auth.Service
}

// Init registers the public authentication routes.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil {
		return handler.ErrNilServices
	}

	s.authService = svc.Auth

	r := router.Group(Path)
	r.Post("/login", s.Login)
	r.Post("/refresh", s.Refresh)
	r.Post("/password/reset", s.ResetPassword)

	return nil
}

// Login exchanges username and password for an access and a refresh token.
func (s *Service) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := dto.Validate(req); err != nil {
		return err
	}

	tokens, err := s.authService.Login(c.Context(), req.Username, req.Password, auth.ClientMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return err
	}

	return c.JSON(Response(tokens, s.authService.Now()))
}

// Refresh issues a new access token for a refresh token.
func (s *Service) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := dto.Validate(req); err != nil {
		return err
	}

	tokens, err := s.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(Response(tokens, s.authService.Now()))
}

// ResetPassword sets a new password with a recuperation token.
func (s *Service) ResetPassword(c fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := s.authService.ResetPassword(c.Context(), req); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Response builds the body of a login or refresh.
func Response(t *auth.Tokens, now time.Time) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:           t.AccessToken,
		RefreshToken:          t.RefreshToken,
		TokenType:             TokenType,
		AccessTokenExpiresAt:  t.Session.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: t.Session.RefreshTokenExpiresAt,
		Session:               dto.ToSessionResponse(t.Session, now),
		User:                  dto.UserToResponse.Map(t.User),
	}
}
