// Package user provides the user administration routes: accounts, their
// roles, password recuperation, locking and sessions.
package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = "/users"

	// SessionPath is the base path for session management.
	SessionPath = "/sessions"
)

// Service provides CRUD operations for users.
type Service struct {
	authService *auth.Service
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil {
		return handler.ErrNilServices
	}

	s.authService = svc.Auth

	users := router.Group(Path, auth.RequireAuthenticated(svc.Auth))

	manage := auth.RequirePermission(auth.PermUsersManage)
	users.Get("/", manage, s.List)
	users.Post("/", manage, s.Create)
	users.Get("/:id", manage, s.Get)
	users.Put("/:id", manage, s.Update)
	users.Delete("/:id", manage, s.Delete)
	users.Post("/:id/roles", manage, s.AssignRole)
	users.Delete("/:id/roles/:roleId", manage, s.RevokeRole)
	users.Post("/:id/recuperation", manage, s.IssueRecuperation)
	users.Post("/:id/unlock", manage, s.Unlock)
	users.Post("/:id/lock", manage, s.Lock)

	sessions := auth.RequirePermission(auth.PermSessionsManage)
	users.Get("/:id/sessions", sessions, s.Sessions)
	signOut := auth.RequireAllPermissions(auth.PermUsersManage, auth.PermSessionsManage)
	users.Delete("/:id/sessions", signOut, s.RevokeSessions)

	router.Delete(SessionPath+"/:id", auth.RequireAuthenticated(svc.Auth), sessions, s.RevokeSession)

	return nil
}

// List shows users with paging and search over username and names.
func (s *Service) List(c fiber.Ctx) error {
	page, err := s.authService.ListUsers(c.Context(), c.Query("search"), handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.UserToResponse.MapAll))
}

// Create creates a user.
func (s *Service) Create(c fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	u, err := s.authService.CreateUser(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.UserToResponse.Map(u))
}

// Get shows one user with roles.
func (s *Service) Get(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	u, err := s.authService.GetUser(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.UserToResponse.Map(u))
}

// Update replaces the profile of a user.
func (s *Service) Update(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	u, err := s.authService.UpdateUser(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.UserToResponse.Map(u))
}

// Delete removes a user.
func (s *Service) Delete(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.authService.DeleteUser(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// AssignRole adds a role to a user.
func (s *Service) AssignRole(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AssignRoleRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := dto.Validate(req); err != nil {
		return err
	}

	u, err := s.authService.AssignRole(c.Context(), id, req.RoleID)
	if err != nil {
		return err
	}

	return c.JSON(dto.UserToResponse.Map(u))
}

// RevokeRole removes a role from a user.
func (s *Service) RevokeRole(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	roleID, err := handler.ParseID(c, "roleId")
	if err != nil {
		return err
	}

	if err := s.authService.RevokeRole(c.Context(), id, roleID); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// IssueRecuperation creates a password recuperation token for the user.
func (s *Service) IssueRecuperation(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	token, expires, err := s.authService.IssueRecuperationToken(c.Context(), id)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.RecuperationResponse{UserID: id, Token: token, ExpiresAt: expires})
}

// Unlock resets the failed login counter and enables the account.
func (s *Service) Unlock(c fiber.Ctx) error {
	return s.setLocked(c, false)
}

// Lock disables the account and ends its sessions.
func (s *Service) Lock(c fiber.Ctx) error {
	return s.setLocked(c, true)
}

func (s *Service) setLocked(c fiber.Ctx, locked bool) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	change := s.authService.Unlock
	if locked {
		change = s.authService.Lock
	}

	u, err := change(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.UserToResponse.Map(u))
}

// Sessions lists every session of a user.
func (s *Service) Sessions(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	page, err := s.authService.ListSessions(c.Context(), id, handler.Page(c))
	if err != nil {
		return err
	}

	now := s.authService.Now()

	return c.JSON(repository.MapPage(page, func(sessions []models.Session) []dto.SessionResponse {
		return dto.ToSessionResponses(sessions, now)
	}))
}

// RevokeSessions signs a user out of every session.
func (s *Service) RevokeSessions(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	n, err := s.authService.RevokeUserSessions(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.RevokedSessionsResponse{UserID: id, Revoked: n})
}

// RevokeSession ends any session.
func (s *Service) RevokeSession(c fiber.Ctx) error {
	session, err := s.authService.RevokeSession(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(dto.ToSessionResponse(session, s.authService.Now()))
}
