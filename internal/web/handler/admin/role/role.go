// Package role provides the role and permission administration routes.
package role

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = "/roles"
	// PermissionPath is the base path for permission management.
	PermissionPath = "/permissions"
)

// Service provides CRUD operations for roles and permissions.
type Service struct {
	authService *auth.Service
}

// Init registers routes. Every route requires roles.manage.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil {
		return handler.ErrNilServices
	}

	s.authService = svc.Auth

	authenticated := auth.RequireAuthenticated(svc.Auth)
	manage := auth.RequirePermission(auth.PermRolesManage)

	roles := router.Group(Path, authenticated, manage)
	roles.Get("/", s.List)
	roles.Post("/", s.Create)
	roles.Get("/:id", s.Get)
	roles.Put("/:id", s.Update)
	roles.Delete("/:id", s.Delete)
	roles.Post("/:id/permissions", s.Grant)
	roles.Delete("/:id/permissions/:permissionId", s.Revoke)

	permissions := router.Group(PermissionPath, authenticated, manage)
	permissions.Get("/", s.ListPermissions)
	permissions.Post("/", s.CreatePermission)
	permissions.Get("/:id", s.GetPermission)
	permissions.Delete("/:id", s.DeletePermission)

	return nil
}

// List shows roles with their permissions.
func (s *Service) List(c fiber.Ctx) error {
	page, err := s.authService.ListRoles(c.Context(), c.Query("search"), handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.RoleToResponse.MapAll))
}

// Create creates a role.
func (s *Service) Create(c fiber.Ctx) error {
	var req dto.RoleCreateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	r, err := s.authService.CreateRole(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.RoleToResponse.Map(r))
}

// Get shows one role.
func (s *Service) Get(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	r, err := s.authService.GetRole(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.RoleToResponse.Map(r))
}

// Update renames or describes a role.
func (s *Service) Update(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RoleUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	r, err := s.authService.UpdateRole(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.RoleToResponse.Map(r))
}

// Delete removes a role.
func (s *Service) Delete(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.authService.DeleteRole(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Grant adds a permission to a role.
func (s *Service) Grant(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.GrantPermissionRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if err := dto.Validate(req); err != nil {
		return err
	}

	r, err := s.authService.GrantPermission(c.Context(), id, req.PermissionID)
	if err != nil {
		return err
	}

	return c.JSON(dto.RoleToResponse.Map(r))
}

// Revoke removes a permission from a role.
func (s *Service) Revoke(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	permissionID, err := handler.ParseID(c, "permissionId")
	if err != nil {
		return err
	}

	if err := s.authService.RevokePermission(c.Context(), id, permissionID); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// ListPermissions shows permissions.
func (s *Service) ListPermissions(c fiber.Ctx) error {
	page, err := s.authService.ListPermissions(c.Context(), c.Query("search"), handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.PermissionToResponse.MapAll))
}

// CreatePermission creates a permission.
func (s *Service) CreatePermission(c fiber.Ctx) error {
	var req dto.PermissionCreateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p, err := s.authService.CreatePermission(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.PermissionToResponse.Map(p))
}

// GetPermission shows one permission.
func (s *Service) GetPermission(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	p, err := s.authService.GetPermission(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.PermissionToResponse.Map(p))
}

// DeletePermission removes a permission.
func (s *Service) DeletePermission(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.authService.DeletePermission(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
