// Package table provides the dining table routes.
package table

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/seating"
	"github.com/restopos/restopos/internal/web/handler"
)

// Path is the base path of tables.
const Path = "/tables"

// Service provides the table routes.
type Service struct {
	seating *seating.Service
}

// Init registers routes. Waiters may change the occupancy with orders.update.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil || svc.Seating == nil {
		return handler.ErrNilServices
	}

	s.seating = svc.Seating

	read := auth.RequirePermission(auth.PermTablesRead)
	manage := auth.RequirePermission(auth.PermTablesManage)

	tables := router.Group(Path, auth.RequireAuthenticated(svc.Auth))
	tables.Get("/", read, s.List)
	tables.Post("/", manage, s.Create)
	tables.Get("/:id", read, s.Get)
	tables.Put("/:id", manage, s.Update)
	tables.Put("/:id/status", auth.RequireAnyPermission(auth.PermTablesManage, auth.PermOrdersUpdate), s.SetStatus)
	tables.Delete("/:id", manage, s.Delete)

	return nil
}

// List shows tables, filtered by ?status=.
func (s *Service) List(c fiber.Ctx) error {
	page, err := s.seating.ListTables(c.Context(), c.Query("status"), handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.TableToResponse.MapAll))
}

// Create creates a table.
func (s *Service) Create(c fiber.Ctx) error {
	var req dto.TableRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	t, err := s.seating.CreateTable(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.TableToResponse.Map(t))
}

// Get shows one table.
func (s *Service) Get(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	t, err := s.seating.GetTable(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.TableToResponse.Map(t))
}

// Update replaces a table.
func (s *Service) Update(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.TableRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	t, err := s.seating.UpdateTable(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.TableToResponse.Map(t))
}

// SetStatus changes the occupancy of a table.
func (s *Service) SetStatus(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.TableStatusRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	t, err := s.seating.SetStatus(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.TableToResponse.Map(t))
}

// Delete removes a table.
func (s *Service) Delete(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.seating.DeleteTable(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
