// Package order provides the order and order status routes.
package order

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/ordering"
	"github.com/restopos/restopos/internal/web/handler"
)

const (
	// Path is the base path of orders.
	Path = "/orders"
	// StatusPath is the base path of order statuses.
	StatusPath = "/statuses"
)

// Service provides the ordering routes.
type Service struct {
	ordering *ordering.Service
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil || svc.Ordering == nil {
		return handler.ErrNilServices
	}

	s.ordering = svc.Ordering

	authenticated := auth.RequireAuthenticated(svc.Auth)
	read := auth.RequirePermission(auth.PermOrdersRead)
	update := auth.RequirePermission(auth.PermOrdersUpdate)

	orders := router.Group(Path, authenticated)
	orders.Get("/", read, s.List)
	orders.Post("/", auth.RequirePermission(auth.PermOrdersCreate), s.Create)
	orders.Get("/:id", read, s.Get)
	orders.Put("/:id", update, s.Update)
	// cancel is checked by the handler, it depends on the body
	orders.Put("/:id/status", auth.RequireAnyPermission(auth.PermOrdersUpdate, auth.PermOrdersCancel), s.AdvanceStatus)
	orders.Post("/:id/items", auth.RequireAnyPermission(auth.PermOrdersCreate, auth.PermOrdersUpdate), s.AddItem)
	orders.Put("/:id/items/:itemId", update, s.UpdateItem)
	orders.Delete("/:id/items/:itemId", update, s.RemoveItem)

	manage := auth.RequirePermission(auth.PermStatusesManage)

	statuses := router.Group(StatusPath, authenticated)
	statuses.Get("/", read, s.ListStatuses)
	statuses.Post("/", manage, s.CreateStatus)
	statuses.Get("/:id", read, s.GetStatus)
	statuses.Put("/:id", manage, s.UpdateStatus)
	statuses.Delete("/:id", manage, s.DeleteStatus)

	return nil
}

// List shows orders filtered by ?status=, ?userId=, ?tableId=, ?search= and ?mine=true.
func (s *Service) List(c fiber.Ctx) error {
	q := ordering.OrderQuery{Status: c.Query("status"), Search: c.Query("search")}

	userID, err := handler.QueryID(c, "userId")
	if err != nil {
		return err
	}

	if userID != nil {
		q.UserID = *userID
	}

	tableID, err := handler.QueryID(c, "tableId")
	if err != nil {
		return err
	}

	if tableID != nil {
		q.TableID = *tableID
	}

	if fiber.Query[bool](c, "mine") {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}

		q.UserID = p.User.ID
	}

	page, err := s.ordering.ListOrders(c.Context(), q, handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.OrderToResponse.MapAll))
}

// Create opens an order taken by the caller.
func (s *Service) Create(c fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	var req dto.OrderCreateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	o, err := s.ordering.CreateOrder(c.Context(), p.User.ID, req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.OrderToResponse.Map(o))
}

// Get shows one order with its items.
func (s *Service) Get(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	o, err := s.ordering.GetOrder(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.OrderToResponse.Map(o))
}

// Update replaces the notes of an order.
func (s *Service) Update(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.OrderUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	o, err := s.ordering.UpdateOrder(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.OrderToResponse.Map(o))
}

// AdvanceStatus moves an order along its lifecycle. Canceling needs orders.cancel,
// every other move needs orders.update.
func (s *Service) AdvanceStatus(c fiber.Ctx) error {
	p, err := handler.Principal(c)
	if err != nil {
		return err
	}

	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.OrderStatusRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	needed := auth.PermOrdersUpdate
	if req.Status == models.StatusCanceled {
		needed = auth.PermOrdersCancel
	}

	if !p.Has(needed) {
		return apperror.Forbidden(needed)
	}

	o, err := s.ordering.AdvanceStatus(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.OrderToResponse.Map(o))
}

// AddItem adds a product to an order.
func (s *Service) AddItem(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.OrderItemRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	o, err := s.ordering.AddItem(c.Context(), id, req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.OrderToResponse.Map(o))
}

// UpdateItem changes an order line.
func (s *Service) UpdateItem(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	itemID, err := handler.ParseID(c, "itemId")
	if err != nil {
		return err
	}

	var req dto.OrderItemUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	o, err := s.ordering.UpdateItem(c.Context(), id, itemID, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.OrderToResponse.Map(o))
}

// RemoveItem deletes an order line and returns the order.
func (s *Service) RemoveItem(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	itemID, err := handler.ParseID(c, "itemId")
	if err != nil {
		return err
	}

	o, err := s.ordering.RemoveItem(c.Context(), id, itemID)
	if err != nil {
		return err
	}

	return c.JSON(dto.OrderToResponse.Map(o))
}

// ListStatuses shows order statuses, filtered by ?search=.
func (s *Service) ListStatuses(c fiber.Ctx) error {
	page, err := s.ordering.ListStatuses(c.Context(), c.Query("search"), handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.StatusToResponse.MapAll))
}

// CreateStatus creates an order status.
func (s *Service) CreateStatus(c fiber.Ctx) error {
	var req dto.StatusRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	st, err := s.ordering.CreateStatus(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.StatusToResponse.Map(st))
}

// GetStatus shows one order status.
func (s *Service) GetStatus(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	st, err := s.ordering.GetStatus(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.StatusToResponse.Map(st))
}

// UpdateStatus replaces an order status.
func (s *Service) UpdateStatus(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.StatusRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	st, err := s.ordering.UpdateStatus(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.StatusToResponse.Map(st))
}

// DeleteStatus removes an order status.
func (s *Service) DeleteStatus(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.ordering.DeleteStatus(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
