package ordering

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/money"
)

// OrderQuery narrows ListOrders. Zero fields do not filter.
type OrderQuery struct {
	UserID  uint64
	TableID uint64
	Status  string
	Search  string
}

// CreateOrder opens a PENDING order taken by userID, with its initial items.
func (s *Service) CreateOrder(ctx context.Context, userID uint64, req dto.OrderCreateRequest) (*models.Order, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	switch {
	case req.IsTakeaway && req.TableID != nil:
		return nil, apperror.Domain("a takeaway order cannot have a table")
	case !req.IsTakeaway && req.TableID == nil:
		return nil, apperror.Invalid("tableId", "required")
	}

	var orderID uint64

	err := s.repos.Transaction(ctx, func(tx *repository.Set) error {
		pending, err := tx.Statuses.FindByName(ctx, models.StatusPending)
		if err != nil {
			return missingStatus(err, models.StatusPending)
		}

		if req.TableID != nil {
			if err := seatable(ctx, tx, *req.TableID); err != nil {
				return err
			}
		}

		o := dto.NewOrder.Map(&req)
		o.UserID = userID
		o.StatusID = pending.ID

		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}

		for i := range req.Items {
			if _, err := addItem(ctx, tx, o.ID, &req.Items[i]); err != nil {
				return err
			}
		}

		orderID = o.ID

		return recompute(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	transitions().WithLabelValues(models.StatusPending).Inc()
	log.Info().Uint64("order_id", orderID).Uint64("user_id", userID).Bool("takeaway", req.IsTakeaway).
		Msg("order created")

	return s.GetOrder(ctx, orderID)
}

// missingStatus turns a missing built-in status into a domain error.
func missingStatus(err error, name string) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Domain("status %s is not configured", name)
	}

	return err
}

// seatable checks that orders can be taken at the table.
func seatable(ctx context.Context, tx *repository.Set, tableID uint64) error {
	t, err := tx.Tables.FindByID(ctx, tableID)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Domain("table %d does not exist", tableID)
	}

	if err != nil {
		return err
	}

	if !t.IsActive || t.Status == models.TableOutOfService {
		return apperror.Domain("table %d is not in service", t.TableNumber)
	}

	return nil
}

// addItem prices an item with the current product price and stores it.
func addItem(
	ctx context.Context, tx *repository.Set, orderID uint64, req *dto.OrderItemRequest,
) (*models.OrderItem, error) {
	p, err := tx.Products.FindByID(ctx, req.ProductID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Domain("product %d does not exist", req.ProductID)
	}

	if err != nil {
		return nil, err
	}

	if !p.IsActive {
		return nil, apperror.Domain("product %s is not available", p.Name)
	}

	item := dto.NewOrderItem.Map(req)
	item.OrderID = orderID
	item.UnitPrice = p.Price
	item.Subtotal = money.Subtotal(item.Quantity, item.UnitPrice)

	if !money.Fits(item.Subtotal) {
		return nil, apperror.Domain("subtotal of %d × %s exceeds %.2f", item.Quantity, p.Name, money.MaxAmount)
	}

	if err := tx.Orders.Items().Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// recompute sets the total of o to the sum of its item subtotals and saves o.
func recompute(ctx context.Context, tx *repository.Set, o *models.Order) error {
	total, err := tx.Orders.SumItems(ctx, o.ID)
	if err != nil {
		return err
	}

	if !money.Fits(total) {
		return apperror.Domain("order total exceeds %.2f", money.MaxAmount)
	}

	o.TotalAmount = total

	return tx.Orders.Save(ctx, o)
}

// GetOrder loads an order with its user, table, status and items.
func (s *Service) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	return s.repos.Orders.FindGraph(ctx, id)
}

// ListOrders returns one page of orders matching q. An unknown status name is not found.
func (s *Service) ListOrders(
	ctx context.Context, q OrderQuery, pr repository.PageRequest,
) (repository.Page[models.Order], error) {
	f := repository.OrderFilter{UserID: q.UserID, TableID: q.TableID, Notes: q.Search}

	if q.Status != "" {
		st, err := s.repos.Statuses.FindByName(ctx, q.Status)
		if err != nil {
			return repository.Page[models.Order]{}, err
		}

		f.StatusID = st.ID
	}

	return s.repos.Orders.FindFiltered(ctx, f, pr)
}

// UpdateOrder replaces the notes of an order that is not yet closed.
func (s *Service) UpdateOrder(ctx context.Context, id uint64, req dto.OrderUpdateRequest) (*models.Order, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	o, err := s.repos.Orders.FindByID(ctx, id, "Status")
	if err != nil {
		return nil, err
	}

	if closed(o.Status.Name) {
		return nil, apperror.Domain("order %d is %s", o.ID, o.Status.Name)
	}

	o.Notes = req.Notes
	if err := s.repos.Orders.Save(ctx, o); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

// AdvanceStatus moves an order to the named status and records when it got there.
func (s *Service) AdvanceStatus(ctx context.Context, id uint64, req dto.OrderStatusRequest) (*models.Order, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Set) error {
		o, err := tx.Orders.FindByID(ctx, id, "Status")
		if err != nil {
			return err
		}

		target, err := tx.Statuses.FindByName(ctx, req.Status)
		if err != nil {
			return err
		}

		if !CanTransition(o.Status.Name, target.Name) {
			return apperror.Domain("order %d cannot move from %s to %s", o.ID, o.Status.Name, target.Name)
		}

		o.StatusID = target.ID
		o.Status = target
		stamp(o, target.Name, s.clock())

		return tx.Orders.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	transitions().WithLabelValues(req.Status).Inc()
	log.Info().Uint64("order_id", id).Str("status", req.Status).Msg("order status changed")

	return s.GetOrder(ctx, id)
}

// editableOrder loads an order whose items may still change.
func editableOrder(ctx context.Context, tx *repository.Set, id uint64) (*models.Order, error) {
	o, err := tx.Orders.FindByID(ctx, id, "Status")
	if err != nil {
		return nil, err
	}

	if !editable(o.Status.Name) {
		return nil, apperror.Domain("items of order %d cannot change once it is %s", o.ID, o.Status.Name)
	}

	return o, nil
}

// AddItem adds a product to an order and recomputes its total.
func (s *Service) AddItem(ctx context.Context, orderID uint64, req dto.OrderItemRequest) (*models.Order, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Set) error {
		o, err := editableOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if _, err := addItem(ctx, tx, o.ID, &req); err != nil {
			return err
		}

		return recompute(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// UpdateItem changes the quantity or instructions of an order line. The unit
// price stays the one the item was ordered at.
func (s *Service) UpdateItem(
	ctx context.Context, orderID, itemID uint64, req dto.OrderItemUpdateRequest,
) (*models.Order, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Set) error {
		o, err := editableOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		item, err := tx.Orders.FindItem(ctx, o.ID, itemID)
		if err != nil {
			return err
		}

		dto.OrderItemUpdate.Into(&req, item)
		item.Subtotal = money.Subtotal(item.Quantity, item.UnitPrice)

		if !money.Fits(item.Subtotal) {
			return apperror.Domain("subtotal of item %d exceeds %.2f", item.ID, money.MaxAmount)
		}

		if err := tx.Orders.Items().Save(ctx, item); err != nil {
			return err
		}

		return recompute(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// RemoveItem deletes an order line and recomputes the total.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID uint64) (*models.Order, error) {
	err := s.repos.Transaction(ctx, func(tx *repository.Set) error {
		o, err := editableOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		item, err := tx.Orders.FindItem(ctx, o.ID, itemID)
		if err != nil {
			return err
		}

		if err := tx.Orders.Items().Delete(ctx, item.ID); err != nil {
			return err
		}

		return recompute(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}
