package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/money"
)

// Statuses is the repository of order statuses.
type Statuses struct {
	*Repository[models.Status]
}

// NewStatuses returns the status repository.
func NewStatuses(db *gorm.DB) *Statuses {
	return &Statuses{Repository: New[models.Status](db, "status")}
}

// FindByName loads the status with the given name.
func (r *Statuses) FindByName(ctx context.Context, name string) (*models.Status, error) {
	return r.FindBy(ctx, "name", name)
}

// ExistsByName reports whether the status name is taken.
func (r *Statuses) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsBy(ctx, "name", name)
}

// OrderGraph lists the associations loaded with an order.
var OrderGraph = []string{"User", "Table", "Status", "Items", "Items.Product", "Items.Product.Category"}

// Orders is the repository of orders.
type Orders struct {
	*Repository[models.Order]
	items *Repository[models.OrderItem]
}

// NewOrders returns the order repository.
func NewOrders(db *gorm.DB) *Orders {
	return &Orders{
		Repository: New[models.Order](db, "order"),
		items:      New[models.OrderItem](db, "order item"),
	}
}

// FindGraph loads an order with its user, table, status and items with their products.
func (r *Orders) FindGraph(ctx context.Context, id uint64) (*models.Order, error) {
	return r.FindByID(ctx, id, OrderGraph...)
}

// FindByUser returns one page of the orders taken by a user.
func (r *Orders) FindByUser(ctx context.Context, userID uint64, pr PageRequest) (Page[models.Order], error) {
	return r.FindAllBy(ctx, "user_id", userID, pr, "Status", "Table")
}

// FindByStatus returns one page of the orders in a status.
func (r *Orders) FindByStatus(ctx context.Context, statusID uint64, pr PageRequest) (Page[models.Order], error) {
	return r.FindAllBy(ctx, "status_id", statusID, pr, "Status", "Table")
}

// FindByNotesContaining searches order notes, ignoring case.
func (r *Orders) FindByNotesContaining(
	ctx context.Context, search string, pr PageRequest,
) (Page[models.Order], error) {
	return r.FindByContaining(ctx, "notes", search, pr, "Status", "Table")
}

// OrderFilter narrows an order listing. Zero fields do not filter.
type OrderFilter struct {
	UserID   uint64
	StatusID uint64
	TableID  uint64
	Notes    string
}

func (f OrderFilter) scope(tx *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		tx = tx.Where("user_id = ?", f.UserID)
	}

	if f.StatusID != 0 {
		tx = tx.Where("status_id = ?", f.StatusID)
	}

	if f.TableID != 0 {
		tx = tx.Where("table_id = ?", f.TableID)
	}

	if f.Notes != "" {
		tx = tx.Scopes(Containing("notes", f.Notes))
	}

	return tx
}

// FindFiltered returns one page of the orders matching every set field of f.
func (r *Orders) FindFiltered(ctx context.Context, f OrderFilter, pr PageRequest) (Page[models.Order], error) {
	return r.FindPage(ctx, pr, f.scope, "User", "Status", "Table")
}

// ExistsByStatus reports whether any order is in the status.
func (r *Orders) ExistsByStatus(ctx context.Context, statusID uint64) (bool, error) {
	return r.ExistsBy(ctx, "status_id", statusID)
}

// Items returns the repository of order items.
func (r *Orders) Items() *Repository[models.OrderItem] {
	return r.items
}

// FindItem loads one item of an order.
func (r *Orders) FindItem(ctx context.Context, orderID, itemID uint64) (*models.OrderItem, error) {
	tx, err := r.items.conn(ctx)
	if err != nil {
		return nil, err
	}

	var item models.OrderItem
	if err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
		return nil, r.items.translate(err)
	}

	return &item, nil
}

// SumItems returns the sum of the item subtotals of an order, rounded to cents.
func (r *Orders) SumItems(ctx context.Context, orderID uint64) (float64, error) {
	tx, err := r.items.conn(ctx)
	if err != nil {
		return 0, err
	}

	var subtotals []float64
	if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).
		Pluck("subtotal", &subtotals).Error; err != nil {
		return 0, fmt.Errorf("failed to sum order items: %w", err)
	}

	return money.Sum(subtotals...), nil
}
