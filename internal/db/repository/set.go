package repository

import (
	"context"

	"gorm.io/gorm"
)

// Set bundles the repositories bound to one connection or transaction.
type Set struct {
	db *gorm.DB

	Users       *Users
	Roles       *Roles
	Permissions *Permissions
	Sessions    *Sessions
	Statuses    *Statuses
	Categories  *Categories
	Products    *Products
	Tables      *Tables
	Orders      *Orders
}

// NewSet returns all repositories bound to db.
func NewSet(db *gorm.DB) *Set {
	return &Set{
		db:          db,
		Users:       NewUsers(db),
		Roles:       NewRoles(db),
		Permissions: NewPermissions(db),
		Sessions:    NewSessions(db),
		Statuses:    NewStatuses(db),
		Categories:  NewCategories(db),
		Products:    NewProducts(db),
		Tables:      NewTables(db),
		Orders:      NewOrders(db),
	}
}

// Transaction runs fn with a set bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Set) Transaction(ctx context.Context, fn func(tx *Set) error) error {
	if s == nil || s.db == nil {
		return ErrDBNil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSet(tx))
	})
}
