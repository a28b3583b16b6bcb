// Package ordering takes guest orders and moves them through their lifecycle.
//
// An order starts PENDING and advances one step at a time:
//
//	PENDING -> CONFIRMED -> IN_PROGRESS -> COMPLETED -> PAID
//
// Any order that is neither PAID nor CANCELED may be CANCELED. Items can be
// changed until the order is COMPLETED, and the total is recomputed from the
// item subtotals after every change.
package ordering

import (
	"time"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/db/repository"
)

// Service provides the status and order operations.
type Service struct {
	repos *repository.Set
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new ordering service.
func NewService(db *gorm.DB, opts ...Option) (*Service, error) {
	if db == nil {
		return nil, repository.ErrDBNil
	}

	s := &Service{repos: repository.NewSet(db), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}
