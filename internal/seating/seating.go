// Package seating manages the dining tables of the restaurant.
package seating

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
)

// Service provides the table operations.
type Service struct {
	repos *repository.Set
}

// NewService creates a new seating service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, repository.ErrDBNil
	}

	return &Service{repos: repository.NewSet(db)}, nil
}

// CreateTable creates a table with a unique number. It starts AVAILABLE unless a status is given.
func (s *Service) CreateTable(ctx context.Context, req dto.TableRequest) (*models.Table, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if err := s.numberFree(ctx, req.TableNumber); err != nil {
		return nil, err
	}

	t := dto.NewTable.Map(&req)
	if t.Status == "" {
		t.Status = models.TableAvailable
	}

	if err := s.repos.Tables.Create(ctx, t); err != nil {
		return nil, err
	}

	log.Info().Uint64("table_id", t.ID).Int("number", t.TableNumber).Msg("table created")

	return t, nil
}

func (s *Service) numberFree(ctx context.Context, number int) error {
	taken, err := s.repos.Tables.ExistsByTableNumber(ctx, number)
	if err != nil {
		return err
	}

	if taken {
		return apperror.Conflict("table", "tableNumber", number)
	}

	return nil
}

// GetTable loads a table.
func (s *Service) GetTable(ctx context.Context, id uint64) (*models.Table, error) {
	return s.repos.Tables.FindByID(ctx, id)
}

// GetTableByNumber loads the table with the given number.
func (s *Service) GetTableByNumber(ctx context.Context, number int) (*models.Table, error) {
	return s.repos.Tables.FindByTableNumber(ctx, number)
}

// ListTables returns one page of tables, restricted to status when it is set.
func (s *Service) ListTables(
	ctx context.Context, status string, pr repository.PageRequest,
) (repository.Page[models.Table], error) {
	if status == "" {
		return s.repos.Tables.FindAll(ctx, pr)
	}

	if err := dto.Validate(dto.TableStatusRequest{Status: status}); err != nil {
		return repository.Page[models.Table]{}, err
	}

	return s.repos.Tables.FindByStatus(ctx, models.TableStatus(status), pr)
}

// UpdateTable replaces the fields of a table. An empty status keeps the current one.
func (s *Service) UpdateTable(ctx context.Context, id uint64, req dto.TableRequest) (*models.Table, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.repos.Tables.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.TableNumber != req.TableNumber {
		if err := s.numberFree(ctx, req.TableNumber); err != nil {
			return nil, err
		}
	}

	status := t.Status
	dto.NewTable.Into(&req, t)

	if t.Status == "" {
		t.Status = status
	}

	return t, s.repos.Tables.Save(ctx, t)
}

// SetStatus changes only the occupancy state of a table.
func (s *Service) SetStatus(ctx context.Context, id uint64, req dto.TableStatusRequest) (*models.Table, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.repos.Tables.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Status = models.TableStatus(req.Status)

	return t, s.repos.Tables.Save(ctx, t)
}

// DeleteTable removes a table. Orders of the table keep existing without it.
func (s *Service) DeleteTable(ctx context.Context, id uint64) error {
	if err := s.repos.Tables.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("table_id", id).Msg("table deleted")

	return nil
}
