package ordering

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
)

// CreateStatus creates a status with a unique name.
func (s *Service) CreateStatus(ctx context.Context, req dto.StatusRequest) (*models.Status, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if err := s.statusNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	st := dto.NewStatus.Map(&req)
	if err := s.repos.Statuses.Create(ctx, st); err != nil {
		return nil, err
	}

	log.Info().Uint64("status_id", st.ID).Str("name", st.Name).Msg("order status created")

	return st, nil
}

func (s *Service) statusNameFree(ctx context.Context, name string) error {
	taken, err := s.repos.Statuses.ExistsByName(ctx, name)
	if err != nil {
		return err
	}

	if taken {
		return apperror.Conflict("status", "name", name)
	}

	return nil
}

// GetStatus loads a status.
func (s *Service) GetStatus(ctx context.Context, id uint64) (*models.Status, error) {
	return s.repos.Statuses.FindByID(ctx, id)
}

// ListStatuses returns one page of statuses, filtered by name when search is set.
func (s *Service) ListStatuses(
	ctx context.Context, search string, pr repository.PageRequest,
) (repository.Page[models.Status], error) {
	if search != "" {
		return s.repos.Statuses.FindByContaining(ctx, "name", search, pr)
	}

	return s.repos.Statuses.FindAll(ctx, pr)
}

// UpdateStatus replaces the name and description of a status.
// Built-in statuses keep their name.
func (s *Service) UpdateStatus(ctx context.Context, id uint64, req dto.StatusRequest) (*models.Status, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	st, err := s.repos.Statuses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if st.Name != req.Name {
		if IsLifecycleStatus(st.Name) {
			return nil, apperror.Domain("status %s is built in and cannot be renamed", st.Name)
		}

		if err := s.statusNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}

	dto.NewStatus.Into(&req, st)

	return st, s.repos.Statuses.Save(ctx, st)
}

// DeleteStatus removes a status that is neither built in nor used by an order.
func (s *Service) DeleteStatus(ctx context.Context, id uint64) error {
	st, err := s.repos.Statuses.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if IsLifecycleStatus(st.Name) {
		return apperror.Domain("status %s is built in and cannot be deleted", st.Name)
	}

	used, err := s.repos.Orders.ExistsByStatus(ctx, id)
	if err != nil {
		return err
	}

	if used {
		return apperror.Domain("status %s is used by orders", st.Name)
	}

	return s.repos.Statuses.Delete(ctx, id)
}

// EnsureStatuses creates the missing built-in statuses. Existing ones are left untouched.
func (s *Service) EnsureStatuses(ctx context.Context) error {
	for name, description := range DefaultStatuses() {
		_, err := s.repos.Statuses.FindByName(ctx, name)
		if err == nil {
			continue
		}

		if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		if err := s.repos.Statuses.Create(ctx, &models.Status{Name: name, Description: description}); err != nil {
			return err
		}

		log.Info().Str("name", name).Msg("order status seeded")
	}

	return nil
}
