package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/web/handler"
)

// Seed creates the built-in permissions, roles and order statuses, and the
// administrator account when cfg.Seed is enabled. Running it again changes nothing.
func Seed(ctx context.Context, cfg *config.Config, svc *handler.Services) error {
	if _, err := svc.Auth.EnsurePermissions(ctx, auth.AllPermissions()); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}

	var adminRoleID uint64

	for _, def := range auth.DefaultRoles() {
		role, err := svc.Auth.EnsureRole(ctx, def)
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", def.Name, err)
		}

		if role.Name == auth.RoleAdmin {
			adminRoleID = role.ID
		}
	}

	if err := svc.Ordering.EnsureStatuses(ctx); err != nil {
		return fmt.Errorf("failed to seed order statuses: %w", err)
	}

	if !cfg.Seed.Enabled {
		return nil
	}

	admin, err := svc.Auth.CreateUser(ctx, dto.UserCreateRequest{
		EmployeeID: cfg.Seed.AdminEmployeeID,
		Username:   cfg.Seed.AdminUsername,
		Password:   cfg.Seed.AdminPassword,
		FirstName:  cfg.Seed.AdminFirstName,
		LastName:   cfg.Seed.AdminLastName,
		RoleIDs:    []uint64{adminRoleID},
	})

	switch {
	case errors.Is(err, apperror.ErrConflict):
		return nil
	case err != nil:
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Info().Uint64("user_id", admin.ID).Str("username", admin.Username).Msg("admin user seeded")

	return nil
}
