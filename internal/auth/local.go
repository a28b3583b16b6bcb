package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/token"
)

// CreateUser creates an active, enabled user and assigns the requested roles.
func (s *Service) CreateUser(ctx context.Context, req dto.UserCreateRequest) (*models.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkUserUnique(ctx, req.Username, req.EmployeeID); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := dto.NewUser.Map(&req)
	user.Password = digest
	user.IsActive = true
	user.Enabled = true

	err = s.repos.Transaction(ctx, func(tx *repository.Set) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		roles, err := findRoles(ctx, tx, req.RoleIDs)
		if err != nil {
			return err
		}

		for _, r := range roles {
			if _, err := tx.Users.Roles().Assign(ctx, models.UserRoleKey{UserID: user.ID, RoleID: r.ID}); err != nil {
				return err
			}
		}

		user.Roles = roles

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user created")

	return user, nil
}

func (s *Service) checkUserUnique(ctx context.Context, username, employeeID string) error {
	taken, err := s.repos.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}

	if taken {
		return apperror.Conflict("user", "username", username)
	}

	taken, err = s.repos.Users.ExistsByEmployeeID(ctx, employeeID)
	if err != nil {
		return err
	}

	if taken {
		return apperror.Conflict("user", "employeeId", employeeID)
	}

	return nil
}

// findRoles loads every role id or fails with a domain error naming the first missing one.
func findRoles(ctx context.Context, repos *repository.Set, ids []uint64) ([]models.Role, error) {
	if len(ids) == 0 {
		return []models.Role{}, nil
	}

	roles, err := repos.Roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint64]bool, len(roles))
	for _, r := range roles {
		found[r.ID] = true
	}

	for _, id := range ids {
		if !found[id] {
			return nil, apperror.Domain("role %d does not exist", id)
		}
	}

	return roles, nil
}

// GetUser loads a user with their roles.
func (s *Service) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.LoadRoles(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers returns one page of users, filtered by name or username when search is set.
func (s *Service) ListUsers(
	ctx context.Context, search string, pr repository.PageRequest,
) (repository.Page[models.User], error) {
	var (
		page repository.Page[models.User]
		err  error
	)

	if search != "" {
		page, err = s.repos.Users.FindByNameContaining(ctx, search, pr)
	} else {
		page, err = s.repos.Users.FindAll(ctx, pr)
	}

	if err != nil {
		return page, err
	}

	users := make([]*models.User, len(page.Items))
	for i := range page.Items {
		users[i] = &page.Items[i]
	}

	return page, s.repos.Users.LoadRoles(ctx, users...)
}

// UpdateUser replaces the profile fields of a user.
func (s *Service) UpdateUser(ctx context.Context, id uint64, req dto.UserUpdateRequest) (*models.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.UserUpdate.Into(&req, user)

	if err := s.repos.Users.Save(ctx, user); err != nil {
		return nil, err
	}

	if !user.IsActive {
		if _, err := s.repos.Sessions.RevokeAllForUser(ctx, user.ID, s.clock()); err != nil {
			return nil, err
		}
	}

	return user, s.repos.Users.LoadRoles(ctx, user)
}

// DeleteUser removes a user. Users referenced by orders cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("user_id", id).Msg("user deleted")

	return nil
}

// AssignRole assigns a role to a user. A missing role is a domain error.
func (s *Service) AssignRole(ctx context.Context, userID, roleID uint64) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := findRoles(ctx, s.repos, []uint64{roleID}); err != nil {
		return nil, err
	}

	if _, err := s.repos.Users.Roles().Assign(ctx, models.UserRoleKey{UserID: userID, RoleID: roleID}); err != nil {
		return nil, err
	}

	log.Info().Uint64("user_id", userID).Uint64("role_id", roleID).Msg("role assigned")

	return user, s.repos.Users.LoadRoles(ctx, user)
}

// RevokeRole removes a role from a user.
func (s *Service) RevokeRole(ctx context.Context, userID, roleID uint64) error {
	if err := s.repos.Users.Roles().Revoke(ctx, models.UserRoleKey{UserID: userID, RoleID: roleID}); err != nil {
		return err
	}

	log.Info().Uint64("user_id", userID).Uint64("role_id", roleID).Msg("role revoked")

	return nil
}

// ChangePassword changes a user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, req dto.ChangePasswordRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(req.CurrentPassword, user.Password)
	if err != nil {
		return err
	}

	if !ok {
		return apperror.ErrInvalidCredentials
	}

	if user.Password, err = s.hasher.Hash(req.NewPassword); err != nil {
		return err
	}

	return s.repos.Users.Save(ctx, user)
}

// IssueRecuperationToken stores a new recuperation token on the user and returns it
// with its expiry. A previous token is replaced.
func (s *Service) IssueRecuperationToken(ctx context.Context, userID uint64) (string, time.Time, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return "", time.Time{}, err
	}

	tok, err := token.GenerateRecuperationToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue recuperation token: %w", err)
	}

	expires := s.clock().Add(s.cfg.RecuperationTokenTTL)
	user.RecuperationToken = &tok
	user.RecuperationTokenExpiresAt = &expires

	if err := s.repos.Users.Save(ctx, user); err != nil {
		return "", time.Time{}, err
	}

	log.Info().Uint64("user_id", userID).Time("expires_at", expires).Msg("recuperation token issued")

	return tok, expires, nil
}

// ResetPassword sets a new password with a recuperation token. The token is consumed,
// the account is unlocked and every session of the user is revoked.
func (s *Service) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}

	now := s.clock()

	user, err := s.repos.Users.FindByRecuperationToken(ctx, req.Token)
	if apperror.KindOf(err) == apperror.KindNotFound {
		return apperror.ErrRecuperationTokenInvalid
	}

	if err != nil {
		return err
	}

	if !user.RecuperationValid(now) {
		return apperror.ErrRecuperationTokenInvalid
	}

	digest, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = digest
	user.RecuperationToken = nil
	user.RecuperationTokenExpiresAt = nil
	user.LoginAttempts = 0
	user.Enabled = true

	err = s.repos.Transaction(ctx, func(tx *repository.Set) error {
		if err := tx.Users.Save(ctx, user); err != nil {
			return err
		}

		_, err := tx.Sessions.RevokeAllForUser(ctx, user.ID, now)

		return err
	})
	if err != nil {
		return err
	}

	log.Info().Uint64("user_id", user.ID).Msg("password reset")

	return nil
}

// Unlock resets the failed login counter and re-enables the account.
func (s *Service) Unlock(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.SetEnabled(ctx, userID, true); err != nil {
		return nil, err
	}

	user.LoginAttempts = 0
	user.Enabled = true

	log.Info().Uint64("user_id", userID).Msg("account unlocked")

	return user, s.repos.Users.LoadRoles(ctx, user)
}

// Lock disables the account. Open sessions are revoked.
func (s *Service) Lock(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Set) error {
		if err := tx.Users.SetEnabled(ctx, userID, false); err != nil {
			return err
		}

		_, err := tx.Sessions.RevokeAllForUser(ctx, userID, s.clock())

		return err
	})
	if err != nil {
		return nil, err
	}

	user.Enabled = false

	log.Info().Uint64("user_id", userID).Msg("account locked")

	return user, s.repos.Users.LoadRoles(ctx, user)
}
