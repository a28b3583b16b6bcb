package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/db/repository"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db     *gorm.DB
	repos  *repository.Set
	hasher PasswordHasher
	tokens *Issuer
	cfg    config.Auth
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithHasher replaces the hasher selected by the config.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, cfg config.Auth, opts ...Option) (*Service, error) {
	if db == nil {
		return nil, repository.ErrDBNil
	}

	s := &Service{
		db:     db,
		repos:  repository.NewSet(db),
		tokens: NewIssuer(cfg),
		cfg:    cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.hasher == nil {
		h, err := NewHasher(cfg)
		if err != nil {
			return nil, err
		}

		s.hasher = h
	}

	return s, nil
}

// Hasher returns the injected password hasher.
func (s *Service) Hasher() PasswordHasher {
	return s.hasher
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// userPermissions joins users_roles and roles_permission for the user.
func (s *Service) userPermissions(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("auth_permissions").
		Joins("JOIN auth_roles_permission ON auth_roles_permission.permission_id = auth_permissions.id").
		Joins("JOIN auth_users_roles ON auth_users_roles.role_id = auth_roles_permission.role_id")
}

// HasPermission checks if a user has a specific permission through any of their roles.
func (s *Service) HasPermission(ctx context.Context, userID uint64, permission string) (bool, error) {
	var count int64

	err := s.userPermissions(ctx).
		Where("auth_users_roles.user_id = ? AND auth_permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	return count > 0, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	granted, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	return slices.ContainsFunc(permissions, func(p string) bool {
		return slices.Contains(granted, p)
	}), nil
}

// HasAllPermissions checks if a user has all of the given permissions.
func (s *Service) HasAllPermissions(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return true, nil
	}

	granted, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if !slices.Contains(granted, p) {
			return false, nil
		}
	}

	return true, nil
}

// GetUserPermissions retrieves the sorted, distinct permission names of a user.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	permissions := []string{}

	err := s.userPermissions(ctx).
		Distinct("auth_permissions.name").
		Where("auth_users_roles.user_id = ?", userID).
		Order("auth_permissions.name").
		Pluck("auth_permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}
