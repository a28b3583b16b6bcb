package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
)

// CreateRole creates a role and grants the requested permissions.
func (s *Service) CreateRole(ctx context.Context, req dto.RoleCreateRequest) (*models.Role, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.repos.Roles.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperror.Conflict("role", "name", req.Name)
	}

	role := dto.NewRole.Map(&req)

	err = s.repos.Transaction(ctx, func(tx *repository.Set) error {
		if err := tx.Roles.Create(ctx, role); err != nil {
			return err
		}

		permissions, err := findPermissions(ctx, tx, req.PermissionIDs)
		if err != nil {
			return err
		}

		for _, p := range permissions {
			key := models.RolePermissionKey{RoleID: role.ID, PermissionID: p.ID}
			if _, err := tx.Roles.Permissions().Assign(ctx, key); err != nil {
				return err
			}
		}

		role.Permissions = permissions

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("role_id", role.ID).Str("name", role.Name).Msg("role created")

	return role, nil
}

func findPermissions(ctx context.Context, repos *repository.Set, ids []uint64) ([]models.Permission, error) {
	if len(ids) == 0 {
		return []models.Permission{}, nil
	}

	permissions, err := repos.Permissions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint64]bool, len(permissions))
	for _, p := range permissions {
		found[p.ID] = true
	}

	for _, id := range ids {
		if !found[id] {
			return nil, apperror.Domain("permission %d does not exist", id)
		}
	}

	return permissions, nil
}

// GetRole loads a role with its permissions.
func (s *Service) GetRole(ctx context.Context, id uint64) (*models.Role, error) {
	role, err := s.repos.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return role, s.repos.Roles.LoadPermissions(ctx, role)
}

// ListRoles returns one page of roles with their permissions.
func (s *Service) ListRoles(
	ctx context.Context, search string, pr repository.PageRequest,
) (repository.Page[models.Role], error) {
	var (
		page repository.Page[models.Role]
		err  error
	)

	if search != "" {
		page, err = s.repos.Roles.FindByNameContaining(ctx, search, pr)
	} else {
		page, err = s.repos.Roles.FindAll(ctx, pr)
	}

	if err != nil {
		return page, err
	}

	roles := make([]*models.Role, len(page.Items))
	for i := range page.Items {
		roles[i] = &page.Items[i]
	}

	return page, s.repos.Roles.LoadPermissions(ctx, roles...)
}

// UpdateRole replaces the name and description of a role. Built-in roles keep their name.
func (s *Service) UpdateRole(ctx context.Context, id uint64, req dto.RoleUpdateRequest) (*models.Role, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	role, err := s.repos.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && role.Name != req.Name {
		return nil, apperror.Domain("built-in role %s cannot be renamed", role.Name)
	}

	if role.Name != req.Name {
		taken, err := s.repos.Roles.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}

		if taken {
			return nil, apperror.Conflict("role", "name", req.Name)
		}
	}

	dto.RoleUpdate.Into(&req, role)

	if err := s.repos.Roles.Save(ctx, role); err != nil {
		return nil, err
	}

	return role, s.repos.Roles.LoadPermissions(ctx, role)
}

// DeleteRole removes a role and its assignments. Built-in roles cannot be deleted.
func (s *Service) DeleteRole(ctx context.Context, id uint64) error {
	role, err := s.repos.Roles.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return apperror.Domain("built-in role %s cannot be deleted", role.Name)
	}

	if err := s.repos.Roles.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("role_id", id).Str("name", role.Name).Msg("role deleted")

	return nil
}

// GrantPermission grants a permission to a role. A missing permission is a domain error.
func (s *Service) GrantPermission(ctx context.Context, roleID, permissionID uint64) (*models.Role, error) {
	role, err := s.repos.Roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if _, err := findPermissions(ctx, s.repos, []uint64{permissionID}); err != nil {
		return nil, err
	}

	key := models.RolePermissionKey{RoleID: roleID, PermissionID: permissionID}
	if _, err := s.repos.Roles.Permissions().Assign(ctx, key); err != nil {
		return nil, err
	}

	log.Info().Uint64("role_id", roleID).Uint64("permission_id", permissionID).Msg("permission granted")

	return role, s.repos.Roles.LoadPermissions(ctx, role)
}

// RevokePermission removes a permission from a role.
func (s *Service) RevokePermission(ctx context.Context, roleID, permissionID uint64) error {
	key := models.RolePermissionKey{RoleID: roleID, PermissionID: permissionID}
	if err := s.repos.Roles.Permissions().Revoke(ctx, key); err != nil {
		return err
	}

	log.Info().Uint64("role_id", roleID).Uint64("permission_id", permissionID).Msg("permission revoked")

	return nil
}

// CreatePermission creates a permission. Resource and action are taken from the name.
func (s *Service) CreatePermission(ctx context.Context, req dto.PermissionCreateRequest) (*models.Permission, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.repos.Permissions.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperror.Conflict("permission", "name", req.Name)
	}

	p := dto.NewPermission.Map(&req)
	p.SplitName()

	if err := s.repos.Permissions.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetPermission loads a permission.
func (s *Service) GetPermission(ctx context.Context, id uint64) (*models.Permission, error) {
	return s.repos.Permissions.FindByID(ctx, id)
}

// ListPermissions returns one page of permissions.
func (s *Service) ListPermissions(
	ctx context.Context, search string, pr repository.PageRequest,
) (repository.Page[models.Permission], error) {
	if search != "" {
		return s.repos.Permissions.FindByNameContaining(ctx, search, pr)
	}

	return s.repos.Permissions.FindAll(ctx, pr)
}

// DeletePermission removes a permission and every grant of it.
func (s *Service) DeletePermission(ctx context.Context, id uint64) error {
	return s.repos.Permissions.Delete(ctx, id)
}

// EnsurePermissions creates the missing permissions of names and returns all of them.
func (s *Service) EnsurePermissions(ctx context.Context, names map[string]string) ([]models.Permission, error) {
	keys := make([]string, 0, len(names))
	for n := range names {
		keys = append(keys, n)
	}

	existing, err := s.repos.Permissions.FindByNames(ctx, keys)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	for _, n := range keys {
		if have[n] {
			continue
		}

		p := &models.Permission{Name: n, Description: names[n]}
		p.SplitName()

		if err := s.repos.Permissions.Create(ctx, p); err != nil {
			return nil, err
		}

		existing = append(existing, *p)
	}

	return existing, nil
}

// EnsureRole creates a built-in role if it is missing and grants it the named permissions.
func (s *Service) EnsureRole(ctx context.Context, def DefaultRole) (*models.Role, error) {
	role, err := s.repos.Roles.FindByName(ctx, def.Name)

	switch apperror.KindOf(err) {
	case "":
	case apperror.KindNotFound:
		role = &models.Role{Name: def.Name, Description: def.Description, IsSystem: true}
		if err := s.repos.Roles.Create(ctx, role); err != nil {
			return nil, err
		}

		log.Info().Str("name", role.Name).Msg("built-in role created")
	default:
		return nil, err
	}

	permissions, err := s.repos.Permissions.FindByNames(ctx, def.Permissions)
	if err != nil {
		return nil, err
	}

	for _, p := range permissions {
		key := models.RolePermissionKey{RoleID: role.ID, PermissionID: p.ID}

		granted, err := s.repos.Roles.Permissions().Exists(ctx, key)
		if err != nil {
			return nil, err
		}

		if granted {
			continue
		}

		if _, err := s.repos.Roles.Permissions().Assign(ctx, key); err != nil {
			return nil, err
		}
	}

	return role, s.repos.Roles.LoadPermissions(ctx, role)
}
