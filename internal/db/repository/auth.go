package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/db/models"
)

// Users is the repository of users.
type Users struct {
	*Repository[models.User]
	roles *JoinTable[models.UserRoleKey, models.UsersRoles]
	db    *gorm.DB
}

// NewUsers returns the user repository.
func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repository: New[models.User](db, "user"),
		roles:      NewUsersRoles(db),
		db:         db,
	}
}

// FindByUsername loads the user with the given login name.
func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindBy(ctx, "username", username)
}

// ExistsByUsername reports whether the login name is taken.
func (r *Users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.ExistsBy(ctx, "username", username)
}

// ExistsByEmployeeID reports whether the employee id is taken.
func (r *Users) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	return r.ExistsBy(ctx, "employee_id", employeeID)
}

// FindByRecuperationToken loads the user holding the recuperation token.
func (r *Users) FindByRecuperationToken(ctx context.Context, token string) (*models.User, error) {
	return r.FindBy(ctx, "recuperation_token", token)
}

// FindByNameContaining searches first name, last name and username, ignoring case.
func (r *Users) FindByNameContaining(
	ctx context.Context, search string, pr PageRequest,
) (Page[models.User], error) {
	return r.FindPage(ctx, pr, ContainingAny(search, "first_name", "last_name", "username"))
}

// LoadRoles fills the Roles of every given user.
func (r *Users) LoadRoles(ctx context.Context, users ...*models.User) error {
	roles := NewRoles(r.db)

	for _, u := range users {
		if u == nil {
			continue
		}

		ids, err := r.roles.RightsOf(ctx, u.ID)
		if err != nil {
			return err
		}

		u.Roles, err = roles.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
	}

	return nil
}

// updateColumns writes only the given columns of one user row.
func (r *Users) updateColumns(
	ctx context.Context, id uint64, scope func(*gorm.DB) *gorm.DB, values any,
) (int64, error) {
	tx, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	res := tx.Model(&models.User{}).Where("id = ?", id).Scopes(scope).Updates(values)
	if res.Error != nil {
		return 0, r.translate(res.Error)
	}

	return res.RowsAffected, nil
}

func anyUser(tx *gorm.DB) *gorm.DB { return tx }

// RecordFailedLogin increments the failed login counter in the store.
func (r *Users) RecordFailedLogin(ctx context.Context, id uint64) error {
	tx, err := r.conn(ctx)
	if err != nil {
		return err
	}

	err = tx.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("login_attempts", gorm.Expr("login_attempts + 1")).Error
	if err != nil {
		return r.translate(err)
	}

	return nil
}

// RecordLogin resets the failed login counter and stamps the login time. It
// reports false, writing nothing, when the account was disabled, locked or
// reached maxAttempts since it was read.
func (r *Users) RecordLogin(ctx context.Context, id uint64, maxAttempts int, at time.Time) (bool, error) {
	usable := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("is_active = ? AND enabled = ?", true, true)
		if maxAttempts > 0 {
			tx = tx.Where("login_attempts < ?", maxAttempts)
		}

		return tx
	}

	n, err := r.updateColumns(ctx, id, usable, map[string]any{"login_attempts": 0, "last_login_at": at})

	return n == 1, err
}

// SetEnabled locks or unlocks an account. Unlocking also resets the failed login counter.
func (r *Users) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	values := map[string]any{"enabled": enabled}
	if enabled {
		values["login_attempts"] = 0
	}

	_, err := r.updateColumns(ctx, id, anyUser, values)

	return err
}

// Roles returns the user role association table.
func (r *Users) Roles() *JoinTable[models.UserRoleKey, models.UsersRoles] {
	return r.roles
}

// Roles is the repository of roles.
type Roles struct {
	*Repository[models.Role]
	permissions *JoinTable[models.RolePermissionKey, models.RolesPermission]
	db          *gorm.DB
}

// NewRoles returns the role repository.
func NewRoles(db *gorm.DB) *Roles {
	return &Roles{
		Repository:  New[models.Role](db, "role"),
		permissions: NewRolesPermission(db),
		db:          db,
	}
}

// FindByName loads the role with the given name.
func (r *Roles) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return r.FindBy(ctx, "name", name)
}

// ExistsByName reports whether the role name is taken.
func (r *Roles) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsBy(ctx, "name", name)
}

// FindByNameContaining searches role names, ignoring case.
func (r *Roles) FindByNameContaining(ctx context.Context, search string, pr PageRequest) (Page[models.Role], error) {
	return r.FindByContaining(ctx, "name", search, pr)
}

// FindByIDs loads the roles with the given ids, ordered by id.
func (r *Roles) FindByIDs(ctx context.Context, ids []uint64) ([]models.Role, error) {
	roles := []models.Role{}
	if len(ids) == 0 {
		return roles, nil
	}

	tx, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	if err := tx.Where("id IN ?", ids).Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	return roles, nil
}

// LoadPermissions fills the Permissions of every given role.
func (r *Roles) LoadPermissions(ctx context.Context, roles ...*models.Role) error {
	permissions := NewPermissions(r.db)

	for _, role := range roles {
		if role == nil {
			continue
		}

		ids, err := r.permissions.RightsOf(ctx, role.ID)
		if err != nil {
			return err
		}

		role.Permissions, err = permissions.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
	}

	return nil
}

// Permissions returns the role permission association table.
func (r *Roles) Permissions() *JoinTable[models.RolePermissionKey, models.RolesPermission] {
	return r.permissions
}

// Permissions is the repository of permissions.
type Permissions struct {
	*Repository[models.Permission]
}

// NewPermissions returns the permission repository.
func NewPermissions(db *gorm.DB) *Permissions {
	return &Permissions{Repository: New[models.Permission](db, "permission")}
}

// FindByName loads the permission with the given name.
func (r *Permissions) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	return r.FindBy(ctx, "name", name)
}

// ExistsByName reports whether the permission name is taken.
func (r *Permissions) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsBy(ctx, "name", name)
}

// FindByNameContaining searches permission names, ignoring case.
func (r *Permissions) FindByNameContaining(
	ctx context.Context, search string, pr PageRequest,
) (Page[models.Permission], error) {
	return r.FindByContaining(ctx, "name", search, pr)
}

// FindByNames loads the permissions with the given names. Unknown names are skipped.
func (r *Permissions) FindByNames(ctx context.Context, names []string) ([]models.Permission, error) {
	return r.findIn(ctx, "name", names)
}

// FindByIDs loads the permissions with the given ids, ordered by id.
func (r *Permissions) FindByIDs(ctx context.Context, ids []uint64) ([]models.Permission, error) {
	return r.findIn(ctx, "id", ids)
}

func (r *Permissions) findIn(ctx context.Context, column string, values any) ([]models.Permission, error) {
	permissions := []models.Permission{}

	tx, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	if err := tx.Where(column+" IN ?", values).Order("id").Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	return permissions, nil
}

// NewUsersRoles returns the user role association table.
func NewUsersRoles(db *gorm.DB) *JoinTable[models.UserRoleKey, models.UsersRoles] {
	return NewJoinTable(db, "user role", "user_id", "role_id",
		models.NewUsersRoles, models.UsersRoles.Key)
}

// NewRolesPermission returns the role permission association table.
func NewRolesPermission(db *gorm.DB) *JoinTable[models.RolePermissionKey, models.RolesPermission] {
	return NewJoinTable(db, "role permission", "role_id", "permission_id",
		models.NewRolesPermission, models.RolesPermission.Key)
}

// Sessions is the repository of login sessions.
type Sessions struct {
	*Repository[models.Session]
}

// NewSessions returns the session repository.
func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{Repository: New[models.Session](db, "session")}
}

// FindActiveByUser returns the sessions of the user that are usable at now.
func (r *Sessions) FindActiveByUser(ctx context.Context, userID uint64, now time.Time) ([]models.Session, error) {
	tx, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	sessions := []models.Session{}
	if err := tx.Where("user_id = ? AND is_active = ? AND refresh_token_expires_at >= ?", userID, true, now).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to load active sessions: %w", err)
	}

	return sessions, nil
}

// FindByUser returns one page of all sessions of the user.
func (r *Sessions) FindByUser(ctx context.Context, userID uint64, pr PageRequest) (Page[models.Session], error) {
	return r.FindAllBy(ctx, "user_id", userID, pr)
}

// Touch records activity on the session.
func (r *Sessions) Touch(ctx context.Context, id string, at time.Time) error {
	tx, err := r.conn(ctx)
	if err != nil {
		return err
	}

	if err := tx.Model(&models.Session{}).Where("id = ?", id).
		UpdateColumn("last_activity_at", at).Error; err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

// RevokeAllForUser revokes every session of the user that is not revoked yet.
// It returns the number of revoked sessions.
func (r *Sessions) RevokeAllForUser(ctx context.Context, userID uint64, at time.Time) (int64, error) {
	tx, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	result := tx.Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]any{"is_active": false, "revoked_at": at})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", result.Error)
	}

	return result.RowsAffected, nil
}
