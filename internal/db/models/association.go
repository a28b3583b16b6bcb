package models

import "time"

// UserRoleKey identifies one role assignment. It is comparable, so it can be
// used as a map key; equality covers both ids.
type UserRoleKey struct {
	UserID uint64
	RoleID uint64
}

// Left returns the user id.
func (k UserRoleKey) Left() uint64 { return k.UserID }

// Right returns the role id.
func (k UserRoleKey) Right() uint64 { return k.RoleID }

// UsersRoles is the join row between users and roles.
// It has no identity beyond its key and is removed with either side (CASCADE).
type UsersRoles struct {
	// UserID is the ID of the user in this assignment.
	UserID uint64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	// RoleID is the ID of the role in this assignment.
	RoleID uint64 `gorm:"primaryKey;column:role_id;autoIncrement:false"`
	// User is only used to declare the foreign key.
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Role is only used to declare the foreign key.
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// AssignedAt is the time the role was assigned.
	AssignedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the database table name for the UsersRoles model.
func (UsersRoles) TableName() string {
	return "auth_users_roles"
}

// NewUsersRoles builds the join row for k.
func NewUsersRoles(k UserRoleKey) UsersRoles {
	return UsersRoles{UserID: k.UserID, RoleID: k.RoleID}
}

// Key returns the composite key of the row.
func (r UsersRoles) Key() UserRoleKey {
	return UserRoleKey{UserID: r.UserID, RoleID: r.RoleID}
}

// RolePermissionKey identifies one permission grant.
type RolePermissionKey struct {
	RoleID       uint64
	PermissionID uint64
}

// Left returns the role id.
func (k RolePermissionKey) Left() uint64 { return k.RoleID }

// Right returns the permission id.
func (k RolePermissionKey) Right() uint64 { return k.PermissionID }

// RolesPermission is the join row between roles and permissions.
type RolesPermission struct {
	// RoleID is the ID of the role in this grant.
	RoleID uint64 `gorm:"primaryKey;column:role_id;autoIncrement:false"`
	// PermissionID is the ID of the permission in this grant.
	PermissionID uint64 `gorm:"primaryKey;column:permission_id;autoIncrement:false"`
	// Role is only used to declare the foreign key.
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Permission is only used to declare the foreign key.
	Permission *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	// GrantedAt is the time the permission was granted.
	GrantedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the database table name for the RolesPermission model.
func (RolesPermission) TableName() string {
	return "auth_roles_permission"
}

// NewRolesPermission builds the join row for k.
func NewRolesPermission(k RolePermissionKey) RolesPermission {
	return RolesPermission{RoleID: k.RoleID, PermissionID: k.PermissionID}
}

// Key returns the composite key of the row.
func (r RolesPermission) Key() RolePermissionKey {
	return RolePermissionKey{RoleID: r.RoleID, PermissionID: r.PermissionID}
}
