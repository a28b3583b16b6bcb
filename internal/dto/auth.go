package dto

import (
	"time"

	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/mapper"
)

// PermissionResponse is the API view of a permission.
type PermissionResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// PermissionCreateRequest creates a permission. Resource and action are derived from the name.
type PermissionCreateRequest struct {
	Name        string `json:"name"        validate:"required,max=100,contains=."`
	Description string `json:"description" validate:"max=255"`
}

// RoleSummary is the short view of a role embedded in users.
type RoleSummary struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RoleResponse is the API view of a role with its permissions.
type RoleResponse struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"isSystem"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// RoleCreateRequest creates a role, optionally granting permissions right away.
type RoleCreateRequest struct {
	Name          string   `json:"name"          validate:"required,min=4,max=50"`
	Description   string   `json:"description"   validate:"max=255"`
	PermissionIDs []uint64 `json:"permissionIds" validate:"omitempty,dive,gt=0"`
}

// RoleUpdateRequest replaces the name and description of a role.
type RoleUpdateRequest struct {
	Name        string `json:"name"        validate:"required,min=4,max=50"`
	Description string `json:"description" validate:"max=255"`
}

// UserSummary is the short view of a user embedded in orders.
type UserSummary struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserResponse is the API view of a user. It never contains the password digest
// or the recuperation token.
type UserResponse struct {
	ID            uint64        `json:"id"`
	EmployeeID    string        `json:"employeeId"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	IsActive      bool          `json:"isActive"`
	Enabled       bool          `json:"enabled"`
	LoginAttempts int           `json:"loginAttempts"`
	LastLoginAt   *time.Time    `json:"lastLoginAt,omitempty"`
	Roles         []RoleSummary `json:"roles"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// UserCreateRequest creates an active, enabled user.
type UserCreateRequest struct {
	EmployeeID string   `json:"employeeId" validate:"required,max=20"`
	Username   string   `json:"username"   validate:"required,min=3,max=50"`
	Email      string   `json:"email"      validate:"omitempty,email,max=255"`
	Password   string   `json:"password"   validate:"required,min=8,max=72"`
	FirstName  string   `json:"firstName"  validate:"required,max=100"`
	LastName   string   `json:"lastName"   validate:"required,max=100"`
	RoleIDs    []uint64 `json:"roleIds"    validate:"omitempty,dive,gt=0"`
}

// UserUpdateRequest replaces the profile fields of a user.
type UserUpdateRequest struct {
	Email     string `json:"email"     validate:"omitempty,email,max=255"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
	IsActive  bool   `json:"isActive"`
}

// AssignRoleRequest assigns a role to a user.
type AssignRoleRequest struct {
	RoleID uint64 `json:"roleId" validate:"required"`
}

// GrantPermissionRequest grants a permission to a role.
type GrantPermissionRequest struct {
	PermissionID uint64 `json:"permissionId" validate:"required"`
}

// SessionResponse is the API view of a session. IsExpired and State are
// derived at read time.
type SessionResponse struct {
	ID                    string     `json:"id"`
	UserID                uint64     `json:"userId"`
	AccessTokenPreview    string     `json:"accessTokenPreview"`
	RefreshTokenPreview   string     `json:"refreshTokenPreview"`
	AccessTokenExpiresAt  time.Time  `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time  `json:"refreshTokenExpiresAt"`
	IPAddress             string     `json:"ipAddress"`
	UserAgent             string     `json:"userAgent"`
	IsActive              bool       `json:"isActive"`
	RevokedAt             *time.Time `json:"revokedAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	LastActivityAt        time.Time  `json:"lastActivityAt"`
	IsExpired             bool       `json:"isExpired"`
	State                 string     `json:"state"`
}

// RevokedSessionsResponse reports how many sessions of a user were revoked.
type RevokedSessionsResponse struct {
	UserID  uint64 `json:"userId"`
	Revoked int64  `json:"revoked"`
}

// LoginRequest authenticates with username and password.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest changes the password of the authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// ResetPasswordRequest sets a new password with a recuperation token.
type ResetPasswordRequest struct {
	Token       string `json:"token"       validate:"required,len=10,alphanum"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	AccessToken           string           `json:"accessToken"`
	RefreshToken          string           `json:"refreshToken,omitempty"`
	TokenType             string           `json:"tokenType"`
	AccessTokenExpiresAt  time.Time        `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time        `json:"refreshTokenExpiresAt"`
	Session               *SessionResponse `json:"session"`
	User                  *UserResponse    `json:"user,omitempty"`
}

// RecuperationResponse hands an issued recuperation token to an administrator.
type RecuperationResponse struct {
	UserID    uint64    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Projections of the auth entities.
var (
	PermissionToResponse = mapper.Must[models.Permission, PermissionResponse](
		mapper.Field("ID", "Name", "Resource", "Action", "Description"),
	)

	NewPermission = mapper.Must[PermissionCreateRequest, models.Permission](
		mapper.Field("Name", "Description"),
	)

	RoleToSummary = mapper.Must[models.Role, RoleSummary](
		mapper.Field("ID", "Name"),
	)

	RoleToResponse = mapper.Must[models.Role, RoleResponse](
		mapper.Field("ID", "Name", "Description", "IsSystem", "CreatedAt", "UpdatedAt"),
		mapper.Each("Permissions", "Permissions", PermissionToResponse),
	)

	NewRole = mapper.Must[RoleCreateRequest, models.Role](
		mapper.Field("Name", "Description"),
	)

	RoleUpdate = mapper.Must[RoleUpdateRequest, models.Role](
		mapper.Field("Name", "Description"),
	)

	UserToSummary = mapper.Must[models.User, UserSummary](
		mapper.Field("ID", "Username", "FirstName", "LastName"),
	)

	UserToResponse = mapper.Must[models.User, UserResponse](
		mapper.Field("ID", "EmployeeID", "Username", "Email", "FirstName", "LastName",
			"IsActive", "Enabled", "LoginAttempts", "LastLoginAt", "CreatedAt", "UpdatedAt"),
		mapper.Each("Roles", "Roles", RoleToSummary),
	)

	NewUser = mapper.Must[UserCreateRequest, models.User](
		mapper.Field("EmployeeID", "Username", "Email", "FirstName", "LastName"),
	)

	UserUpdate = mapper.Must[UserUpdateRequest, models.User](
		mapper.Field("Email", "FirstName", "LastName", "IsActive"),
	)

	sessionToResponse = mapper.Must[models.Session, SessionResponse](
		mapper.Field("ID", "UserID", "AccessTokenPreview", "RefreshTokenPreview",
			"AccessTokenExpiresAt", "RefreshTokenExpiresAt", "IPAddress", "UserAgent",
			"IsActive", "RevokedAt", "CreatedAt", "LastActivityAt"),
	)
)

// ToSessionResponse projects s and derives IsExpired and State at now.
func ToSessionResponse(s *models.Session, now time.Time) *SessionResponse {
	out := sessionToResponse.Map(s)
	if out == nil {
		return nil
	}

	out.IsExpired = s.IsExpired(now)
	out.State = string(s.State(now))

	return out
}

// ToSessionResponses projects every session at now.
func ToSessionResponses(sessions []models.Session, now time.Time) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *ToSessionResponse(&sessions[i], now))
	}

	return out
}

// PrincipalResponse describes the caller: the user, the current session and
// the effective permissions.
type PrincipalResponse struct {
	User        *UserResponse    `json:"user"`
	Session     *SessionResponse `json:"session"`
	Permissions []string         `json:"permissions"`
}
