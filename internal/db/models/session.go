package models

import "time"

// SessionState is the lifecycle state of a login session.
type SessionState string

const (
	// SessionPending is a created session whose tokens were not issued yet.
	SessionPending SessionState = "PENDING"
	// SessionActive is a session that can authenticate requests.
	SessionActive SessionState = "ACTIVE"
	// SessionExpired is a session whose refresh window has passed.
	SessionExpired SessionState = "EXPIRED"
	// SessionRevoked is a session ended by logout or an administrator.
	SessionRevoked SessionState = "REVOKED"
)

// Session is the server-side record of an authenticated client.
// Tokens themselves are never stored, only their SHA-256 digests and short previews.
type Session struct {
	// ID is a random UUID, also carried in the token claims.
	ID string `gorm:"primaryKey;size:36"`
	// UserID is the owner of the session.
	UserID uint64 `gorm:"not null;index"`
	// User is loaded on request.
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// AccessTokenHash is the hex SHA-256 of the current access token.
	AccessTokenHash string `gorm:"size:64;not null"`
	// RefreshTokenHash is the hex SHA-256 of the refresh token.
	RefreshTokenHash string `gorm:"size:64;not null"`
	// AccessTokenPreview is safe to display.
	AccessTokenPreview string `gorm:"size:16"`
	// RefreshTokenPreview is safe to display.
	RefreshTokenPreview string `gorm:"size:16"`
	// AccessTokenExpiresAt is the expiry of the current access token.
	AccessTokenExpiresAt time.Time `gorm:"not null"`
	// RefreshTokenExpiresAt ends the session.
	RefreshTokenExpiresAt time.Time `gorm:"not null;index"`
	// IPAddress of the login request.
	IPAddress string `gorm:"size:64"`
	// UserAgent of the login request.
	UserAgent string `gorm:"size:255"`
	// IsActive is application state, independent of expiry.
	IsActive bool `gorm:"not null"`
	// RevokedAt is set by logout or administrative revocation.
	RevokedAt *time.Time
	// CreatedAt is the login time (managed by GORM).
	CreatedAt time.Time
	// LastActivityAt is updated by every authenticated request.
	LastActivityAt time.Time
}

// TableName specifies the database table name for the Session model.
func (Session) TableName() string {
	return "auth_sessions"
}

// IsExpired reports whether now is past the refresh window. It is never stored.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.RefreshTokenExpiresAt)
}

// Usable reports whether the session may authenticate a request at now.
//
//	active  expired  usable
//	true    false    yes
//	true    true     no (stale)
//	false   any      no
func (s *Session) Usable(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}

// State derives the lifecycle state at now.
func (s *Session) State(now time.Time) SessionState {
	switch {
	case s.RevokedAt != nil:
		return SessionRevoked
	case s.IsExpired(now):
		return SessionExpired
	case !s.IsActive:
		return SessionPending
	default:
		return SessionActive
	}
}
