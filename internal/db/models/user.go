// Package models contains the gorm entities of restopos.
//
// Tables are prefixed with their schema group (auth, orders, product, tables)
// so the same migration runs on SQLite, MySQL and PostgreSQL.
package models

import "time"

// User represents an employee account of the point-of-sale system.
// Roles are not loaded implicitly; repositories fill Roles on request.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// EmployeeID is the payroll identifier of the employee.
	EmployeeID string `gorm:"size:20;not null;uniqueIndex"`
	// Username is the unique login name.
	Username string `gorm:"size:50;not null;uniqueIndex"`
	// Email is an optional contact address.
	Email string `gorm:"size:255"`
	// Password is the digest produced by the configured password hasher.
	Password string `gorm:"size:255;not null" json:"-"`
	// FirstName is the user's given name.
	FirstName string `gorm:"size:100;not null"`
	// LastName is the user's family name.
	LastName string `gorm:"size:100;not null"`
	// IsActive is false for employees who left; they cannot log in.
	IsActive bool `gorm:"not null"`
	// Enabled is false when the account is locked by an administrator.
	Enabled bool `gorm:"not null"`
	// LoginAttempts counts consecutive failed logins since the last success.
	LoginAttempts int `gorm:"not null"`
	// RecuperationToken authorizes one password reset while not expired.
	RecuperationToken *string `gorm:"size:20;uniqueIndex" json:"-"`
	// RecuperationTokenExpiresAt is the end of the recuperation token's validity.
	RecuperationTokenExpiresAt *time.Time
	// LastLoginAt is the time of the last successful login.
	LastLoginAt *time.Time
	// Roles is filled explicitly by the user repository.
	Roles []Role `gorm:"-"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "auth_users"
}

// Locked reports whether the account refuses logins regardless of the password.
// The reason is deliberately not exposed.
func (u *User) Locked(maxAttempts int) bool {
	if !u.Enabled {
		return true
	}

	return maxAttempts > 0 && u.LoginAttempts >= maxAttempts
}

// RecuperationValid reports whether the stored recuperation token can still be used at now.
func (u *User) RecuperationValid(now time.Time) bool {
	return u.RecuperationToken != nil &&
		u.RecuperationTokenExpiresAt != nil &&
		now.Before(*u.RecuperationTokenExpiresAt)
}
