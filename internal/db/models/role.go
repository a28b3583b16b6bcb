package models

import "time"

// Role is a named collection of permissions assigned to users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint64 `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "ADMIN", "WAITER"), 4 to 50 characters.
	Name string `gorm:"size:50;not null;uniqueIndex"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem marks seeded roles that cannot be deleted.
	IsSystem bool `gorm:"not null"`
	// Permissions is filled explicitly by the role repository.
	Permissions []Permission `gorm:"-"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "auth_roles"
}
