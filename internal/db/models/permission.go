package models

import (
	"strings"
	"time"
)

// Permission grants one action on one resource. Names use resource.action format (e.g., "orders.create").
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint64 `gorm:"primaryKey"`
	// Name is the unique permission identifier.
	Name string `gorm:"size:100;not null;uniqueIndex"`
	// Resource is the part of Name before the last dot.
	Resource string `gorm:"size:100;not null"`
	// Action is the part of Name after the last dot.
	Action string `gorm:"size:50;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "auth_permissions"
}

// SplitName fills Resource and Action from Name.
func (p *Permission) SplitName() {
	i := strings.LastIndex(p.Name, ".")
	if i < 0 {
		p.Resource, p.Action = p.Name, ""
		return
	}

	p.Resource, p.Action = p.Name[:i], p.Name[i+1:]
}
