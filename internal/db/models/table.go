package models

import "time"

// TableStatus is the occupancy state of a dining table.
type TableStatus string

const (
	// TableAvailable is a free table.
	TableAvailable TableStatus = "AVAILABLE"
	// TableOccupied is a table with guests.
	TableOccupied TableStatus = "OCCUPIED"
	// TableReserved is a table held for a reservation.
	TableReserved TableStatus = "RESERVED"
	// TableOutOfService is a table that cannot be used.
	TableOutOfService TableStatus = "OUT_OF_SERVICE"
)

// Table is a dining table of the restaurant.
type Table struct {
	ID          uint64      `gorm:"primaryKey"`
	TableNumber int         `gorm:"not null;uniqueIndex"`
	Capacity    int         `gorm:"not null"`
	IsActive    bool        `gorm:"not null"`
	Status      TableStatus `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Table model.
func (Table) TableName() string {
	return "tables_tables"
}
