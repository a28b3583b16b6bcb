package dto

import (
	"time"

	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/mapper"
)

// TableResponse is the API view of a dining table.
type TableResponse struct {
	ID          uint64    `json:"id"`
	TableNumber int       `json:"tableNumber"`
	Capacity    int       `json:"capacity"`
	IsActive    bool      `json:"isActive"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableRequest creates or replaces a table. An empty status means AVAILABLE.
type TableRequest struct {
	TableNumber int    `json:"tableNumber" validate:"required,gt=0"`
	Capacity    int    `json:"capacity"    validate:"required,gt=0,lte=100"`
	IsActive    bool   `json:"isActive"`
	Status      string `json:"status"      validate:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED OUT_OF_SERVICE"`
}

// TableStatusRequest changes only the occupancy state.
type TableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE OCCUPIED RESERVED OUT_OF_SERVICE"`
}

var (
	TableToResponse = mapper.Must[models.Table, TableResponse](
		mapper.Field("ID", "TableNumber", "Capacity", "IsActive", "Status", "CreatedAt", "UpdatedAt"),
	)

	NewTable = mapper.Must[TableRequest, models.Table](
		mapper.Field("TableNumber", "Capacity", "IsActive", "Status"),
	)
)
