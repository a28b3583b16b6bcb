package dto

import (
	"time"

	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/mapper"
)

// StatusResponse is the API view of an order status.
type StatusResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StatusRequest creates or replaces an order status.
type StatusRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=20"`
	Description string `json:"description" validate:"required,min=1,max=100"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	ID                  uint64          `json:"id"`
	Product             *ProductSummary `json:"product"`
	Quantity            int             `json:"quantity"`
	UnitPrice           float64         `json:"unitPrice"`
	Subtotal            float64         `json:"subtotal"`
	SpecialInstructions string          `json:"specialInstructions"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// OrderResponse is the API view of an order with its lines.
type OrderResponse struct {
	ID           uint64              `json:"id"`
	User         *UserSummary        `json:"user"`
	Table        *TableResponse      `json:"table"`
	Status       *StatusResponse     `json:"status"`
	IsTakeaway   bool                `json:"isTakeaway"`
	ConfirmedAt  *time.Time          `json:"confirmedAt,omitempty"`
	InProgressAt *time.Time          `json:"inProgressAt,omitempty"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
	PaidAt       *time.Time          `json:"paidAt,omitempty"`
	CanceledAt   *time.Time          `json:"canceledAt,omitempty"`
	TotalAmount  float64             `json:"totalAmount"`
	Notes        string              `json:"notes"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// OrderItemRequest adds a product to an order. The unit price is taken from the catalog.
type OrderItemRequest struct {
	ProductID           uint64 `json:"productId"           validate:"required"`
	Quantity            int    `json:"quantity"            validate:"required,gt=0,lte=1000"`
	SpecialInstructions string `json:"specialInstructions" validate:"max=255"`
}

// OrderItemUpdateRequest changes the quantity or instructions of an order line.
type OrderItemUpdateRequest struct {
	Quantity            int    `json:"quantity"            validate:"required,gt=0,lte=1000"`
	SpecialInstructions string `json:"specialInstructions" validate:"max=255"`
}

// OrderCreateRequest opens an order. Dine-in orders need a table, takeaway orders must not have one.
type OrderCreateRequest struct {
	TableID    *uint64            `json:"tableId"    validate:"omitempty,gt=0"`
	IsTakeaway bool               `json:"isTakeaway"`
	Notes      string             `json:"notes"      validate:"max=500"`
	Items      []OrderItemRequest `json:"items"      validate:"omitempty,dive"`
}

// OrderUpdateRequest replaces the notes of an order.
type OrderUpdateRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// OrderStatusRequest moves an order to the named status.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
}

var (
	StatusToResponse = mapper.Must[models.Status, StatusResponse](
		mapper.Field("ID", "Name", "Description"),
	)

	NewStatus = mapper.Must[StatusRequest, models.Status](
		mapper.Field("Name", "Description"),
	)

	OrderItemToResponse = mapper.Must[models.OrderItem, OrderItemResponse](
		mapper.Field("ID", "Quantity", "UnitPrice", "Subtotal", "SpecialInstructions", "CreatedAt"),
		mapper.Nested("Product", "Product", ProductToSummary),
	)

	OrderToResponse = mapper.Must[models.Order, OrderResponse](
		mapper.Field("ID", "IsTakeaway", "ConfirmedAt", "InProgressAt", "CompletedAt",
			"PaidAt", "CanceledAt", "TotalAmount", "Notes", "CreatedAt", "UpdatedAt"),
		mapper.Nested("User", "User", UserToSummary),
		mapper.Nested("Table", "Table", TableToResponse),
		mapper.Nested("Status", "Status", StatusToResponse),
		mapper.Each("Items", "Items", OrderItemToResponse),
	)

	NewOrder = mapper.Must[OrderCreateRequest, models.Order](
		mapper.Field("TableID", "IsTakeaway", "Notes"),
	)

	NewOrderItem = mapper.Must[OrderItemRequest, models.OrderItem](
		mapper.Field("ProductID", "Quantity", "SpecialInstructions"),
	)

	OrderItemUpdate = mapper.Must[OrderItemUpdateRequest, models.OrderItem](
		mapper.Field("Quantity", "SpecialInstructions"),
	)
)
