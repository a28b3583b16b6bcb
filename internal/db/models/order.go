package models

import "time"

// Seeded order status names.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusPaid       = "PAID"
	StatusCanceled   = "CANCELED"
)

// Status is an order status (e.g., PENDING, PAID).
type Status struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:20;not null;uniqueIndex"`
	Description string `gorm:"size:100;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Status model.
func (Status) TableName() string {
	return "orders_status"
}

// Order is a guest order, taken at a table or as takeaway.
type Order struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"not null;index"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	// TableID is nil for takeaway orders.
	TableID    *uint64 `gorm:"index"`
	Table      *Table  `gorm:"foreignKey:TableID;constraint:OnDelete:SET NULL"`
	StatusID   uint64  `gorm:"not null;index"`
	Status     *Status `gorm:"foreignKey:StatusID;constraint:OnDelete:RESTRICT"`
	IsTakeaway bool    `gorm:"not null"`

	ConfirmedAt  *time.Time
	InProgressAt *time.Time
	CompletedAt  *time.Time
	PaidAt       *time.Time
	CanceledAt   *time.Time

	TotalAmount float64     `gorm:"type:decimal(12,2);not null"`
	Notes       string      `gorm:"size:500"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Order model.
func (Order) TableName() string {
	return "orders_orders"
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID                  uint64   `gorm:"primaryKey"`
	OrderID             uint64   `gorm:"not null;index"`
	ProductID           uint64   `gorm:"not null;index"`
	Product             *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity            int      `gorm:"not null"`
	UnitPrice           float64  `gorm:"type:decimal(10,2);not null"`
	Subtotal            float64  `gorm:"type:decimal(12,2);not null"`
	SpecialInstructions string   `gorm:"size:255"`
	CreatedAt           time.Time
}

// TableName specifies the database table name for the OrderItem model.
func (OrderItem) TableName() string {
	return "orders_order_items"
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Role{},
		&Permission{},
		&UsersRoles{},
		&RolesPermission{},
		&Session{},
		&Status{},
		&Category{},
		&Product{},
		&Table{},
		&Order{},
		&OrderItem{},
	}
}
