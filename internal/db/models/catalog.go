package models

import "time"

// Category groups products on the menu.
type Category struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:50;not null;uniqueIndex"`
	Description string `gorm:"size:150;not null"`
	IsActive    bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Category model.
func (Category) TableName() string {
	return "product_category"
}

// Product is a sellable menu item.
type Product struct {
	ID uint64 `gorm:"primaryKey"`
	// CategoryID is nil for uncategorized products.
	CategoryID *uint64 `gorm:"index"`
	// Category is loaded on request; it stays nil when CategoryID is nil.
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Price       float64   `gorm:"type:decimal(10,2);not null"`
	IsActive    bool      `gorm:"not null"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Product model.
func (Product) TableName() string {
	return "product_products"
}
