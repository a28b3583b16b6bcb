package dto

import (
	"time"

	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/mapper"
)

// CategoryResponse is the API view of a product category.
type CategoryResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryRequest creates or replaces a category.
type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"required,min=1,max=150"`
	IsActive    bool   `json:"isActive"`
}

// ProductSummary is the short view of a product embedded in order items.
type ProductSummary struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductResponse is the API view of a product. Category is null for
// uncategorized products.
type ProductResponse struct {
	ID          uint64            `json:"id"`
	Category    *CategoryResponse `json:"category"`
	Name        string            `json:"name"`
	Price       float64           `json:"price"`
	IsActive    bool              `json:"isActive"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ProductRequest creates or replaces a product.
type ProductRequest struct {
	CategoryID  *uint64 `json:"categoryId"  validate:"omitempty,gt=0"`
	Name        string  `json:"name"        validate:"required,min=1,max=100"`
	Price       float64 `json:"price"       validate:"gte=0,lte=99999999.99"`
	IsActive    bool    `json:"isActive"`
	Description string  `json:"description" validate:"max=255"`
}

var (
	CategoryToResponse = mapper.Must[models.Category, CategoryResponse](
		mapper.Field("ID", "Name", "Description", "IsActive", "CreatedAt", "UpdatedAt"),
	)

	// NewCategory also serves updates, since a PUT replaces every writable field.
	NewCategory = mapper.Must[CategoryRequest, models.Category](
		mapper.Field("Name", "Description", "IsActive"),
	)

	ProductToSummary = mapper.Must[models.Product, ProductSummary](
		mapper.Field("ID", "Name", "Price"),
	)

	ProductToResponse = mapper.Must[models.Product, ProductResponse](
		mapper.Field("ID", "Name", "Price", "IsActive", "Description", "CreatedAt", "UpdatedAt"),
		mapper.Nested("Category", "Category", CategoryToResponse),
	)

	NewProduct = mapper.Must[ProductRequest, models.Product](
		mapper.Field("CategoryID", "Name", "Price", "IsActive", "Description"),
	)
)
