package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/db/models"
)

// Categories is the repository of product categories.
type Categories struct {
	*Repository[models.Category]
}

// NewCategories returns the category repository.
func NewCategories(db *gorm.DB) *Categories {
	return &Categories{Repository: New[models.Category](db, "category")}
}

// FindByName loads the category with the given name.
func (r *Categories) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.FindBy(ctx, "name", name)
}

// ExistsByName reports whether the category name is taken.
func (r *Categories) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsBy(ctx, "name", name)
}

// FindByNameContaining searches category names, ignoring case.
func (r *Categories) FindByNameContaining(
	ctx context.Context, search string, pr PageRequest,
) (Page[models.Category], error) {
	return r.FindByContaining(ctx, "name", search, pr)
}

// FindByDescriptionContaining searches category descriptions, ignoring case.
func (r *Categories) FindByDescriptionContaining(
	ctx context.Context, search string, pr PageRequest,
) (Page[models.Category], error) {
	return r.FindByContaining(ctx, "description", search, pr)
}

// Products is the repository of products. Every finder loads the category.
type Products struct {
	*Repository[models.Product]
}

// ProductCategory is the preload of a product's category.
const ProductCategory = "Category"

// NewProducts returns the product repository.
func NewProducts(db *gorm.DB) *Products {
	return &Products{Repository: New[models.Product](db, "product")}
}

// FindByName loads the product with the given name.
func (r *Products) FindByName(ctx context.Context, name string) (*models.Product, error) {
	return r.FindBy(ctx, "name", name, ProductCategory)
}

// ExistsByName reports whether the product name is taken.
func (r *Products) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsBy(ctx, "name", name)
}

// FindByNameContaining searches product names, ignoring case.
func (r *Products) FindByNameContaining(
	ctx context.Context, search string, pr PageRequest,
) (Page[models.Product], error) {
	return r.FindByContaining(ctx, "name", search, pr, ProductCategory)
}

// FindByCategory returns one page of the products of a category.
func (r *Products) FindByCategory(
	ctx context.Context, categoryID uint64, pr PageRequest,
) (Page[models.Product], error) {
	return r.FindAllBy(ctx, "category_id", categoryID, pr, ProductCategory)
}
