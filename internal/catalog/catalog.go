// Package catalog manages product categories and products.
package catalog

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/money"
)

// Service provides the catalog operations.
type Service struct {
	repos *repository.Set
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, repository.ErrDBNil
	}

	return &Service{repos: repository.NewSet(db)}, nil
}

// CreateCategory creates a category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*models.Category, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if err := s.categoryNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	c := dto.NewCategory.Map(&req)
	if err := s.repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Uint64("category_id", c.ID).Str("name", c.Name).Msg("category created")

	return c, nil
}

func (s *Service) categoryNameFree(ctx context.Context, name string) error {
	taken, err := s.repos.Categories.ExistsByName(ctx, name)
	if err != nil {
		return err
	}

	if taken {
		return apperror.Conflict("category", "name", name)
	}

	return nil
}

// GetCategory loads a category.
func (s *Service) GetCategory(ctx context.Context, id uint64) (*models.Category, error) {
	return s.repos.Categories.FindByID(ctx, id)
}

// ListCategories returns one page of categories, filtered by name when search is set.
func (s *Service) ListCategories(
	ctx context.Context, search string, pr repository.PageRequest,
) (repository.Page[models.Category], error) {
	if search != "" {
		return s.repos.Categories.FindByNameContaining(ctx, search, pr)
	}

	return s.repos.Categories.FindAll(ctx, pr)
}

// UpdateCategory replaces the fields of a category.
func (s *Service) UpdateCategory(ctx context.Context, id uint64, req dto.CategoryRequest) (*models.Category, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.repos.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Name != req.Name {
		if err := s.categoryNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}

	dto.NewCategory.Into(&req, c)

	return c, s.repos.Categories.Save(ctx, c)
}

// DeleteCategory removes a category. Its products become uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id uint64) error {
	if err := s.repos.Categories.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("category_id", id).Msg("category deleted")

	return nil
}

// CreateProduct creates a product. The category, when given, must exist.
func (s *Service) CreateProduct(ctx context.Context, req dto.ProductRequest) (*models.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if err := s.productNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	p := dto.NewProduct.Map(&req)
	p.Price = money.Round(p.Price)

	if err := s.attachCategory(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Uint64("product_id", p.ID).Str("name", p.Name).Float64("price", p.Price).Msg("product created")

	return p, nil
}

func (s *Service) productNameFree(ctx context.Context, name string) error {
	taken, err := s.repos.Products.ExistsByName(ctx, name)
	if err != nil {
		return err
	}

	if taken {
		return apperror.Conflict("product", "name", name)
	}

	return nil
}

// attachCategory loads the category of p so responses carry it. A missing category
// is a domain error, not a lookup failure of the request target.
func (s *Service) attachCategory(ctx context.Context, p *models.Product) error {
	p.Category = nil
	if p.CategoryID == nil {
		return nil
	}

	c, err := s.repos.Categories.FindByID(ctx, *p.CategoryID)
	if apperror.KindOf(err) == apperror.KindNotFound {
		return apperror.Domain("category %d does not exist", *p.CategoryID)
	}

	if err != nil {
		return err
	}

	p.Category = c

	return nil
}

// GetProduct loads a product with its category.
func (s *Service) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	return s.repos.Products.FindByID(ctx, id, repository.ProductCategory)
}

// ListProducts returns one page of products with their categories. A non-nil
// categoryID restricts the page to that category, otherwise search filters by name.
func (s *Service) ListProducts(
	ctx context.Context, search string, categoryID *uint64, pr repository.PageRequest,
) (repository.Page[models.Product], error) {
	switch {
	case categoryID != nil:
		return s.repos.Products.FindByCategory(ctx, *categoryID, pr)
	case search != "":
		return s.repos.Products.FindByNameContaining(ctx, search, pr)
	default:
		return s.repos.Products.FindAll(ctx, pr, repository.ProductCategory)
	}
}

// UpdateProduct replaces the fields of a product. Prices of existing order items
// are not affected.
func (s *Service) UpdateProduct(ctx context.Context, id uint64, req dto.ProductRequest) (*models.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != req.Name {
		if err := s.productNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}

	dto.NewProduct.Into(&req, p)
	p.Price = money.Round(p.Price)

	if err := s.attachCategory(ctx, p); err != nil {
		return nil, err
	}

	return p, s.repos.Products.Save(ctx, p)
}

// DeleteProduct removes a product. Products on orders cannot be deleted; deactivate them instead.
func (s *Service) DeleteProduct(ctx context.Context, id uint64) error {
	if err := s.repos.Products.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint64("product_id", id).Msg("product deleted")

	return nil
}
