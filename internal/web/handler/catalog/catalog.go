// Package catalog provides the category and product routes.
package catalog

import (
	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	catalogsvc "github.com/restopos/restopos/internal/catalog"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/dto"
	"github.com/restopos/restopos/internal/web/handler"
)

const (
	// CategoryPath is the base path of categories.
	CategoryPath = "/categories"
	// ProductPath is the base path of products.
	ProductPath = "/products"
)

// Service provides the catalog routes.
type Service struct {
	catalog *catalogsvc.Service
}

// Init registers routes. Reading needs catalog.read, changes need catalog.manage.
func (s *Service) Init(router fiber.Router, svc *handler.Services) error {
	if router == nil || svc == nil || svc.Auth == nil || svc.Catalog == nil {
		return handler.ErrNilServices
	}

	s.catalog = svc.Catalog

	authenticated := auth.RequireAuthenticated(svc.Auth)
	read := auth.RequirePermission(auth.PermCatalogRead)
	manage := auth.RequirePermission(auth.PermCatalogManage)

	categories := router.Group(CategoryPath, authenticated)
	categories.Get("/", read, s.ListCategories)
	categories.Post("/", manage, s.CreateCategory)
	categories.Get("/:id", read, s.GetCategory)
	categories.Put("/:id", manage, s.UpdateCategory)
	categories.Delete("/:id", manage, s.DeleteCategory)

	products := router.Group(ProductPath, authenticated)
	products.Get("/", read, s.ListProducts)
	products.Post("/", manage, s.CreateProduct)
	products.Get("/:id", read, s.GetProduct)
	products.Put("/:id", manage, s.UpdateProduct)
	products.Delete("/:id", manage, s.DeleteProduct)

	return nil
}

// ListCategories shows categories, filtered by ?search=.
func (s *Service) ListCategories(c fiber.Ctx) error {
	page, err := s.catalog.ListCategories(c.Context(), c.Query("search"), handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.CategoryToResponse.MapAll))
}

// CreateCategory creates a category.
func (s *Service) CreateCategory(c fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	category, err := s.catalog.CreateCategory(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.CategoryToResponse.Map(category))
}

// GetCategory shows one category.
func (s *Service) GetCategory(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	category, err := s.catalog.GetCategory(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.CategoryToResponse.Map(category))
}

// UpdateCategory replaces a category.
func (s *Service) UpdateCategory(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	category, err := s.catalog.UpdateCategory(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.CategoryToResponse.Map(category))
}

// DeleteCategory removes a category. Its products become uncategorized.
func (s *Service) DeleteCategory(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.catalog.DeleteCategory(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// ListProducts shows products, filtered by ?categoryId= or ?search=.
func (s *Service) ListProducts(c fiber.Ctx) error {
	categoryID, err := handler.QueryID(c, "categoryId")
	if err != nil {
		return err
	}

	page, err := s.catalog.ListProducts(c.Context(), c.Query("search"), categoryID, handler.Page(c))
	if err != nil {
		return err
	}

	return c.JSON(repository.MapPage(page, dto.ProductToResponse.MapAll))
}

// CreateProduct creates a product.
func (s *Service) CreateProduct(c fiber.Ctx) error {
	var req dto.ProductRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	product, err := s.catalog.CreateProduct(c.Context(), req)
	if err != nil {
		return err
	}

	return handler.Created(c, dto.ProductToResponse.Map(product))
}

// GetProduct shows one product with its category.
func (s *Service) GetProduct(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	product, err := s.catalog.GetProduct(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProductToResponse.Map(product))
}

// UpdateProduct replaces a product.
func (s *Service) UpdateProduct(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	product, err := s.catalog.UpdateProduct(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProductToResponse.Map(product))
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(c fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.catalog.DeleteProduct(c.Context(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
