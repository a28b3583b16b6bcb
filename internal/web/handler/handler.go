// Package handler holds what the API route packages share: the route root,
// the service bundle, request parsing and the error renderer.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/catalog"
	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/ordering"
	"github.com/restopos/restopos/internal/seating"
)

// RootPath is the prefix of every API route.
const RootPath = "/api/v1"

// ErrNilServices is returned by Init when the router or a needed service is missing.
var ErrNilServices = errors.New("router or services is nil")

// Services bundles the domain services the routes call.
type Services struct {
	Config   *config.Config
	Auth     *auth.Service
	Catalog  *catalog.Service
	Seating  *seating.Service
	Ordering *ordering.Service
}

// Service is implemented by every route package.
type Service interface {
	// Init registers the routes of the package on router, which is mounted at RootPath.
	Init(router fiber.Router, svc *Services) error
}
