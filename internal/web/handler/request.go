package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/db/repository"
)

// ParseID reads the positive integer route parameter name.
func ParseID(c fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Invalid(name, "gt=0")
	}

	return id, nil
}

// QueryID reads an optional positive integer query parameter. It returns nil when absent.
func QueryID(c fiber.Ctx, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperror.Invalid(name, "gt=0")
	}

	return &id, nil
}

// Page reads ?page= and ?size=. Out of range values are clamped by the repository.
func Page(c fiber.Ctx) repository.PageRequest {
	return repository.PageRequest{
		Page: fiber.Query[int](c, "page"),
		Size: fiber.Query[int](c, "size"),
	}
}

// Bind decodes the JSON body into out. Field rules are checked by the services.
func Bind(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		return apperror.Invalid("body", "json")
	}

	return nil
}

// Principal returns the authenticated principal of the request.
func Principal(c fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return nil, auth.ErrNoPrincipal
	}

	return p, nil
}

// Created sends v with status 201.
func Created(c fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}

// NoContent sends an empty 204 response.
func NoContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
