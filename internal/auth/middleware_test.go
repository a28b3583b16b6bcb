package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/apperror"
)

func testErrorHandler(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch apperror.KindOf(err) {
	case apperror.KindAuthentication:
		status = fiber.StatusUnauthorized
	case apperror.KindForbidden:
		status = fiber.StatusForbidden
	}

	return c.Status(status).SendString(err.Error())
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	roles := seedRoles(t, s)

	createUser(t, s, "waiter", roles[RoleWaiter].ID)
	createUser(t, s, "admin", roles[RoleAdmin].ID)

	waiter, err := s.Login(ctx, "waiter", testPassword, ClientMeta{})
	require.NoError(t, err)

	admin, err := s.Login(ctx, "admin", testPassword, ClientMeta{})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	api := app.Group("/api", RequireAuthenticated(s))
	api.Get("/me", func(c fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return ErrNoPrincipal
		}

		return c.SendString(p.User.Username)
	})
	api.Get("/users", RequirePermission(PermUsersManage), func(c fiber.Ctx) error {
		return c.SendString("users")
	})
	api.Get("/orders", RequireAnyPermission(PermOrdersRead, PermUsersManage), func(c fiber.Ctx) error {
		return c.SendString("orders")
	})
	api.Get("/audit", RequireAllPermissions(PermOrdersRead, PermUsersManage), func(c fiber.Ctx) error {
		return c.SendString("audit")
	})

	testCases := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "no header", path: "/api/me", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/me", header: "Basic " + waiter.AccessToken, wantStatus: fiber.StatusUnauthorized},
		{name: "bad token", path: "/api/me", header: "Bearer nope", wantStatus: fiber.StatusUnauthorized},
		{name: "refresh token", path: "/api/me", header: "Bearer " + waiter.RefreshToken, wantStatus: fiber.StatusUnauthorized},
		{name: "me", path: "/api/me", header: "Bearer " + waiter.AccessToken, wantStatus: fiber.StatusOK},
		{name: "lowercase scheme", path: "/api/me", header: "bearer " + waiter.AccessToken, wantStatus: fiber.StatusOK},
		{name: "waiter users", path: "/api/users", header: "Bearer " + waiter.AccessToken, wantStatus: fiber.StatusForbidden},
		{name: "admin users", path: "/api/users", header: "Bearer " + admin.AccessToken, wantStatus: fiber.StatusOK},
		{name: "waiter any", path: "/api/orders", header: "Bearer " + waiter.AccessToken, wantStatus: fiber.StatusOK},
		{name: "waiter all", path: "/api/audit", header: "Bearer " + waiter.AccessToken, wantStatus: fiber.StatusForbidden},
		{name: "admin all", path: "/api/audit", header: "Bearer " + admin.AccessToken, wantStatus: fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestPermissionWithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Get("/", RequirePermission(PermUsersManage), func(c fiber.Ctx) error {
		return c.SendString("unreachable")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
