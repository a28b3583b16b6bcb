package handler_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/web/handler"
)

func TestStatusOf(t *testing.T) {
	testCases := []struct {
		kind string
		want int
	}{
		{kind: apperror.KindValidation, want: fiber.StatusBadRequest},
		{kind: apperror.KindAuthentication, want: fiber.StatusUnauthorized},
		{kind: apperror.KindAccountLocked, want: fiber.StatusLocked},
		{kind: apperror.KindForbidden, want: fiber.StatusForbidden},
		{kind: apperror.KindNotFound, want: fiber.StatusNotFound},
		{kind: apperror.KindConflict, want: fiber.StatusConflict},
		{kind: apperror.KindDomain, want: fiber.StatusUnprocessableEntity},
		{kind: "something else", want: fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.kind, func(t *testing.T) {
			assert.Equal(t, tc.want, handler.StatusOf(tc.kind))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	testCases := []struct {
		name        string
		err         error
		wantStatus  int
		wantKind    string
		wantMessage string
		wantFields  int
	}{
		{
			name: "not found", err: apperror.NotFound("product"),
			wantStatus: fiber.StatusNotFound, wantKind: apperror.KindNotFound,
		},
		{
			name: "validation", err: apperror.Invalid("price", "gte"),
			wantStatus: fiber.StatusBadRequest, wantKind: apperror.KindValidation, wantFields: 1,
		},
		{
			name: "fiber error", err: fiber.ErrNotFound,
			wantStatus: fiber.StatusNotFound, wantKind: apperror.KindNotFound, wantMessage: "Not Found",
		},
		{
			name: "internal", err: errors.New("database exploded"),
			wantStatus: fiber.StatusInternalServerError, wantMessage: "internal server error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
			app.Get("/", func(_ fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body handler.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			assert.False(t, body.Success)
			assert.Len(t, body.Fields, tc.wantFields)

			if tc.wantKind != "" {
				assert.Equal(t, tc.wantKind, body.Kind)
			}

			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, body.Message)
			}
		})
	}
}
