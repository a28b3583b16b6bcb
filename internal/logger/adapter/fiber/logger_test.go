package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/restopos/restopos/internal/logger/adapter/fiber"

	"github.com/restopos/restopos/internal/logger"
)

type accessLine struct {
	IP           string  `json:"IP"`
	Status       int     `json:"status"`
	XPerformance float64 `json:"X-Performance"`
	URI          string  `json:"URI"`
	Method       string  `json:"method"`
	Host         string  `json:"host"`
	UserAgent    string  `json:"User-Agent"`
	Error        string  `json:"error"`
}

func newApp(t *testing.T, cfg adapter.Config) *fiber.App {
	t.Helper()

	mw, err := adapter.New(cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(mw)
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/checkalive", func(c fiber.Ctx) error {
		return c.SendString("alive")
	})
	app.Get("/fail", func(_ fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(_ fiber.Ctx) error {
		return errors.New("boom")
	})

	return app
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name       string
		target     string
		wantStatus int
		wantURI    string
		wantError  string
	}{
		{name: "root", target: "/", wantStatus: fiber.StatusOK, wantURI: "/"},
		{name: "query string is kept", target: "/?test=123", wantStatus: fiber.StatusOK, wantURI: "/?test=123"},
		{name: "unknown path", target: "/no_path", wantStatus: fiber.StatusNotFound, wantURI: "/no_path"},
		{
			name: "fiber error", target: "/fail", wantStatus: fiber.StatusTeapot, wantURI: "/fail",
			wantError: "short and stout",
		},
		{
			name: "plain error", target: "/boom", wantStatus: fiber.StatusInternalServerError, wantURI: "/boom",
			wantError: "boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			app := newApp(t, adapter.Config{Output: &out})

			req := httptest.NewRequest(fiber.MethodGet, tc.target, nil)
			req.Header.Set(fiber.HeaderUserAgent, "restopos-test")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(adapter.HeaderPerformance))

			var line accessLine
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &line), out.String())

			assert.Equal(t, tc.wantStatus, line.Status)
			assert.Equal(t, tc.wantURI, line.URI)
			assert.Equal(t, fiber.MethodGet, line.Method)
			assert.Equal(t, "example.com", line.Host)
			assert.Equal(t, "restopos-test", line.UserAgent)
			assert.Contains(t, line.Error, tc.wantError)
		})
	}
}

func TestNewCheckAlive(t *testing.T) {
	var out bytes.Buffer

	app := newApp(t, adapter.Config{
		Output:        &out,
		CheckAliveURI: "/checkalive",
		Config:        logger.Log{DisableCheckAlive: true},
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, out.String())

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestNewSkip(t *testing.T) {
	var out bytes.Buffer

	app := newApp(t, adapter.Config{
		Output: &out,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/"
		},
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(adapter.HeaderPerformance))
	assert.Empty(t, out.String())
}

func TestNewFileError(t *testing.T) {
	_, err := adapter.New(adapter.Config{
		Config: logger.Log{File: logger.LogFile{Enabled: true, Path: t.TempDir()}},
	})
	require.ErrorIs(t, err, logger.ErrFileNameIsEmpty)
}
