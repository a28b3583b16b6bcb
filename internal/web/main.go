// Package web serves the restopos JSON API with fiber.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/config"
	accesslog "github.com/restopos/restopos/internal/logger/adapter/fiber"
	"github.com/restopos/restopos/internal/web/handler"
	"github.com/restopos/restopos/internal/web/handler/account"
	"github.com/restopos/restopos/internal/web/handler/admin/role"
	"github.com/restopos/restopos/internal/web/handler/admin/user"
	"github.com/restopos/restopos/internal/web/handler/catalog"
	"github.com/restopos/restopos/internal/web/handler/login"
	"github.com/restopos/restopos/internal/web/handler/logout"
	"github.com/restopos/restopos/internal/web/handler/order"
	"github.com/restopos/restopos/internal/web/handler/table"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// routes returns the API route packages in registration order.
func routes() []handler.Service {
	return []handler.Service{
		&login.Service{},
		&logout.Service{},
		&account.Service{},
		&user.Service{},
		&role.Service{},
		&catalog.Service{},
		&table.Service{},
		&order.Service{},
	}
}

// New creates the web service and registers every route.
func New(cfg *config.Config, svc *handler.Services) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if svc == nil {
		return nil, handler.ErrNilServices
	}

	app := fiber.New(
		fiber.Config{
			AppName:       cfg.Title,
			CaseSensitive: true,
			Immutable:     true,
			BodyLimit:     cfg.Webserver.BodyLimit,
			ReadTimeout:   cfg.Webserver.ReadTimeout,
			WriteTimeout:  cfg.Webserver.WriteTimeout,
			ErrorHandler:  handler.ErrorHandler,
		},
	)

	accessLog, err := accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		ErrorHandler:  handler.ErrorHandler,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
	})
	if err != nil {
		return nil, err
	}

	app.Use(accessLog)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(cfg.Webserver.CheckAliveURI, service.CheckAlive)
	app.Get(cfg.Webserver.MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.RootPath)
	for _, r := range routes() {
		if err := r.Init(api, svc); err != nil {
			return nil, err
		}
	}

	return service, nil
}

// CheckAlive answers 200 while the service accepts traffic and 503 while it shuts down.
func (s *Service) CheckAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// Addr is the listen address of the configured port.
func (s *Service) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Webserver.Port)
}

// Start serves on addr until the app is shut down.
func (s *Service) Start(addr string) error {
	log.Info().Str("addr", addr).Str("url", s.cfg.Webserver.URL).Msg("http server listening")

	err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fiber listen error: %w", err)
	}

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the server. Outside dev mode checkalive fails first for
// ShutDownTime seconds so load balancers can drain this instance.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(s.cfg.Webserver.ShutDownTimeout())
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.ShutdownWithTimeout(s.cfg.Webserver.ShutDownTimeout()); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}
