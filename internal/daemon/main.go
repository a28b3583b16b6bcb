// Package daemon wires the database, the domain services and the web service together.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/catalog"
	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/db"
	"github.com/restopos/restopos/internal/ordering"
	"github.com/restopos/restopos/internal/seating"
	"github.com/restopos/restopos/internal/web"
	"github.com/restopos/restopos/internal/web/handler"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	db         *gorm.DB
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM and closes the database afterwards.
func (d *Daemon) Start() error {
	listenErr := make(chan error, 1)

	go func() {
		listenErr <- d.webService.Start(d.webService.Addr())
	}()

	go d.webService.WaitShutdown()

	err := <-listenErr

	if closeErr := db.Close(d.db); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close database")
	}

	return err
}

// New opens and migrates the database, seeds it and creates the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	gdb, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := NewServices(cfg, gdb)
	if err != nil {
		return nil, err
	}

	if err := Seed(ctx, cfg, svc); err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, svc)
	if err != nil {
		return nil, err
	}

	return &Daemon{db: gdb, webService: webService}, nil
}

// Open connects to the configured database and migrates the schema.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg.DB, cfg.Log.LogQueries)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Str("name", cfg.DB.Name).Msg("database ready")

	return gdb, nil
}

// NewServices creates the domain services on gdb.
func NewServices(cfg *config.Config, gdb *gorm.DB) (*handler.Services, error) {
	authService, err := auth.NewService(gdb, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	catalogService, err := catalog.NewService(gdb)
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	seatingService, err := seating.NewService(gdb)
	if err != nil {
		return nil, fmt.Errorf("seating service: %w", err)
	}

	orderingService, err := ordering.NewService(gdb)
	if err != nil {
		return nil, fmt.Errorf("ordering service: %w", err)
	}

	return &handler.Services{
		Config:   cfg,
		Auth:     authService,
		Catalog:  catalogService,
		Seating:  seatingService,
		Ordering: orderingService,
	}, nil
}
