// Package fiber implements a zerolog based http access log middleware for fiber.
package fiber

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/restopos/restopos/internal/logger"
)

// HeaderPerformance carries the handling time in seconds.
const HeaderPerformance = "X-Performance"

// Config implements fiber middleware struct.
type Config struct {
	// Next skips this middleware when it returns true.
	Next func(c fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// ErrorHandler renders chain errors before the status is logged.
	// Optional. Default: fiber.DefaultErrorHandler
	ErrorHandler fiber.ErrorHandler

	// CacheControlError is set on responses whose error could not be rendered.
	CacheControlError string

	// CheckAliveURI is not logged when Config.DisableCheckAlive is set.
	CheckAliveURI string

	// Output replaces the configured writers. Used by tests.
	Output io.Writer
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	ErrorHandler:      fiber.DefaultErrorHandler,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = ConfigDefault.ErrorHandler
	}

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

// New creates the access logging middleware. It fails when the access log file
// can not be created.
func New(config ...Config) (fiber.Handler, error) {
	cfg := configDefault(config...)

	var writers []io.Writer

	switch {
	case cfg.Output != nil:
		writers = append(writers, cfg.Output)
	default:
		if cfg.Config.File.Enabled {
			w, err := logger.NewRollingFile(cfg.Config.File.Path, cfg.Config.File.Access)
			if err != nil {
				return nil, err
			}

			writers = append(writers, w)
		}

		if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
			if cfg.Config.Console.UseConsoleWriter {
				writers = append(writers, zerolog.ConsoleWriter{
					Out:          os.Stdout,
					TimeFormat:   zerolog.TimeFieldFormat,
					PartsExclude: []string{zerolog.LevelFieldName},
				})
			} else {
				writers = append(writers, os.Stdout)
			}
		}
	}

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(c fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := cfg.ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
				c.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		c.Response().Header.Set(HeaderPerformance, fmt.Sprintf("%f", elapsed))

		p := c.Path()
		if cfg.Config.DisableCheckAlive && p == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes the path; log the query string too.
		if qs := c.Request().URI().QueryString(); len(qs) > 0 {
			p += "?" + string(qs)
		}

		event := accessLogger.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Float64(HeaderPerformance, elapsed).
			Str("URI", p).
			Str("method", c.Method()).
			Bytes("host", c.Request().Host()).
			Str(fiber.HeaderXForwardedFor, c.Get(fiber.HeaderXForwardedFor)).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderReferer, c.Get(fiber.HeaderReferer))

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}, nil
}
