package config

import (
	"time"

	"github.com/restopos/restopos/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	Webserver Webserver
	DB        DB
	Log       logger.Log
	Auth      Auth
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	Port           int           // listening port for the webserver
	URL            string        // base url for the webserver
	ShutDownTime   int           // seconds to wait for open requests on shutdown
	BodyLimit      int           // max request body in bytes
	ReadTimeout    time.Duration // zero disables the timeout
	WriteTimeout   time.Duration
	DisableRecover bool   // disable recover middleware
	CheckAliveURI  string // liveness endpoint
	MetricsURI     string // prometheus endpoint
}

// Auth holds token, lockout and password hashing settings.
type Auth struct {
	AccessTokenSecret    string
	RefreshTokenSecret   string
	Issuer               string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	RecuperationTokenTTL time.Duration
	MaxLoginAttempts     int    // failed logins before the account is locked, 0 disables locking
	PasswordHasher       string // argon2id or bcrypt
	BcryptCost           int
}

// Seed describes the initial data created on an empty database.
type Seed struct {
	Enabled         bool
	AdminUsername   string
	AdminPassword   string
	AdminEmployeeID string
	AdminFirstName  string
	AdminLastName   string
}
