package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnsupportedGormEngine error if config db.gormEngine is unknown.
	ErrUnsupportedGormEngine = errors.New("config db.gormEngine must be mysql, postgres or sqlite")

	// ErrEmptyDBName error if config db.name is empty.
	ErrEmptyDBName = errors.New("config db.name can not be empty")

	// ErrMissingTokenSecret error if an auth token secret is empty.
	ErrMissingTokenSecret = errors.New("config auth.accessTokenSecret and auth.refreshTokenSecret must be set")

	// ErrSameTokenSecrets error if access and refresh tokens share a secret.
	ErrSameTokenSecrets = errors.New("config auth.accessTokenSecret and auth.refreshTokenSecret must differ")

	// ErrUnsupportedPasswordHasher error if config auth.passwordHasher is unknown.
	ErrUnsupportedPasswordHasher = errors.New("config auth.passwordHasher must be argon2id or bcrypt")

	// ErrInvalidTokenTTL error if a token lifetime is not positive or refresh is shorter than access.
	ErrInvalidTokenTTL = errors.New("config auth token lifetimes must be positive and refresh >= access")

	// ErrSeedAdminIncomplete error if seeding is enabled without admin credentials.
	ErrSeedAdminIncomplete = errors.New("config seed.adminUsername and seed.adminPassword must be set")
)
