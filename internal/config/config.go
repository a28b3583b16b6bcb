// Package config handles input from etc/main.toml, .env and RESTOPOS_* environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. RESTOPOS_DB_HOST.
	EnvPrefix = "RESTOPOS"

	// EnvConfigJSON overrides the whole config with a JSON document.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	// DefaultPath is used when no config directory is given.
	DefaultPath = "./etc/"

	redacted = "******"
)

// Password hasher names.
const (
	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

// ReadConfig from <path>/main.toml.
// Values are overridden by RESTOPOS_* environment variables, which may come
// from a .env file in the working directory, and finally by RESTOPOS_CONFIG_JSON.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if js := os.Getenv(EnvConfigJSON); js != "" {
		var err error
		if c, err = decodeAndMergeConfig(c, js); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

// setDefaults registers every key that may be missing from main.toml, so that
// environment overrides apply to it.
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"title":                     "restopos",
		"webserver.port":            8080,
		"webserver.url":             "http://localhost:8080",
		"webserver.shutDownTime":    5,
		"webserver.bodyLimit":       1 << 20,
		"webserver.readTimeout":     "15s",
		"webserver.writeTimeout":    "15s",
		"webserver.checkAliveURI":   "/checkalive",
		"webserver.metricsURI":      "/metrics",
		"db.gormEngine":             EngineSQLite,
		"db.name":                   "restopos.db",
		"db.host":                   "",
		"db.port":                   0,
		"db.user":                   "",
		"db.password":               "",
		"db.extras":                 "",
		"log.logLevel":              "info",
		"log.appName":               "restopos",
		"log.serviceName":           "restopos",
		"log.console.enabled":       true,
		"auth.accessTokenSecret":    "",
		"auth.refreshTokenSecret":   "",
		"auth.issuer":               "restopos",
		"auth.accessTokenTTL":       "15m",
		"auth.refreshTokenTTL":      "12h",
		"auth.recuperationTokenTTL": "30m",
		"auth.maxLoginAttempts":     5,
		"auth.passwordHasher":       HasherArgon2id,
		"auth.bcryptCost":           12,
		"seed.enabled":              true,
		"seed.adminUsername":        "admin",
		"seed.adminPassword":        "",
		"seed.adminEmployeeID":      "EMP-0001",
		"seed.adminFirstName":       "System",
		"seed.adminLastName":        "Administrator",
	}

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode config as toml")
	}

	return string(b), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config as json")
	}

	return buffer.String(), nil
}

// Redacted returns a copy of c with passwords and secrets masked.
func (c Config) Redacted() Config {
	mask := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}

	mask(&c.DB.Password)
	mask(&c.Auth.AccessTokenSecret)
	mask(&c.Auth.RefreshTokenSecret)
	mask(&c.Seed.AdminPassword)

	return c
}

// ShutDownTimeout is the graceful shutdown window.
func (w Webserver) ShutDownTimeout() time.Duration {
	return time.Duration(w.ShutDownTime) * time.Second
}

// validate the config and fill the values that can be derived.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // seconds
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnsupportedGormEngine, invalidErrMessage)
	}

	if c.DB.Name == "" {
		return errors.Wrap(ErrEmptyDBName, invalidErrMessage)
	}

	if c.Auth.AccessTokenSecret == "" || c.Auth.RefreshTokenSecret == "" {
		return errors.Wrap(ErrMissingTokenSecret, invalidErrMessage)
	}

	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return errors.Wrap(ErrSameTokenSecrets, invalidErrMessage)
	}

	if c.Auth.PasswordHasher == "" {
		c.Auth.PasswordHasher = HasherArgon2id
	}

	if c.Auth.PasswordHasher != HasherArgon2id && c.Auth.PasswordHasher != HasherBcrypt {
		return errors.Wrap(ErrUnsupportedPasswordHasher, invalidErrMessage)
	}

	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RecuperationTokenTTL <= 0 ||
		c.Auth.RefreshTokenTTL < c.Auth.AccessTokenTTL {
		return errors.Wrap(ErrInvalidTokenTTL, invalidErrMessage)
	}

	if c.Seed.Enabled && (c.Seed.AdminUsername == "" || c.Seed.AdminPassword == "") {
		return errors.Wrap(ErrSeedAdminIncomplete, invalidErrMessage)
	}

	return nil
}
