package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir
}

const minimalConfig = `
[auth]
accessTokenSecret = "a"
refreshTokenSecret = "r"

[seed]
adminPassword = "secret"
`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "restopos", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
	assert.Equal(t, 15*time.Second, cfg.Webserver.ReadTimeout)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "restopos-api", cfg.Log.ServiceName)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, "access.log", cfg.Log.File.Access.Name)
	assert.Equal(t, 7, cfg.Log.File.Trace.MaxAge)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 12*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, HasherArgon2id, cfg.Auth.PasswordHasher)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
}

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.Equal(t, "/checkalive", cfg.Webserver.CheckAliveURI)
	assert.Equal(t, "/metrics", cfg.Webserver.MetricsURI)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, "restopos.db", cfg.DB.Name)
	assert.Equal(t, 30*time.Minute, cfg.Auth.RecuperationTokenTTL)
	assert.Equal(t, "EMP-0001", cfg.Seed.AdminEmployeeID)
	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, 5*time.Second, cfg.Webserver.ShutDownTimeout())
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("RESTOPOS_WEBSERVER_PORT", "9191")
	t.Setenv("RESTOPOS_DB_GORMENGINE", "postgres")
	t.Setenv("RESTOPOS_AUTH_MAXLOGINATTEMPTS", "3")
	t.Setenv("RESTOPOS_AUTH_REFRESHTOKENTTL", "24h")

	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Webserver.Port)
	assert.Equal(t, EnginePostgres, cfg.DB.GormEngine)
	assert.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	// untouched sections keep the file values
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadConfig(t.TempDir())
		require.Error(t, err)
	})

	t.Run("broken json override", func(t *testing.T) {
		t.Setenv(EnvConfigJSON, `{"Title":`)

		_, err := ReadConfig(writeConfig(t, minimalConfig))
		require.Error(t, err)
	})

	t.Run("missing secrets", func(t *testing.T) {
		_, err := ReadConfig(writeConfig(t, "title = \"x\"\n"))
		require.ErrorIs(t, err, ErrMissingTokenSecret)
	})
}

func validConfig() Config {
	return Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		DB:        DB{GormEngine: EngineSQLite, Name: ":memory:"},
		Auth: Auth{
			AccessTokenSecret:    "access",
			RefreshTokenSecret:   "refresh",
			AccessTokenTTL:       time.Minute,
			RefreshTokenTTL:      time.Hour,
			RecuperationTokenTTL: time.Minute,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "valid config", modify: func(_ *Config) {}},
		{name: "missing port", modify: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", modify: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "unknown engine", modify: func(c *Config) { c.DB.GormEngine = "oracle" }, wantErr: ErrUnsupportedGormEngine},
		{name: "empty db name", modify: func(c *Config) { c.DB.Name = "" }, wantErr: ErrEmptyDBName},
		{
			name:    "missing refresh secret",
			modify:  func(c *Config) { c.Auth.RefreshTokenSecret = "" },
			wantErr: ErrMissingTokenSecret,
		},
		{
			name:    "shared secret",
			modify:  func(c *Config) { c.Auth.RefreshTokenSecret = c.Auth.AccessTokenSecret },
			wantErr: ErrSameTokenSecrets,
		},
		{
			name:    "unknown hasher",
			modify:  func(c *Config) { c.Auth.PasswordHasher = "md5" },
			wantErr: ErrUnsupportedPasswordHasher,
		},
		{
			name:    "refresh shorter than access",
			modify:  func(c *Config) { c.Auth.RefreshTokenTTL = time.Second },
			wantErr: ErrInvalidTokenTTL,
		},
		{
			name:    "seed without password",
			modify:  func(c *Config) { c.Seed = Seed{Enabled: true, AdminUsername: "admin"} },
			wantErr: ErrSeedAdminIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)

			err := validate(&c)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, HasherArgon2id, c.Auth.PasswordHasher)
				assert.Equal(t, 5, c.Webserver.ShutDownTime)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Title = "Test"
	cfg.DevMode = true

	out, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Title = 'Test'")
	assert.Contains(t, out, "DevMode = true")
	assert.Contains(t, out, "[Webserver]")

	out, err = DumpConfigJSON(cfg)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, cfg, decoded)
}

func TestRedacted(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = "db-secret"
	cfg.Seed.AdminPassword = "admin-secret"

	r := cfg.Redacted()
	out, err := DumpConfigJSON(r)
	require.NoError(t, err)

	for _, secret := range []string{"db-secret", "admin-secret", "access", "refresh"} {
		assert.False(t, strings.Contains(out, `"`+secret+`"`), secret)
	}

	assert.Equal(t, "db-secret", cfg.DB.Password, "original is not modified")
	assert.Empty(t, r.DB.User)
}
