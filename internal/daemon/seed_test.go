package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/db/dbtest"
	"github.com/restopos/restopos/internal/db/repository"
	"github.com/restopos/restopos/internal/ordering"
)

func testConfig(seedAdmin bool) *config.Config {
	return &config.Config{
		Auth: config.Auth{
			AccessTokenSecret:    "access-secret",
			RefreshTokenSecret:   "refresh-secret",
			Issuer:               "restopos-test",
			AccessTokenTTL:       15 * time.Minute,
			RefreshTokenTTL:      12 * time.Hour,
			RecuperationTokenTTL: 30 * time.Minute,
			MaxLoginAttempts:     5,
			PasswordHasher:       config.HasherBcrypt,
			BcryptCost:           bcrypt.MinCost,
		},
		Seed: config.Seed{
			Enabled:         seedAdmin,
			AdminUsername:   "admin",
			AdminPassword:   "admin-password",
			AdminEmployeeID: "EMP-0001",
			AdminFirstName:  "System",
			AdminLastName:   "Administrator",
		},
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(true)

	svc, err := NewServices(cfg, dbtest.Open(t))
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, cfg, svc))
	require.NoError(t, Seed(ctx, cfg, svc), "seeding twice is harmless")

	users, err := svc.Auth.ListUsers(ctx, "", repository.PageRequest{})
	require.NoError(t, err)
	require.Len(t, users.Items, 1)

	admin := users.Items[0]
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, auth.RoleAdmin, admin.Roles[0].Name)

	perms, err := svc.Auth.GetUserPermissions(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, perms, len(auth.AllPermissions()))

	roles, err := svc.Auth.ListRoles(ctx, "", repository.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(auth.DefaultRoles())), roles.Total)

	statuses, err := svc.Ordering.ListStatuses(ctx, "", repository.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(ordering.DefaultStatuses())), statuses.Total)

	tokens, err := svc.Auth.Login(ctx, "admin", "admin-password", auth.ClientMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestSeedWithoutAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(false)

	svc, err := NewServices(cfg, dbtest.Open(t))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, cfg, svc))

	users, err := svc.Auth.ListUsers(ctx, "", repository.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, users.Items)
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilConfig)
}
