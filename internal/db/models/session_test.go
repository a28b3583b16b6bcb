package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionDerivedState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	testCases := []struct {
		name        string
		session     Session
		wantExpired bool
		wantUsable  bool
		wantState   SessionState
	}{
		{
			name:       "active and not expired is usable",
			session:    Session{IsActive: true, RefreshTokenExpiresAt: future},
			wantUsable: true,
			wantState:  SessionActive,
		},
		{
			name:        "active but expired is stale",
			session:     Session{IsActive: true, RefreshTokenExpiresAt: past},
			wantExpired: true,
			wantState:   SessionExpired,
		},
		{
			name:      "inactive and not expired is pending",
			session:   Session{IsActive: false, RefreshTokenExpiresAt: future},
			wantState: SessionPending,
		},
		{
			name:        "inactive and expired",
			session:     Session{IsActive: false, RefreshTokenExpiresAt: past},
			wantExpired: true,
			wantState:   SessionExpired,
		},
		{
			name:      "revoked wins over everything",
			session:   Session{IsActive: false, RefreshTokenExpiresAt: future, RevokedAt: &past},
			wantState: SessionRevoked,
		},
		{
			name:        "revoked and expired",
			session:     Session{IsActive: false, RefreshTokenExpiresAt: past, RevokedAt: &past},
			wantExpired: true,
			wantState:   SessionRevoked,
		},
		{
			name:       "expiry instant itself is not expired",
			session:    Session{IsActive: true, RefreshTokenExpiresAt: now},
			wantUsable: true,
			wantState:  SessionActive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantExpired, tc.session.IsExpired(now))
			assert.Equal(t, tc.wantUsable, tc.session.Usable(now))
			assert.Equal(t, tc.wantState, tc.session.State(now))
		})
	}
}

func TestUserLocked(t *testing.T) {
	testCases := []struct {
		name     string
		user     User
		max      int
		expected bool
	}{
		{"enabled without attempts", User{Enabled: true}, 5, false},
		{"below threshold", User{Enabled: true, LoginAttempts: 4}, 5, false},
		{"at threshold", User{Enabled: true, LoginAttempts: 5}, 5, true},
		{"administratively disabled", User{Enabled: false}, 5, true},
		{"threshold disabled", User{Enabled: true, LoginAttempts: 100}, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.user.Locked(tc.max))
		})
	}
}

func TestUserRecuperationValid(t *testing.T) {
	now := time.Now()
	tok := "ABCDEF1234"
	later := now.Add(time.Minute)
	earlier := now.Add(-time.Minute)

	assert.False(t, (&User{}).RecuperationValid(now))
	assert.False(t, (&User{RecuperationToken: &tok}).RecuperationValid(now))
	assert.False(t, (&User{RecuperationToken: &tok, RecuperationTokenExpiresAt: &earlier}).RecuperationValid(now))
	assert.True(t, (&User{RecuperationToken: &tok, RecuperationTokenExpiresAt: &later}).RecuperationValid(now))
}

func TestPermissionSplitName(t *testing.T) {
	p := Permission{Name: "orders.status.update"}
	p.SplitName()
	assert.Equal(t, "orders.status", p.Resource)
	assert.Equal(t, "update", p.Action)

	p = Permission{Name: "root"}
	p.SplitName()
	assert.Equal(t, "root", p.Resource)
	assert.Empty(t, p.Action)
}

func TestAssociationKeys(t *testing.T) {
	k := UserRoleKey{UserID: 1, RoleID: 2}
	assert.Equal(t, k, NewUsersRoles(k).Key())
	assert.Equal(t, uint64(1), k.Left())
	assert.Equal(t, uint64(2), k.Right())

	set := map[UserRoleKey]struct{}{k: {}}
	_, ok := set[UserRoleKey{UserID: 1, RoleID: 2}]
	assert.True(t, ok)

	_, ok = set[UserRoleKey{UserID: 2, RoleID: 1}]
	assert.False(t, ok)

	rp := RolePermissionKey{RoleID: 3, PermissionID: 4}
	assert.Equal(t, rp, NewRolesPermission(rp).Key())
}
