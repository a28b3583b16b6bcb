package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
	"github.com/restopos/restopos/internal/db/repository"
)

// ClientMeta describes where a login comes from.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Tokens is the result of a login or refresh. RefreshToken is empty after a refresh.
type Tokens struct {
	User         *models.User
	Session      *models.Session
	AccessToken  string
	RefreshToken string
}

// Principal is the authenticated user and session of a request.
type Principal struct {
	User        *models.User
	Session     *models.Session
	Permissions []string
}

// Has reports whether the principal holds permission.
func (p *Principal) Has(permission string) bool {
	return p != nil && slices.Contains(p.Permissions, permission)
}

// Login checks the credentials and opens a session.
//
// Unknown users and wrong passwords both yield apperror.ErrInvalidCredentials. A wrong
// password counts towards the lockout threshold; a locked account yields
// apperror.ErrAccountLocked without saying why it is locked.
func (s *Service) Login(ctx context.Context, username, password string, meta ClientMeta) (*Tokens, error) {
	out, outcome, err := s.login(ctx, username, password, meta)
	logins().WithLabelValues(outcome).Inc()

	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}

	ev.Str("username", username).Str("ip", meta.IPAddress).Str("outcome", outcome).Msg("login")

	return out, err
}

func (s *Service) login(ctx context.Context, username, password string, meta ClientMeta) (*Tokens, string, error) {
	user, err := s.repos.Users.FindByUsername(ctx, username)

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return nil, outcomeInvalid, apperror.ErrInvalidCredentials
	case err != nil:
		return nil, outcomeInternalErr, err
	case !user.IsActive:
		return nil, outcomeDisabled, apperror.ErrAccountDisabled
	case user.Locked(s.cfg.MaxLoginAttempts):
		return nil, outcomeLocked, apperror.ErrAccountLocked
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return nil, outcomeInternalErr, err
	}

	if !ok {
		if err := s.repos.Users.RecordFailedLogin(ctx, user.ID); err != nil {
			return nil, outcomeInternalErr, err
		}

		return nil, outcomeInvalid, apperror.ErrInvalidCredentials
	}

	now := s.clock()
	out := &Tokens{User: user}

	err = s.repos.Transaction(ctx, func(tx *repository.Set) error {
		// the row may have been locked while the password was checked
		usable, err := tx.Users.RecordLogin(ctx, user.ID, s.cfg.MaxLoginAttempts, now)
		if err != nil {
			return err
		}

		if !usable {
			return apperror.ErrAccountLocked
		}

		user.LoginAttempts = 0
		user.LastLoginAt = &now

		session := &models.Session{
			ID:                    uuid.NewString(),
			UserID:                user.ID,
			RefreshTokenExpiresAt: now.Add(s.tokens.TTL(TokenRefresh)),
			IPAddress:             meta.IPAddress,
			UserAgent:             meta.UserAgent,
			CreatedAt:             now,
			LastActivityAt:        now,
		}
		session.AccessTokenExpiresAt = minTime(now.Add(s.tokens.TTL(TokenAccess)), session.RefreshTokenExpiresAt)

		// pending until both tokens are bound to it
		if err := tx.Sessions.Create(ctx, session); err != nil {
			return err
		}

		access, err := s.tokens.Issue(TokenAccess, user.ID, session.ID, now, session.AccessTokenExpiresAt)
		if err != nil {
			return err
		}

		refresh, err := s.tokens.Issue(TokenRefresh, user.ID, session.ID, now, session.RefreshTokenExpiresAt)
		if err != nil {
			return err
		}

		session.AccessTokenHash, session.AccessTokenPreview = Digest(access), Preview(access)
		session.RefreshTokenHash, session.RefreshTokenPreview = Digest(refresh), Preview(refresh)
		session.IsActive = true

		if err := tx.Sessions.Save(ctx, session); err != nil {
			return err
		}

		out.Session, out.AccessToken, out.RefreshToken = session, access, refresh

		return tx.Users.LoadRoles(ctx, user)
	})
	switch {
	case errors.Is(err, apperror.ErrAccountLocked):
		return nil, outcomeLocked, err
	case err != nil:
		return nil, outcomeInternalErr, err
	}

	return out, outcomeSuccess, nil
}

// Authenticate resolves an access token to its principal and records activity on the session.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Principal, error) {
	now := s.clock()

	claims, err := s.tokens.Parse(TokenAccess, accessToken, now)
	if err != nil {
		return nil, err
	}

	session, err := s.usableSession(ctx, claims, now)
	if err != nil {
		return nil, err
	}

	if !sameDigest(session.AccessTokenHash, accessToken) {
		return nil, apperror.ErrSessionInvalid
	}

	user, err := s.repos.Users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	switch {
	case !user.IsActive:
		return nil, apperror.ErrAccountDisabled
	case !user.Enabled:
		return nil, apperror.ErrAccountLocked
	}

	if err := s.repos.Sessions.Touch(ctx, session.ID, now); err != nil {
		return nil, err
	}

	session.LastActivityAt = now

	permissions, err := s.GetUserPermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Principal{User: user, Session: session, Permissions: permissions}, nil
}

// usableSession loads the session named by claims and checks it may be used at now.
// Active sessions past their refresh expiry are stale and rejected.
func (s *Service) usableSession(ctx context.Context, claims *Claims, now time.Time) (*models.Session, error) {
	session, err := s.repos.Sessions.FindByID(ctx, claims.SessionID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.ErrSessionInvalid
	}

	if err != nil {
		return nil, err
	}

	userID, _ := claims.UserID()
	if session.UserID != userID || !session.Usable(now) || session.RevokedAt != nil {
		return nil, apperror.ErrSessionInvalid
	}

	return session, nil
}

// Refresh issues a new access token for the session of refreshToken. The refresh
// window of the session is kept.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	now := s.clock()

	claims, err := s.tokens.Parse(TokenRefresh, refreshToken, now)
	if err != nil {
		return nil, err
	}

	session, err := s.usableSession(ctx, claims, now)
	if err != nil {
		return nil, err
	}

	if !sameDigest(session.RefreshTokenHash, refreshToken) {
		return nil, apperror.ErrSessionInvalid
	}

	user, err := s.repos.Users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive || !user.Enabled {
		return nil, apperror.ErrSessionInvalid
	}

	expires := minTime(now.Add(s.tokens.TTL(TokenAccess)), session.RefreshTokenExpiresAt)

	access, err := s.tokens.Issue(TokenAccess, user.ID, session.ID, now, expires)
	if err != nil {
		return nil, err
	}

	session.AccessTokenHash, session.AccessTokenPreview = Digest(access), Preview(access)
	session.AccessTokenExpiresAt = expires
	session.LastActivityAt = now

	if err := s.repos.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &Tokens{User: user, Session: session, AccessToken: access}, s.repos.Users.LoadRoles(ctx, user)
}

// Logout revokes the session of the principal.
func (s *Service) Logout(ctx context.Context, p *Principal) error {
	if p == nil || p.Session == nil {
		return ErrNoPrincipal
	}

	_, err := s.RevokeSession(ctx, p.Session.ID)

	return err
}

// RevokeSession revokes a session. Revoking a revoked session keeps the first revocation time.
func (s *Service) RevokeSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repos.Sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.RevokedAt != nil {
		return session, nil
	}

	now := s.clock()
	session.IsActive = false
	session.RevokedAt = &now

	if err := s.repos.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", id).Uint64("user_id", session.UserID).Msg("session revoked")

	return session, nil
}

// ListSessions returns one page of every session of the user, including revoked and expired ones.
func (s *Service) ListSessions(
	ctx context.Context, userID uint64, pr repository.PageRequest,
) (repository.Page[models.Session], error) {
	if _, err := s.repos.Users.FindByID(ctx, userID); err != nil {
		return repository.Page[models.Session]{}, err
	}

	return s.repos.Sessions.FindByUser(ctx, userID, pr)
}

// RevokeUserSessions signs a user out everywhere. It returns the number of sessions revoked.
func (s *Service) RevokeUserSessions(ctx context.Context, userID uint64) (int64, error) {
	if _, err := s.repos.Users.FindByID(ctx, userID); err != nil {
		return 0, err
	}

	n, err := s.repos.Sessions.RevokeAllForUser(ctx, userID, s.clock())
	if err != nil {
		return 0, err
	}

	log.Info().Uint64("user_id", userID).Int64("sessions", n).Msg("user sessions revoked")

	return n, nil
}

// ActiveSessions returns the sessions of the user that are usable now.
func (s *Service) ActiveSessions(ctx context.Context, userID uint64) ([]models.Session, error) {
	return s.repos.Sessions.FindActiveByUser(ctx, userID, s.clock())
}

// Now is the service clock in UTC.
func (s *Service) Now() time.Time {
	return s.clock()
}

func sameDigest(stored, raw string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(Digest(raw))) == 1
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}

	return b
}
