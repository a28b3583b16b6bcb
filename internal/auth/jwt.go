package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/config"
)

// TokenType tells access and refresh tokens apart.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

const previewLen = 8

// Claims of restopos tokens. Subject carries the user id.
type Claims struct {
	SessionID string    `json:"sid"`
	Type      TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// UserID parses the subject.
func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// Issuer signs and parses HS256 tokens. Access and refresh tokens use separate secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer returns an Issuer configured from cfg.
func NewIssuer(cfg config.Auth) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (i *Issuer) secret(typ TokenType) []byte {
	if typ == TokenRefresh {
		return i.refreshSecret
	}

	return i.accessSecret
}

// TTL returns the lifetime of tokens of typ.
func (i *Issuer) TTL(typ TokenType) time.Duration {
	if typ == TokenRefresh {
		return i.refreshTTL
	}

	return i.accessTTL
}

// Issue signs a token of typ for the user and session. The token expires at expiresAt.
func (i *Issuer) Issue(typ TokenType, userID uint64, sessionID string, now, expiresAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret(typ))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}

	return signed, nil
}

// Parse verifies raw as a token of typ at now. Every failure is apperror.ErrSessionInvalid.
func (i *Issuer) Parse(typ TokenType, raw string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return i.secret(typ), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionInvalid, err.Error())
	}

	if claims.Type != typ || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: not a %s token", apperror.ErrSessionInvalid, typ)
	}

	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", apperror.ErrSessionInvalid)
	}

	return claims, nil
}

// Digest is the hex SHA-256 of a token, as stored on the session.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Preview is the displayable prefix of a token.
func Preview(raw string) string {
	if len(raw) <= previewLen {
		return raw
	}

	return raw[:previewLen] + "..."
}
