// Package auth provides authentication and authorization functionality for restopos.
//
// # Accounts
//
// Users log in with username and password. Passwords are stored as digests of an
// injected PasswordHasher (argon2id by default, bcrypt optional). Consecutive failed
// logins are counted; reaching auth.maxLoginAttempts locks the account until an
// administrator unlocks it or the user resets the password with a recuperation token.
//
// # Sessions
//
// A successful login opens a session and returns an access and a refresh token, both
// HS256 JWTs naming the session. The session stores only SHA-256 digests and short
// previews of the tokens. Its state is derived at read time:
//
//	revokedAt set                  REVOKED
//	now > refreshTokenExpiresAt    EXPIRED
//	isActive false                 PENDING
//	otherwise                      ACTIVE
//
// Only ACTIVE sessions authenticate requests. Every authenticated request updates
// lastActivityAt.
//
// # Authorization
//
// Users hold roles, roles hold permissions. Permission names are resource.action
// strings, see the Perm constants. The Service type checks them with HasPermission,
// HasAnyPermission, HasAllPermissions and GetUserPermissions.
//
// Fiber middleware protects routes:
//
//	api.Use(auth.RequireAuthenticated(authService))
//	api.Post("/orders", auth.RequirePermission(auth.PermOrdersCreate), handler)
package auth
