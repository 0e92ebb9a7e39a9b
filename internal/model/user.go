package model

import "time"

// Role names stored in users.role.  Registration always produces USER;
// ADMIN accounts are seeded out of band and unlock the session audit
// endpoints.
const (
    RoleUser  = "USER"
    RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  A user either holds a local bcrypt password hash or mirrors an
// identity owned by the external provider, never both:
//
//	PasswordHash – bcrypt hash of the password (empty for mirrored users).
//	ProviderID   – identifier assigned by the external identity provider
//	               (empty for local users).
//
// The json tags expose only safe fields; the hash and provider reference
// never leave the service.
type User struct {
    ID           uint64    `json:"id"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    ProviderID   string    `json:"-"`
    Role         string    `json:"role"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"-"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and carries metadata for expiry and
// revocation.  The plain token is never stored; only its SHA‑256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
