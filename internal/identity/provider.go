// Package identity abstracts credential verification.  Two
// implementations exist: Local keeps bcrypt hashes in the users table,
// Remote delegates to an external identity provider and mirrors the
// returned identity locally.  Exactly one is selected at startup; request
// authorization is unaffected by the choice and always runs through the
// stateless access-token path.
package identity

import (
	"context"
	"errors"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
)

// Provider issues and verifies credentials.  Register fails with
// ErrEmailExists for duplicate identifiers and never stores a plaintext
// secret.  Verify fails with ErrInvalidCredentials for an unknown email
// or a wrong password without distinguishing the two.
type Provider interface {
	Register(ctx context.Context, email, password string) (model.User, error)
	Verify(ctx context.Context, email, password string) (model.User, error)
}

// Failure kinds reported by providers.  Remote providers report richer
// failures (weak password, upstream outage) that the local store cannot
// produce; handlers map each to a distinct response rather than
// collapsing them.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password rejected by provider")
	ErrUpstream           = errors.New("identity provider unavailable")
)
