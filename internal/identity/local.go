package identity

import (
	"context"
	"errors"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/repository"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/utils"
)

// localUserStore is the slice of UserRepo the local provider needs.
type localUserStore interface {
	CreateLocal(ctx context.Context, email, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// Local verifies credentials against the users table with bcrypt.
type Local struct {
	users localUserStore
	cost  int // bcrypt cost from configuration
}

// NewLocal builds the local credential provider.
func NewLocal(users localUserStore, bcryptCost int) *Local {
	return &Local{users: users, cost: bcryptCost}
}

// Register hashes the password and inserts the user.  Only the hash is
// stored.  New accounts always get the USER role.
func (l *Local) Register(ctx context.Context, email, password string) (model.User, error) {
	hash, err := utils.HashPassword(password, l.cost)
	if err != nil {
		return model.User{}, err
	}
	id, err := l.users.CreateLocal(ctx, email, hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return model.User{ID: id, Email: email, Role: model.RoleUser}, nil
}

// Verify looks the user up and compares the password.  Unknown email and
// wrong password both collapse into ErrInvalidCredentials; the bcrypt
// compare is constant-time, so proximity to the real password is not
// observable.
func (l *Local) Verify(ctx context.Context, email, password string) (model.User, error) {
	u, err := l.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
