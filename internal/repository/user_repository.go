package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
)

// UserRepo persists user identities.  Two kinds of rows live in the
// users table: local users carrying a bcrypt password hash, and mirror
// rows for identities owned by the external provider (provider_id set,
// password_hash empty).  Email uniqueness is enforced by the store.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,password_hash,provider_id,role,created_at,updated_at"

// CreateLocal inserts a locally-managed user with an already-hashed
// password and returns its ID.  Duplicate emails surface as
// ErrEmailExists via the store's unique index (MySQL error 1062).
func (r *UserRepo) CreateLocal(ctx context.Context, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, passwordHash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateMirror inserts a row mirroring an identity owned by the external
// provider.  The secret never touches this store; only the provider's
// identifier and the email are kept for local references and audit.
func (r *UserRepo) CreateMirror(ctx context.Context, providerID, email, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, provider_id, role) VALUES (?,?,?)",
		email, providerID, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.  Returns ErrUserNotFound
// when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getWhere(ctx, "email=?", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

// GetByProviderID fetches the mirror row for an external identity.
func (r *UserRepo) GetByProviderID(ctx context.Context, providerID string) (model.User, error) {
	return r.getWhere(ctx, "provider_id=?", providerID)
}

func (r *UserRepo) getWhere(ctx context.Context, where string, arg any) (model.User, error) {
	var (
		u            model.User
		passwordHash sql.NullString
		providerID   sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE "+where+" LIMIT 1", arg).
		Scan(&u.ID, &u.Email, &passwordHash, &providerID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	u.PasswordHash = passwordHash.String
	u.ProviderID = providerID.String
	return u, nil
}
