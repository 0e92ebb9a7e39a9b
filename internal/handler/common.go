package handler // handler defines http handlers

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/middleware"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
)

// Store interfaces consumed by the handlers.  The concrete
// implementations live in internal/repository; declaring the interfaces
// here keeps handlers testable against in-memory stores and keeps the
// dependency arrow pointing inward.

// TweetStore persists user-owned tweets.  Update and Delete check
// existence before ownership so 404 always takes precedence over 403.
type TweetStore interface {
	Create(ctx context.Context, t *model.Tweet) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.Tweet, error)
	Update(ctx context.Context, id, ownerID uint64, text string) (*model.Tweet, error)
	Delete(ctx context.Context, id, ownerID uint64) error
}

// UserStore resolves persisted user identities.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionStore records the login/logout audit trail.
type SessionStore interface {
	Open(ctx context.Context, userID uint64, ip string) error
	CloseOpen(ctx context.Context, userID uint64) error
	ListAll(ctx context.Context) ([]*model.Session, error)
}

// TokenStore persists refresh-token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user's ID placed on the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get(middleware.CtxUserID)
	id, ok := v.(uint64)
	if !ok || id == 0 {
		return 0, errNoUser
	}
	return id, nil
}

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}
