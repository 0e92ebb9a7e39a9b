package handler_test

import (
	"context"
	"sort"
	"time"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/repository"
)

// In-memory stores honoring the repository contracts, so the flow tests
// can exercise the full authorization state machine without a database.

// userDB backs both the handler's UserStore and the local identity
// provider's store.
type userDB struct {
	nextID  uint64
	byEmail map[string]model.User
	byID    map[uint64]model.User
}

func newUserDB() *userDB {
	return &userDB{byEmail: map[string]model.User{}, byID: map[uint64]model.User{}}
}

func (d *userDB) CreateLocal(_ context.Context, email, passwordHash, role string) (uint64, error) {
	if _, ok := d.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	d.nextID++
	u := model.User{ID: d.nextID, Email: email, PasswordHash: passwordHash, Role: role}
	d.byEmail[email] = u
	d.byID[u.ID] = u
	return u.ID, nil
}

func (d *userDB) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := d.byEmail[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (d *userDB) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// promote flips a user to ADMIN, standing in for out-of-band seeding.
func (d *userDB) promote(email string) {
	u := d.byEmail[email]
	u.Role = model.RoleAdmin
	d.byEmail[email] = u
	d.byID[u.ID] = u
}

// memTweetStore implements TweetStore with the repository's semantics:
// newest-first listing with id as tiebreaker, existence checked before
// ownership on mutations.
type memTweetStore struct {
	nextID uint64
	byID   map[uint64]*model.Tweet
	clock  func() time.Time
}

func newMemTweetStore() *memTweetStore {
	return &memTweetStore{byID: map[uint64]*model.Tweet{}, clock: func() time.Time { return time.Now().UTC() }}
}

func (s *memTweetStore) Create(_ context.Context, t *model.Tweet) error {
	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = s.clock()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	s.byID[t.ID] = &cp
	return nil
}

func (s *memTweetStore) ListByUser(_ context.Context, userID uint64) ([]*model.Tweet, error) {
	var out []*model.Tweet
	for _, t := range s.byID {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memTweetStore) Update(_ context.Context, id, ownerID uint64, text string) (*model.Tweet, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrTweetNotFound
	}
	if t.UserID != ownerID {
		return nil, repository.ErrForbidden
	}
	t.Text = text
	t.UpdatedAt = s.clock()
	cp := *t
	return &cp, nil
}

func (s *memTweetStore) Delete(_ context.Context, id, ownerID uint64) error {
	t, ok := s.byID[id]
	if !ok {
		return repository.ErrTweetNotFound
	}
	if t.UserID != ownerID {
		return repository.ErrForbidden
	}
	delete(s.byID, id)
	return nil
}

// memSessionStore implements SessionStore.
type memSessionStore struct {
	nextID   uint64
	sessions []*model.Session
}

func (s *memSessionStore) Open(_ context.Context, userID uint64, ip string) error {
	s.nextID++
	s.sessions = append(s.sessions, &model.Session{
		ID: s.nextID, UserID: userID, LoginTime: time.Now().UTC(), IPAddress: ip,
	})
	return nil
}

func (s *memSessionStore) CloseOpen(_ context.Context, userID uint64) error {
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if s.sessions[i].UserID == userID && s.sessions[i].LogoutTime == nil {
			now := time.Now().UTC()
			s.sessions[i].LogoutTime = &now
			return nil
		}
	}
	return nil
}

func (s *memSessionStore) ListAll(_ context.Context) ([]*model.Session, error) {
	out := make([]*model.Session, 0, len(s.sessions))
	for i := len(s.sessions) - 1; i >= 0; i-- {
		cp := *s.sessions[i]
		out = append(out, &cp)
	}
	return out, nil
}

// memTokenStore implements TokenStore.
type errInvalidRefresh struct{}

func (errInvalidRefresh) Error() string { return "invalid refresh token" }

type refreshRec struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type memTokenStore struct {
	byHash map[string]*refreshRec
}

func newMemTokenStore() *memTokenStore { return &memTokenStore{byHash: map[string]*refreshRec{}} }

func (s *memTokenStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.byHash[tokenHash] = &refreshRec{userID: userID, exp: exp}
	return nil
}

func (s *memTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	rec, ok := s.byHash[tokenHash]
	if !ok || rec.revoked || time.Now().UTC().After(rec.exp) {
		return 0, errInvalidRefresh{}
	}
	return rec.userID, nil
}

func (s *memTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	if rec, ok := s.byHash[tokenHash]; ok {
		rec.revoked = true
	}
	return nil
}

func (s *memTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	for _, rec := range s.byHash {
		if rec.userID == userID {
			rec.revoked = true
		}
	}
	return nil
}
