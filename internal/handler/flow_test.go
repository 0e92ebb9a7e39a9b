package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/config"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/handler"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/identity"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/middleware"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/router"
)

const testSecret = "flow-test-signing-secret-32-bytes"

// testEnv bundles the Echo instance with the in-memory stores behind it
// so tests can both drive HTTP and inspect state.
type testEnv struct {
	e        *echo.Echo
	users    *userDB
	tweets   *memTweetStore
	sessions *memSessionStore
	tokens   *memTokenStore
}

// newTestServer wires the full router against in-memory stores and the
// real local identity provider, in the shape main() uses.
func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		Env:            "test",
		JWTSecret:      testSecret,
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
		AuthBackend:    config.BackendLocal,
	}
	env := &testEnv{
		users:    newUserDB(),
		tweets:   newMemTweetStore(),
		sessions: &memSessionStore{},
		tokens:   newMemTokenStore(),
	}
	provider := identity.NewLocal(env.users, cfg.BcryptCost)
	limit := middleware.NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, provider, env.users, env.tokens, env.sessions), cfg.JWTSecret, limit)
	router.RegisterTweets(e, handler.NewTweetHandler(env.tweets), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewSessionHandler(env.sessions), cfg.JWTSecret)
	env.e = e
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// register creates a user and returns its id and access token.
func (env *testEnv) register(t *testing.T, email, password string) (uint64, string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Access.Token
}

func TestRegisterDuplicateIsRejected(t *testing.T) {
	env := newTestServer(t)

	env.register(t, "alice@example.com", "pw1")

	rec := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestLogin(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice@example.com", "pw1")

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)

	// Wrong password and unknown user both come back as the same 400.
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A successful login opened exactly one audit session with the
	// caller's address.
	sessions, err := env.sessions.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotEmpty(t, sessions[0].IPAddress)
	assert.Nil(t, sessions[0].LogoutTime)
}

func TestTweetOwnership(t *testing.T) {
	env := newTestServer(t)
	aliceID, aliceTok := env.register(t, "alice@example.com", "pw1")
	_, bobTok := env.register(t, "bob@example.com", "pw2")

	// Creation stamps the owner from the token, ignoring any user_id the
	// client smuggles into the body.
	rec := env.do(t, http.MethodPost, "/v1/tweets", aliceTok, map[string]any{
		"text": "hello", "user_id": 9999,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     uint64 `json:"id"`
		UserID uint64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, aliceID, created.UserID)

	path := fmt.Sprintf("/v1/tweets/%d", created.ID)

	// Bob may neither edit nor delete Alice's tweet.
	rec = env.do(t, http.MethodPut, path, bobTok, map[string]string{"text": "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodDelete, path, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The failed attempts left the tweet untouched.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%d/timeline", aliceID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hello"`)

	// A missing tweet is 404 even when the caller owns nothing: the
	// existence check runs first.
	rec = env.do(t, http.MethodPut, "/v1/tweets/424242", bobTok, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/v1/tweets/424242", bobTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner can do both.
	rec = env.do(t, http.MethodPut, path, aliceTok, map[string]string{"text": "edited"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, path, aliceTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, path, aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTweetRoutesRequireAuth(t *testing.T) {
	env := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/v1/tweets"},
		{http.MethodGet, "/v1/tweets"},
		{http.MethodPut, "/v1/tweets/1"},
		{http.MethodDelete, "/v1/tweets/1"},
	} {
		rec := env.do(t, tc.method, tc.path, "", map[string]string{"text": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTimelineNewestFirst(t *testing.T) {
	env := newTestServer(t)
	aliceID, aliceTok := env.register(t, "alice@example.com", "pw1")

	// Pin the fake clock so creation times are strictly increasing.
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	env.tweets.clock = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	for _, text := range []string{"first", "second", "third"} {
		rec := env.do(t, http.MethodPost, "/v1/tweets", aliceTok, map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// The timeline is public read, newest first.
	rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%d/timeline", aliceID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []struct {
			Text string `json:"text"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "third", resp.Items[0].Text)
	assert.Equal(t, "second", resp.Items[1].Text)
	assert.Equal(t, "first", resp.Items[2].Text)
}

func TestSessionsListingIsAdminOnly(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice@example.com", "pw1")
	env.register(t, "admin@example.com", "pw-admin")
	env.users.promote("admin@example.com")

	// No token at all.
	rec := env.do(t, http.MethodGet, "/v1/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Login both so sessions exist and tokens carry current roles.
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	aliceTok := accessToken(t, rec)
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "pw-admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	adminTok := accessToken(t, rec)

	// A plain user is forbidden; the admin sees every user's sessions.
	rec = env.do(t, http.MethodGet, "/v1/sessions", aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/sessions", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []struct {
			UserID uint64 `json:"user_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
}

func TestRefreshRotation(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice@example.com", "pw1")

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := refreshToken(t, rec)

	rec = env.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := refreshToken(t, rec)
	require.NotEqual(t, refresh, rotated)

	// The old refresh token was consumed by the rotation.
	rec = env.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": rotated})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClosesSessionAndRevokesTokens(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice@example.com", "pw1")

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	access := accessToken(t, rec)
	refresh := refreshToken(t, rec)

	rec = env.do(t, http.MethodPost, "/v1/auth/logout", access, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The audit session now has a logout time and the refresh token is dead.
	sessions, err := env.sessions.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotNil(t, sessions[0].LogoutTime)

	rec = env.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	env := newTestServer(t)
	aliceID, aliceTok := env.register(t, "alice@example.com", "pw1")

	rec := env.do(t, http.MethodGet, "/v1/me", aliceTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"user_id":%d,"role":"USER"}`, aliceID), rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---- decoding helpers ----

func accessToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return tokenField(t, rec, "access")
}

func refreshToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return tokenField(t, rec, "refresh")
}

func tokenField(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	var part struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp[field], &part))
	require.NotEmpty(t, part.Token)
	return part.Token
}
