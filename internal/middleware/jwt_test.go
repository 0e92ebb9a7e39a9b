package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/utils"
)

const testSecret = "test-signing-secret-of-32-bytes!"

func protectedEcho(secret string) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		// The gate stores the subject as uint64; handlers rely on that.
		uid, ok := c.Get(CtxUserID).(uint64)
		if !ok {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bad context type"})
		}
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "role": c.Get(CtxRole)})
	}, JWTAuth(secret))
	return e
}

func TestJWTAuthMissingToken(t *testing.T) {
	e := protectedEcho(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsNonBearerHeader(t *testing.T) {
	e := protectedEcho(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	e := protectedEcho(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret-of-32-bytes!!!", 5, "USER", 15)
	require.NoError(t, err)

	e := protectedEcho(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 5, "USER", -1)
	require.NoError(t, err)

	e := protectedEcho(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 5, "USER", 15)
	require.NoError(t, err)

	e := protectedEcho(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":5,"role":"USER"}`, rec.Body.String())
}
