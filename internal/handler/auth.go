package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/config"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/identity"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/middleware"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/utils"
)

// AuthHandler bundles dependencies for the credential endpoints.  The
// identity.Provider decides how credentials are verified (local bcrypt or
// delegated); everything downstream of it is identical for both.
type AuthHandler struct {
	Cfg      config.Config
	Provider identity.Provider
	Users    UserStore
	Tokens   TokenStore
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, p identity.Provider, u UserStore, t TokenStore, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Provider: p, Users: u, Tokens: t, Sessions: s}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	Message string    `json:"message,omitempty"`
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a user via the configured provider and returns tokens
// immediately.  Duplicate identifiers and provider-rejected passwords are
// 400s with distinct messages; provider outages are logged and surfaced
// as a bare 500.
func (h *AuthHandler) Register(c echo.Context) error {
	email, password, err := bindCredentials(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Provider.Register(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		case errors.Is(err, identity.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password rejected"})
		default:
			c.Logger().Errorf("register: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	resp, err := h.issueTokens(c, u.ID, u.Email, u.Role)
	if err != nil {
		c.Logger().Errorf("register: issue tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	resp.Message = "user registered successfully"
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials, opens an audit session and returns a fresh
// token pair.  Unknown email and wrong password are indistinguishable to
// the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	email, password, err := bindCredentials(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Provider.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	// The session row is an audit record; failing to write it must not
	// fail the login.
	if err := h.Sessions.Open(ctx, u.ID, c.RealIP()); err != nil {
		c.Logger().Errorf("login: open session: %v", err)
	}

	resp, err := h.issueTokens(c, u.ID, u.Email, u.Role)
	if err != nil {
		c.Logger().Errorf("login: issue tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqContext(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	// Reload the user so the rotated access token carries the current
	// role, not whatever it was when the refresh token was minted.
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		c.Logger().Errorf("refresh: load user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	resp, err := h.issueTokens(c, u.ID, u.Email, u.Role)
	if err != nil {
		c.Logger().Errorf("refresh: issue tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout terminates a session.  With a valid bearer token it revokes all
// of the user's refresh tokens; with a refresh token in the body it
// revokes just that one.  Either way the latest open audit session is
// stamped with a logout time.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	// Bearer route: parse the access token directly so this endpoint can
	// live outside the auth-gated group.
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		id, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		if err := h.Tokens.RevokeAllForUser(ctx, id.UserID); err != nil {
			c.Logger().Errorf("logout: revoke all: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if err := h.Sessions.CloseOpen(ctx, id.UserID); err != nil {
			c.Logger().Errorf("logout: close session: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		c.Logger().Errorf("logout: revoke: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Sessions.CloseOpen(ctx, userID); err != nil {
		c.Logger().Errorf("logout: close session: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me is a simple protected endpoint echoing the resolved identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get(middleware.CtxUserID),
		"role":    c.Get(middleware.CtxRole),
	})
}

// issueTokens mints an access/refresh pair for the user and stores the
// refresh hash.
func (h *AuthHandler) issueTokens(c echo.Context, userID uint64, email, role string) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userPart{ID: userID, Email: email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw goes back to the client
	}, nil
}

// bindCredentials binds and normalizes the email/password body shared by
// register and login.
func bindCredentials(c echo.Context) (email, password string, err error) {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return "", "", errors.New("invalid body")
	}
	email = strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return "", "", errors.New("email/password required")
	}
	return email, req.Password, nil
}
