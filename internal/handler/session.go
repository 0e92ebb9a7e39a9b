package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionHandler exposes the login/logout audit trail.  The listing
// returns cross-user data, so the route is registered behind JWTAuth and
// RequireRole(ADMIN); it is never served unauthenticated.
type SessionHandler struct {
	Sessions SessionStore
}

func NewSessionHandler(sessions SessionStore) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// List handles GET /v1/sessions, newest-first.
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Sessions.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("list sessions: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
