package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/SaiMadhavi2000/twitter-assinment/internal/handler"    // handlers implementing the endpoints
	"github.com/SaiMadhavi2000/twitter-assinment/internal/middleware" // JWT, role and rate-limit middleware
)

// RegisterRoutes registers routes that require no authentication and no
// dependencies: currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints and the protected /me
// route.  The rate limiter wraps register and login only: those are the
// routes an online brute force attacks, and they run before any token
// exists.  Logout lives outside the auth-gated group because it accepts
// either a bearer token or a refresh token in the body.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterTweets registers tweet CRUD.  Mutations and the caller's own
// list sit behind the JWT gate; the per-user timeline is public read.
func RegisterTweets(e *echo.Echo, t *handler.TweetHandler, jwtSecret string) {
	g := e.Group(
		"/v1/tweets",
		middleware.JWTAuth(jwtSecret),
	)
	g.POST("", t.Create)
	g.GET("", t.ListMine)
	g.PUT("/:id", t.Update)
	g.DELETE("/:id", t.Delete)

	e.GET("/v1/users/:id/timeline", t.Timeline)
}

// RegisterAdmin registers the session audit listing.  It returns
// cross-user data and therefore demands both a valid token and the ADMIN
// role.
func RegisterAdmin(e *echo.Echo, s *handler.SessionHandler, jwtSecret string) {
	g := e.Group(
		"/v1/sessions",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("", s.List)
}
