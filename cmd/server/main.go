package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4"                       // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"     // Echo's built-in request logging/recovery

	"github.com/SaiMadhavi2000/twitter-assinment/internal/config"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/database"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/handler"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/identity"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/middleware"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/repository"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config; fatal on missing/invalid values

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single pool created above.
	users := repository.NewUserRepo(db)
	tweets := repository.NewTweetRepo(db)
	sessions := repository.NewSessionRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Credential verification backend: local bcrypt store or delegated
	// identity provider.  Authorization is the same JWT path either way.
	var provider identity.Provider
	switch cfg.AuthBackend {
	case config.BackendRemote:
		provider = identity.NewRemote(cfg.IdentityURL, cfg.IdentityKey, users)
	default:
		provider = identity.NewLocal(users, cfg.BcryptCost)
	}

	// Rate limiting degrades to passthrough when redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; rate limiting disabled")
	}
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, provider, users, tokens, sessions), cfg.JWTSecret, limit)
	router.RegisterTweets(e, handler.NewTweetHandler(tweets), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewSessionHandler(sessions), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, auth=%s)", addr, cfg.Env, cfg.AuthBackend)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
