package config // package config loads application configuration from environment variables

import (
    "errors"  // errors defines the secret validation sentinels
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings is used to normalize and validate values

    "github.com/joho/godotenv" // godotenv loads a local .env file in development
)

// Backend selects how credentials are verified at registration/login time.
// Request authorization is always the local stateless JWT path regardless
// of the backend; only credential verification is pluggable.
const (
    BackendLocal  = "local"  // credentials verified against the local users table (bcrypt)
    BackendRemote = "remote" // credentials verified by an external identity provider
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
    AuthBackend    string // credential verification backend: "local" or "remote"
    IdentityURL    string // base URL of the external identity provider (remote backend)
    IdentityKey    string // API key sent to the external identity provider (remote backend)
}

// Secret validation failures.  Exposed as sentinels so startup code and
// tests can distinguish them.
var (
    ErrSecretMissing     = errors.New("signing secret is required")
    ErrSecretPlaceholder = errors.New("signing secret is a known placeholder value")
    ErrSecretTooShort    = errors.New("signing secret must be at least 32 bytes")
)

// placeholderSecrets are signing secrets that must never reach production.
// The original deployment shipped with a hardcoded default; startup now
// refuses anything on this list.
var placeholderSecrets = map[string]bool{
    "your_jwt_secret": true,
    "secret":          true,
    "changeme":        true,
    "change_me":       true,
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first when
// present.  Required variables are enforced by must() and missing or
// invalid values cause the program to exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // absence of a .env file is fine; real env vars win

    cfg := Config{
        Env:            must("APP_ENV"),                   // environment (dev/test/prod)
        Port:           must("APP_PORT"),                  // port to bind the HTTP server
        DBUser:         must("DB_USER"),                   // database user
        DBPass:         os.Getenv("DB_PASS"),              // database password (empty allowed)
        DBHost:         must("DB_HOST"),                   // database host
        DBPort:         must("DB_PORT"),                   // database port
        DBName:         must("DB_NAME"),                   // database name
        JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor
        AuthBackend:    getenv("AUTH_BACKEND", BackendLocal),
        IdentityURL:    os.Getenv("IDENTITY_URL"),
        IdentityKey:    os.Getenv("IDENTITY_API_KEY"),
    }

    if err := ValidateSecret(cfg.JWTSecret); err != nil {
        log.Fatalf("JWT_SECRET: %v", err)
    }
    switch cfg.AuthBackend {
    case BackendLocal:
        // nothing extra required
    case BackendRemote:
        if cfg.IdentityURL == "" || cfg.IdentityKey == "" {
            log.Fatal("AUTH_BACKEND=remote requires IDENTITY_URL and IDENTITY_API_KEY")
        }
    default:
        log.Fatalf("unknown AUTH_BACKEND %q (want %q or %q)", cfg.AuthBackend, BackendLocal, BackendRemote)
    }
    return cfg
}

// ValidateSecret enforces the signing key policy: the secret must be
// present, must not be a known placeholder, and must be at least 32 bytes.
// A compromised or guessable signing key compromises every issued token,
// so violations abort startup rather than degrade.
func ValidateSecret(secret string) error {
    s := strings.TrimSpace(secret)
    if s == "" {
        return ErrSecretMissing
    }
    if placeholderSecrets[strings.ToLower(s)] {
        return ErrSecretPlaceholder
    }
    if len(s) < 32 {
        return ErrSecretTooShort
    }
    return nil
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
