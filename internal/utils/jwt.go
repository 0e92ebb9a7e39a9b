package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for refresh tokens
    "encoding/hex"  // hex encoding for token material
    "errors"        // errors provides sentinel values and errors.Is
    "strconv"       // strconv converts string subject claims
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Token verification failures.  The gate collapses all of these into a 401
// for the client; the distinction exists for logs and for tests of the
// verification path.
var (
    ErrMissingToken     = errors.New("missing token")
    ErrMalformedToken   = errors.New("malformed token")
    ErrInvalidSignature = errors.New("invalid token signature")
    ErrExpiredToken     = errors.New("token expired")
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short‑lived, carried in the Authorization header, and
// verified statelessly on every protected request.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Identity is what a successfully verified access token resolves to.
type Identity struct {
    UserID uint64 // subject of the token
    Role   string // role claim (USER or ADMIN)
}

// RefreshToken represents a long‑lived token used to obtain new access
// tokens.  Raw is returned to the client; only a SHA‑256 hash of it is
// ever stored.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT binding the given user and
// role.  The expiry is always set: a token without an expiry can never be
// rejected as stale.  Claims are the standard sub/exp/iat plus role.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  strconv.FormatUint(userID, 10),
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies a serialized access token and returns the
// identity it binds.  Verification is pure: no store access, safe to run
// on every request.  Failures map onto the sentinel errors above; any
// parse failure not otherwise classified is reported as malformed.
func ParseAccessToken(secret, raw string) (Identity, error) {
    if raw == "" {
        return Identity{}, ErrMissingToken
    }
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Only HS256 family tokens are ever issued; reject anything else
        // before the signature check so an attacker cannot downgrade to
        // "none" or swap in an asymmetric key.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrTokenSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return Identity{}, ErrExpiredToken
        case errors.Is(err, jwt.ErrTokenSignatureInvalid):
            return Identity{}, ErrInvalidSignature
        case errors.Is(err, jwt.ErrTokenMalformed):
            return Identity{}, ErrMalformedToken
        default:
            return Identity{}, ErrMalformedToken
        }
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Identity{}, ErrMalformedToken
    }
    id, err := subjectID(claims)
    if err != nil {
        return Identity{}, err
    }
    role, _ := claims["role"].(string)
    return Identity{UserID: id, Role: role}, nil
}

// subjectID extracts the user ID from the sub claim.  Tokens issued here
// carry the ID as a decimal string, but numeric subs are tolerated since
// JSON numbers decode as float64.
func subjectID(claims jwt.MapClaims) (uint64, error) {
    switch v := claims["sub"].(type) {
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return 0, ErrMalformedToken
        }
        return n, nil
    case float64:
        return uint64(v), nil
    default:
        return 0, ErrMalformedToken
    }
}

// NewRefreshToken returns a cryptographically secure random token (raw)
// and its expiration time.  Refresh tokens live longer than access tokens
// and are exchanged for new pairs at /v1/auth/refresh.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the SHA‑256 hash of the raw refresh token as a
// hex string.  Storing only the hash prevents a leaked database from
// yielding usable refresh tokens.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
