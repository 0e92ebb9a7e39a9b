package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/repository"
)

// mirrorStore is the slice of UserRepo the remote provider needs: it only
// ever writes mirror rows, never password hashes.
type mirrorStore interface {
	CreateMirror(ctx context.Context, providerID, email, role string) (uint64, error)
	GetByProviderID(ctx context.Context, providerID string) (model.User, error)
}

// Remote delegates credential verification to an external identity
// provider speaking the GoTrue-style HTTP API (POST /signup, POST
// /token?grant_type=password, "apikey" header).  The provider owns the
// secret; this service only mirrors the returned identity into the users
// table so records and sessions can reference a local numeric ID.
type Remote struct {
	baseURL string
	apiKey  string
	users   mirrorStore
	client  *http.Client
}

// NewRemote builds the delegated credential provider.  The base URL and
// API key come from configuration; both are required at startup.
func NewRemote(baseURL, apiKey string, users mirrorStore) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		users:   users,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// providerUser is the identity payload the provider returns.
type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// providerError is the provider's error body.  error_code carries the
// machine-readable kind; msg is human-readable and is not forwarded to
// clients.
type providerError struct {
	ErrorCode string `json:"error_code"`
	Msg       string `json:"msg"`
}

// Register signs the user up with the provider and mirrors the identity
// locally.  Provider-reported failures keep their kind: an
// already-registered email and a rejected (weak) password are distinct
// errors, not a generic failure.
func (r *Remote) Register(ctx context.Context, email, password string) (model.User, error) {
	var pu providerUser
	if err := r.post(ctx, "/signup", email, password, &pu); err != nil {
		return model.User{}, err
	}
	id, err := r.users.CreateMirror(ctx, pu.ID, pu.Email, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return model.User{ID: id, Email: pu.Email, ProviderID: pu.ID, Role: model.RoleUser}, nil
}

// Verify exchanges the credentials with the provider and resolves the
// local mirror row, creating it on first sight (a user registered
// directly with the provider is still a valid identity here).
func (r *Remote) Verify(ctx context.Context, email, password string) (model.User, error) {
	var body struct {
		User providerUser `json:"user"`
	}
	if err := r.post(ctx, "/token?grant_type=password", email, password, &body); err != nil {
		return model.User{}, err
	}
	u, err := r.users.GetByProviderID(ctx, body.User.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}
	id, err := r.users.CreateMirror(ctx, body.User.ID, body.User.Email, model.RoleUser)
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Email: body.User.Email, ProviderID: body.User.ID, Role: model.RoleUser}, nil
}

// post sends credentials to a provider endpoint and decodes the success
// body into out.  Error responses are classified by error_code; anything
// the provider did not classify, plus transport failures and 5xx, is
// ErrUpstream.
func (r *Remote) post(ctx context.Context, path, email, password string, out any) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: provider returned %d", ErrUpstream, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var pe providerError
		_ = json.NewDecoder(resp.Body).Decode(&pe)
		switch pe.ErrorCode {
		case "user_already_exists", "email_exists":
			return ErrEmailExists
		case "weak_password":
			return ErrWeakPassword
		case "invalid_credentials", "invalid_grant":
			return ErrInvalidCredentials
		}
		// Credential endpoints only reject for credential reasons; an
		// unclassified 4xx from /token is still a failed login.
		if strings.Contains(path, "/token") {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("%w: provider returned %d (%s)", ErrUpstream, resp.StatusCode, pe.ErrorCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return nil
}
