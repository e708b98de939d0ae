package stakelight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenVerifier resolves an opaque access token to an Identity. The token's
// format and session semantics belong to the identity provider; this side
// only ever sees verify-or-reject.
//
// Verify is pure and idempotent: no result caching in either direction, so a
// revoked token fails on the very next call.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// ProviderClient verifies tokens against the identity provider's HTTP
// verify endpoint. It posts {"accessToken": token} and expects
// {"authenticated": bool, "user": {id,email,role}, "error": string}.
type ProviderClient struct {
	verifyURL string
	client    *http.Client
}

// NewProviderClient creates a ProviderClient for the given verify URL.
func NewProviderClient(verifyURL string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

type providerResponse struct {
	Authenticated bool `json:"authenticated"`
	User          struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	Error string `json:"error"`
}

// Verify resolves token to an Identity.
//
// An empty token fails fast with ErrMissingToken before any network call.
// A provider rejection maps to ErrUnauthenticated carrying the provider's
// message; a transport failure or provider 5xx maps to ErrProviderUnavailable.
func (p *ProviderClient) Verify(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrMissingToken
	}

	body, err := json.Marshal(map[string]string{"accessToken": token})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: encode request: %v", ErrProviderUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.verifyURL, bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: build request: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Identity{}, fmt.Errorf("%w: provider returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var pr providerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&pr); err != nil {
		return Identity{}, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode == http.StatusOK && pr.Authenticated && pr.User.ID != "" {
		return Identity{
			ID:    pr.User.ID,
			Email: pr.User.Email,
			Role:  ParseRole(pr.User.Role),
		}, nil
	}

	// Provider explicitly rejected the token (expired, invalid, revoked).
	if pr.Error != "" {
		return Identity{}, fmt.Errorf("%w: %s", ErrUnauthenticated, pr.Error)
	}
	return Identity{}, ErrUnauthenticated
}
