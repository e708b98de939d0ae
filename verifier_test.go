package stakelight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmptyTokenFailsFast(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	v := NewProviderClient(srv.URL, time.Second)
	for _, token := range []string{"", "   ", "\t\n"} {
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrMissingToken)
	}
	assert.Zero(t, hits, "empty tokens must not reach the provider")
}

func TestVerifyValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "tok-123", body["accessToken"])

		json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user": map[string]string{
				"id":    "u1",
				"email": "ops@example.com",
				"role":  "admin",
			},
		})
	}))
	defer srv.Close()

	v := NewProviderClient(srv.URL, time.Second)
	identity, err := v.Verify(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "ops@example.com", identity.Email)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestVerifyUnknownRoleIsStandard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user":          map[string]string{"id": "u2", "email": "x@example.com", "role": "superuser"},
		})
	}))
	defer srv.Close()

	v := NewProviderClient(srv.URL, time.Second)
	identity, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, RoleStandard, identity.Role)
}

func TestVerifyRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"authenticated": false,
			"error":         "token expired",
		})
	}))
	defer srv.Close()

	v := NewProviderClient(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "token expired")
}

func TestVerifyProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewProviderClient(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	v := NewProviderClient(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestVerifyAuthenticatedWithoutUserRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"authenticated": true})
	}))
	defer srv.Close()

	v := NewProviderClient(srv.URL, time.Second)
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
