package stakelight

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifyApp(v TokenVerifier) *App {
	a := New(SiteConfig{Name: "Stakelight", URL: "https://stakelight.example"}, ViewFuncs{})
	a.Verifier = v
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	return a
}

func postVerify(t *testing.T, a *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	require.NoError(t, a.handleVerifyToken(c))
	return rec
}

func decodeVerify(t *testing.T, rec *httptest.ResponseRecorder) verifyResponse {
	t.Helper()
	var resp verifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestVerifyEndpointValidToken(t *testing.T) {
	a := newVerifyApp(adminVerifier())

	rec := postVerify(t, a, `{"accessToken":"tok-123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeVerify(t, rec)
	assert.True(t, resp.Authenticated)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, RoleAdmin, resp.User.Role)
	assert.Empty(t, resp.Error)
}

func TestVerifyEndpointMissingToken(t *testing.T) {
	a := newVerifyApp(adminVerifier())

	for _, body := range []string{`{}`, `{"accessToken":""}`, `{"accessToken":"   "}`} {
		rec := postVerify(t, a, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		resp := decodeVerify(t, rec)
		assert.False(t, resp.Authenticated)
		assert.NotEmpty(t, resp.Error)
		assert.Nil(t, resp.User)
	}
}

func TestVerifyEndpointRejectedToken(t *testing.T) {
	a := newVerifyApp(&stubVerifier{err: ErrUnauthenticated})

	rec := postVerify(t, a, `{"accessToken":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeVerify(t, rec)
	assert.False(t, resp.Authenticated)
	assert.Nil(t, resp.User)
}

func TestVerifyEndpointProviderDown(t *testing.T) {
	a := newVerifyApp(&stubVerifier{err: ErrProviderUnavailable})

	rec := postVerify(t, a, `{"accessToken":"tok"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeVerify(t, rec)
	assert.False(t, resp.Authenticated)
	assert.Equal(t, "verification failed", resp.Error, "provider internals must not leak")
}

func TestVerifyEndpointRateLimitsFailures(t *testing.T) {
	a := newVerifyApp(&stubVerifier{err: ErrUnauthenticated})
	a.loginLimiter = NewLoginLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		rec := postVerify(t, a, `{"accessToken":"bad"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := postVerify(t, a, `{"accessToken":"bad"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHTTPStatusForTaxonomy(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrMissingToken, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{&ValidationError{Field: "title", Reason: "empty"}, http.StatusUnprocessableEntity},
		{ErrProviderUnavailable, http.StatusBadGateway},
		{ErrStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		if got := httpStatusFor(tt.err); got != tt.want {
			t.Errorf("httpStatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestTokenFromRequestPrefersBearerHeader(t *testing.T) {
	a := newVerifyApp(adminVerifier())

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	c := a.Echo.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "header-token", tokenFromRequest(c))

	req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
	c = a.Echo.NewContext(req, httptest.NewRecorder())
	assert.Empty(t, tokenFromRequest(c), "no header, no session: no token")
}
