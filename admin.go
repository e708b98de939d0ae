package stakelight

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// tokenFromRequest extracts the opaque access token: Authorization header
// first (JSON API), admin session second (dashboard). Tokens are never read
// from URLs.
func tokenFromRequest(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return sessionToken(c)
}

// httpStatusFor maps the error taxonomy onto the admin API's status codes.
// Unknown errors are treated as a store failure: retryable 503.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func apiError(c echo.Context, err error) error {
	status := httpStatusFor(err)
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		// Do not leak store internals to API clients.
		c.Logger().Errorf("admin api: %v", err)
		msg = ErrStoreUnavailable.Error()
	}
	return c.JSON(status, map[string]string{"error": msg})
}

// --- Token verification endpoint ---

type verifyRequest struct {
	AccessToken string `json:"accessToken"`
}

type verifyResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *Identity `json:"user,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// handleVerifyToken resolves an access token to a user. 400 when the token
// is missing, 401 when the provider rejects it, 500 when verification itself
// fails — distinct codes so clients know whether a retry can help.
func (a *App) handleVerifyToken(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, verifyResponse{Error: "too many attempts"})
	}

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, verifyResponse{Error: "malformed request body"})
	}

	identity, err := a.Verifier.Verify(c.Request().Context(), req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingToken):
			return c.JSON(http.StatusBadRequest, verifyResponse{Error: ErrMissingToken.Error()})
		case errors.Is(err, ErrUnauthenticated):
			a.loginLimiter.Record(c.RealIP())
			return c.JSON(http.StatusUnauthorized, verifyResponse{Error: err.Error()})
		default:
			c.Logger().Errorf("verify token: %v", err)
			return c.JSON(http.StatusInternalServerError, verifyResponse{Error: "verification failed"})
		}
	}
	return c.JSON(http.StatusOK, verifyResponse{Authenticated: true, User: &identity})
}

// --- Admin dashboard (session-backed HTML) ---

func (a *App) handleAdmin(c echo.Context) error {
	token := sessionToken(c)
	if token == "" {
		return Render(c, a.Views.AdminLogin(a.Config, false, CsrfToken(c)))
	}
	identity, err := a.Gate.Authorize(c.Request().Context(), token)
	if err != nil {
		// Stale or revoked session token: back to the login form.
		_ = clearSession(c)
		return Render(c, a.Views.AdminLogin(a.Config, false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, identity, c.QueryParam("msg"))
}

// handleAdminLogin exchanges a pasted access token for an admin session.
// The session stores the token only; every subsequent admin request
// re-verifies it against the identity provider. Denials are generic: the
// form never reveals whether the identity exists or merely lacks the role.
func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	token := strings.TrimSpace(c.FormValue("token"))
	if _, err := a.Gate.Authorize(c.Request().Context(), token); err != nil {
		a.loginLimiter.Record(c.RealIP())
		return Render(c, a.Views.AdminLogin(a.Config, true, CsrfToken(c)))
	}
	if err := setSessionToken(c, token); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminForm(c echo.Context) error {
	if _, err := a.Gate.Authorize(c.Request().Context(), tokenFromRequest(c)); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	post, err := a.Store.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	if post == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return Render(c, a.Views.AdminForm(*post, CsrfToken(c)))
}

func (a *App) renderAdminDashboard(c echo.Context, identity Identity, msg string) error {
	posts, err := a.Store.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.Config, posts, identity, msg, CsrfToken(c)))
}

// --- Admin JSON API (Bearer token) ---

func (a *App) handleCreateDraft(c echo.Context) error {
	var in DraftInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	post, err := a.Publisher.CreateDraft(c.Request().Context(), tokenFromRequest(c), in)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	var patch PostPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	post, err := a.Publisher.Update(c.Request().Context(), tokenFromRequest(c), c.Param("slug"), patch)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handlePublishPost(c echo.Context) error {
	post, err := a.Publisher.Publish(c.Request().Context(), tokenFromRequest(c), c.Param("slug"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleUnpublishPost(c echo.Context) error {
	post, err := a.Publisher.Unpublish(c.Request().Context(), tokenFromRequest(c), c.Param("slug"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleDeletePost(c echo.Context) error {
	if err := a.Publisher.Delete(c.Request().Context(), tokenFromRequest(c), c.Param("slug")); err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
