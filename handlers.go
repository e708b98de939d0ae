package stakelight

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(ctx, tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.Config, posts, tag, tags))
}

// handlePost serves a single published post. This route deliberately skips
// the post cache and hits the store on every request so publish/unpublish
// take effect immediately.
func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	post, err := a.Store.GetPublished(ctx, slug)
	if err != nil {
		return err
	}
	if post == nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
	}
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		// Related-post sidebar is best effort; the post itself renders.
		c.Logger().Warnf("post %q: listing unavailable: %v", slug, err)
		posts = nil
	}
	meta := MetaForPost(a.Config, post)
	return Render(c, a.Views.Post(a.Config, *post, meta, FilterRelatedPosts(*post, posts)))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// handleRobots publishes the crawl policy: API, admin and upload asset paths
// are off limits, and the sitemap location is advertised.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf(
		"User-agent: *\nAllow: /\nDisallow: /api/\nDisallow: /admin/\nDisallow: /public/uploads/\n\nSitemap: %s/sitemap.xml\n",
		a.Config.URL)
	return c.String(http.StatusOK, body)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
