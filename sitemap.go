package stakelight

import (
	"context"
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// staticPages are the fixed marketing pages of the validator site. They go
// into the sitemap regardless of store availability.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"", "weekly", "1.0"},
	{"infrastructure", "monthly", "0.7"},
	{"validators", "weekly", "0.7"},
	{"team", "monthly", "0.5"},
	{"contact", "yearly", "0.5"},
}

// sitemapEntries unions the static page set with one entry per published
// post. A post with an unparseable date is skipped with a warning instead of
// aborting generation; a store failure degrades to the static set only.
func (a *App) sitemapEntries(ctx context.Context) []sitemapURL {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(staticPages))
	for _, sp := range staticPages {
		loc := BuildURL(base)
		if sp.path != "" {
			loc = BuildURL(base, sp.path)
		}
		urls = append(urls, sitemapURL{Loc: loc, ChangeFreq: sp.changeFreq, Priority: sp.priority})
	}

	posts, err := a.Store.ListPublished(ctx)
	if err != nil {
		a.Echo.Logger.Warnf("sitemap: store unavailable, serving static entries only: %v", err)
		return urls
	}
	for _, p := range posts {
		t, err := ParsePostDate(p.Date)
		if err != nil {
			a.Echo.Logger.Warnf("sitemap: skipping post %q: %v", p.Slug, err)
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base, "blog", p.Slug),
			LastMod:    t.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  a.sitemapEntries(c.Request().Context()),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
