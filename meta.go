package stakelight

import "context"

// DefaultMeta is the generic fallback metadata record: used for static pages
// and whenever a post cannot be loaded. Rendering a not-found page with
// default metadata beats failing the whole response.
func DefaultMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL),
		OGType:      "website",
	}
}

// MetaForPost projects a post into page metadata. A nil post yields the
// generic default; any individually empty field falls back to the site-wide
// value for that field only.
func MetaForPost(cfg SiteConfig, post *BlogPost) PageMeta {
	meta := DefaultMeta(cfg)
	if post == nil {
		return meta
	}
	meta.OGType = "article"
	meta.URL = BuildURL(cfg.URL, "blog", post.Slug)
	if post.Title != "" {
		meta.Title = post.Title + " | " + cfg.Name
	}
	if post.Excerpt != "" {
		meta.Description = post.Excerpt
	}
	if post.HeaderImage != "" {
		meta.Image = post.HeaderImage
	}
	return meta
}

// MetaForSlug looks up a published post and projects its metadata. Absence
// and store failures both degrade to the generic default; this path never
// returns an error.
func (a *App) MetaForSlug(ctx context.Context, slug string) PageMeta {
	post, err := a.Store.GetPublished(ctx, slug)
	if err != nil {
		a.Echo.Logger.Warnf("meta: falling back to defaults for %q: %v", slug, err)
		return DefaultMeta(a.Config)
	}
	return MetaForPost(a.Config, post)
}
