package main

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/stakelight/stakelight"
	"github.com/stakelight/stakelight/markdown"
)

// siteViews wires minimal HTML templates into the engine. Styling and layout
// live in /public assets; these components only produce structure.
func siteViews() stakelight.ViewFuncs {
	return stakelight.ViewFuncs{
		Home:           homeView,
		Post:           postView,
		AdminLogin:     adminLoginView,
		AdminDashboard: adminDashboardView,
		AdminForm:      adminFormView,
		AdminImages:    adminImagesView,
		NotFound:       notFoundView,
		ServerError:    serverErrorView,
	}
}

func page(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/public/site.css"></head><body>`,
			html.EscapeString(title)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func homeView(cfg stakelight.SiteConfig, posts []stakelight.BlogPost, activeTag string, tags []string) templ.Component {
	return page(cfg.Name, func(w io.Writer) error {
		fmt.Fprintf(w, `<header><h1>%s</h1><p>%s</p></header><main>`,
			html.EscapeString(cfg.Name), html.EscapeString(cfg.Description))
		if activeTag != "" {
			fmt.Fprintf(w, `<p>Posts tagged <strong>%s</strong> — <a href="/">all posts</a></p>`, html.EscapeString(activeTag))
		}
		io.WriteString(w, `<ul class="posts">`)
		for _, p := range posts {
			fmt.Fprintf(w, `<li><a href="%s">%s</a> <time>%s</time> <span>%s</span></li>`,
				p.Link, html.EscapeString(p.Title), html.EscapeString(p.Date), html.EscapeString(p.ReadTime))
		}
		io.WriteString(w, `</ul><nav class="tags">`)
		for _, t := range tags {
			fmt.Fprintf(w, `<a href="/?tag=%s">%s</a> `, html.EscapeString(t), html.EscapeString(t))
		}
		_, err := io.WriteString(w, `</nav></main>`)
		return err
	})
}

func postView(cfg stakelight.SiteConfig, post stakelight.BlogPost, meta stakelight.PageMeta, related []stakelight.BlogPost) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title><meta name="description" content="%s"><meta property="og:title" content="%s"><meta property="og:type" content="%s"><meta property="og:url" content="%s">`,
			html.EscapeString(meta.Title), html.EscapeString(meta.Description),
			html.EscapeString(meta.Title), html.EscapeString(meta.OGType), html.EscapeString(meta.URL))
		if meta.Image != "" {
			fmt.Fprintf(w, `<meta property="og:image" content="%s">`, html.EscapeString(meta.Image))
		}
		fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, stakelight.BlogPostingJsonLD(post, cfg))
		fmt.Fprintf(w, `</head><body><article><h1>%s</h1><p class="byline">%s · %s · %s</p>`,
			html.EscapeString(post.Title), html.EscapeString(post.Author),
			html.EscapeString(post.Date), html.EscapeString(post.ReadTime))
		if err := markdown.Markdown(post.Content).Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</article>`)
		if len(related) > 0 {
			io.WriteString(w, `<aside><h2>Related</h2><ul>`)
			for _, r := range related {
				fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, r.Link, html.EscapeString(r.Title))
			}
			io.WriteString(w, `</ul></aside>`)
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func adminLoginView(cfg stakelight.SiteConfig, showError bool, csrfToken string) templ.Component {
	return page(cfg.Name+" admin", func(w io.Writer) error {
		io.WriteString(w, `<main><h1>Admin</h1>`)
		if showError {
			io.WriteString(w, `<p class="error">Access denied.</p>`)
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value="%s"><label>Access token <input type="password" name="token" autocomplete="off"></label><button>Sign in</button></form></main>`,
			html.EscapeString(csrfToken))
		return err
	})
}

func adminDashboardView(cfg stakelight.SiteConfig, posts []stakelight.BlogPost, identity stakelight.Identity, message, csrfToken string) templ.Component {
	return page(cfg.Name+" admin", func(w io.Writer) error {
		fmt.Fprintf(w, `<main><h1>Posts</h1><p>Signed in as %s</p>`, html.EscapeString(identity.Email))
		if message != "" {
			fmt.Fprintf(w, `<p class="msg">%s</p>`, html.EscapeString(message))
		}
		io.WriteString(w, `<table>`)
		for _, p := range posts {
			state := "draft"
			if p.Published {
				state = "published"
			}
			fmt.Fprintf(w, `<tr><td><a href="/admin/post/%s/">%s</a></td><td>%s</td><td>%s</td></tr>`,
				p.Slug, html.EscapeString(p.Title), html.EscapeString(p.Date), state)
		}
		_, err := fmt.Fprintf(w,
			`</table><form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="%s"><button>Sign out</button></form></main>`,
			html.EscapeString(csrfToken))
		return err
	})
}

func adminFormView(post stakelight.BlogPost, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<form class="post-form" data-slug="%s"><input type="hidden" name="_csrf" value="%s"><input name="title" value="%s"><textarea name="content">%s</textarea></form>`,
			post.Slug, html.EscapeString(csrfToken), html.EscapeString(post.Title), html.EscapeString(post.Content))
		return err
	})
}

func adminImagesView(images []stakelight.Image, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<ul class="images" data-csrf="%s">`, html.EscapeString(csrfToken))
		for _, img := range images {
			fmt.Fprintf(w, `<li><img src="/public/uploads/%s" alt="%s"> %dx%d</li>`,
				img.Filename, html.EscapeString(img.OriginalName), img.Width, img.Height)
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}

func notFoundView(cfg stakelight.SiteConfig) templ.Component {
	return page("Not found | "+cfg.Name, func(w io.Writer) error {
		_, err := io.WriteString(w, `<main><h1>404</h1><p>This page does not exist.</p><a href="/">Back to the blog</a></main>`)
		return err
	})
}

func serverErrorView(cfg stakelight.SiteConfig) templ.Component {
	return page("Error | "+cfg.Name, func(w io.Writer) error {
		_, err := io.WriteString(w, `<main><h1>Something went wrong</h1><p>Please try again shortly.</p></main>`)
		return err
	})
}
