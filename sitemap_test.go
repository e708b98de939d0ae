package stakelight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New(SiteConfig{
		Name:        "Stakelight",
		Description: "Independent validator infrastructure",
		URL:         "https://stakelight.example",
	}, ViewFuncs{})
	a.Store = setupTestStore(t)
	return a
}

func sitemapLocs(urls []sitemapURL) []string {
	locs := make([]string, 0, len(urls))
	for _, u := range urls {
		locs = append(locs, u.Loc)
	}
	return locs
}

func TestSitemapUnionsStaticAndPosts(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Store.Create(ctx, BlogPost{
		Slug: "uptime-report", Title: "Uptime Report", Date: "2025-02-10T08:00:00Z", Published: true,
	}))
	require.NoError(t, a.Store.Create(ctx, BlogPost{
		Slug: "hidden-draft", Title: "Hidden", Date: "2025-02-11", Published: false,
	}))

	urls := a.sitemapEntries(ctx)
	locs := sitemapLocs(urls)

	assert.Contains(t, locs, "https://stakelight.example")
	assert.Contains(t, locs, "https://stakelight.example/validators/")
	assert.Contains(t, locs, "https://stakelight.example/blog/uptime-report/")
	assert.NotContains(t, locs, "https://stakelight.example/blog/hidden-draft/")

	for _, u := range urls {
		if u.Loc == "https://stakelight.example/blog/uptime-report/" {
			assert.Equal(t, "2025-02-10", u.LastMod)
			assert.Equal(t, "weekly", u.ChangeFreq)
			assert.Equal(t, "0.8", u.Priority)
		}
	}
}

func TestSitemapSkipsUnparseableDates(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Store.Create(ctx, BlogPost{
		Slug: "good", Title: "Good", Date: "2025-02-10", Published: true,
	}))
	require.NoError(t, a.Store.Create(ctx, BlogPost{
		Slug: "bad-date", Title: "Bad", Date: "sometime in spring", Published: true,
	}))

	locs := sitemapLocs(a.sitemapEntries(ctx))
	assert.Contains(t, locs, "https://stakelight.example/blog/good/")
	assert.NotContains(t, locs, "https://stakelight.example/blog/bad-date/", "unparseable dates must be skipped, not fatal")
}

func TestSitemapDegradesToStaticOnStoreFailure(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Store.Close())

	urls := a.sitemapEntries(context.Background())
	require.Len(t, urls, len(staticPages), "a dead store still yields the static page set")
	assert.Equal(t, "https://stakelight.example", urls[0].Loc)
}

// Full lifecycle across the pipeline and projections: a post becomes publicly
// visible exactly while published.
func TestLifecycleVisibility(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	gate := NewAdminGate(adminVerifier())
	p := NewPublisher(gate, a.Store, nil)
	p.now = func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) }

	draft, err := p.CreateDraft(ctx, "tok", DraftInput{Title: "Launch Notes", Content: "We are live."})
	require.NoError(t, err)
	assert.NotContains(t, sitemapLocs(a.sitemapEntries(ctx)), "https://stakelight.example/blog/launch-notes/")

	_, err = p.Publish(ctx, "tok", draft.Slug)
	require.NoError(t, err)
	assert.Contains(t, sitemapLocs(a.sitemapEntries(ctx)), "https://stakelight.example/blog/launch-notes/")

	meta := a.MetaForSlug(ctx, draft.Slug)
	assert.Equal(t, "Launch Notes | Stakelight", meta.Title)

	_, err = p.Unpublish(ctx, "tok", draft.Slug)
	require.NoError(t, err)
	assert.NotContains(t, sitemapLocs(a.sitemapEntries(ctx)), "https://stakelight.example/blog/launch-notes/")

	// The draft is still reachable for its author.
	got, err := a.Store.GetBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
