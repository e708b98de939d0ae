package stakelight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metaTestConfig = SiteConfig{
	Name:        "Stakelight",
	Description: "Independent validator infrastructure",
	URL:         "https://stakelight.example",
}

func TestMetaForPostFullyPopulated(t *testing.T) {
	post := &BlogPost{
		Slug:        "mev-primer",
		Title:       "A MEV Primer",
		Excerpt:     "What MEV means for stakers",
		HeaderImage: "/public/uploads/mev.jpg",
	}

	meta := MetaForPost(metaTestConfig, post)
	assert.Equal(t, "A MEV Primer | Stakelight", meta.Title)
	assert.Equal(t, "What MEV means for stakers", meta.Description)
	assert.Equal(t, "https://stakelight.example/blog/mev-primer/", meta.URL)
	assert.Equal(t, "article", meta.OGType)
	assert.Equal(t, "/public/uploads/mev.jpg", meta.Image)
}

func TestMetaForPostFieldLevelFallback(t *testing.T) {
	post := &BlogPost{Slug: "untitled", Excerpt: ""}

	meta := MetaForPost(metaTestConfig, post)
	assert.Equal(t, "Stakelight", meta.Title, "empty title falls back to the site name")
	assert.Equal(t, "Independent validator infrastructure", meta.Description, "empty excerpt falls back to the site description")
	assert.Equal(t, "article", meta.OGType, "the record is still post-shaped")
	assert.Empty(t, meta.Image)
}

func TestMetaForNilPostIsDefault(t *testing.T) {
	meta := MetaForPost(metaTestConfig, nil)
	assert.Equal(t, DefaultMeta(metaTestConfig), meta)
	assert.Equal(t, "website", meta.OGType)
}

func TestMetaForSlugDegrades(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	// Unknown slug: generic metadata, no error surfaced.
	meta := a.MetaForSlug(ctx, "does-not-exist")
	assert.Equal(t, DefaultMeta(a.Config), meta)

	// Draft: not publicly projectable either.
	require.NoError(t, a.Store.Create(ctx, BlogPost{Slug: "draft", Title: "Draft", Date: "2025-01-01"}))
	meta = a.MetaForSlug(ctx, "draft")
	assert.Equal(t, DefaultMeta(a.Config), meta)

	// Dead store: same graceful fallback.
	require.NoError(t, a.Store.Close())
	meta = a.MetaForSlug(ctx, "anything")
	assert.Equal(t, DefaultMeta(a.Config), meta)
}
