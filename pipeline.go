package stakelight

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Publisher orchestrates the post lifecycle: draft -> published -> draft,
// with edits allowed in either state and deletion always allowed. Every
// mutation authorizes through the AdminGate before touching the store, and
// invalidates the listing cache afterwards.
type Publisher struct {
	gate  *AdminGate
	store *Store
	cache *PostCache // optional
	now   func() time.Time
}

// NewPublisher creates a Publisher. cache may be nil.
func NewPublisher(gate *AdminGate, store *Store, cache *PostCache) *Publisher {
	return &Publisher{gate: gate, store: store, cache: cache, now: time.Now}
}

func (p *Publisher) invalidate() {
	if p.cache != nil {
		p.cache.Invalidate()
	}
}

// CreateDraft validates the input, derives a unique slug and read time, and
// persists a new unpublished post stamped with the current time.
func (p *Publisher) CreateDraft(ctx context.Context, token string, in DraftInput) (BlogPost, error) {
	if _, err := p.gate.Authorize(ctx, token); err != nil {
		return BlogPost{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return BlogPost{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	base := Slugify(title)
	if base == "" {
		return BlogPost{}, &ValidationError{Field: "title", Reason: "does not produce a usable slug"}
	}
	slug, err := p.uniqueSlug(ctx, base)
	if err != nil {
		return BlogPost{}, err
	}

	post := BlogPost{
		Slug:        slug,
		Title:       title,
		Excerpt:     strings.TrimSpace(in.Excerpt),
		Content:     in.Content,
		Author:      strings.TrimSpace(in.Author),
		Date:        p.now().UTC().Format(time.RFC3339),
		ReadTime:    EstimateReadTime(in.Content),
		Tags:        FilterEmpty(in.Tags),
		HeaderImage: strings.TrimSpace(in.HeaderImage),
		Published:   false,
		Featured:    in.Featured,
		Newest:      in.Newest,
		Link:        "/blog/" + slug,
	}
	if err := p.store.Create(ctx, post); err != nil {
		return BlogPost{}, err
	}
	p.invalidate()
	return post, nil
}

// uniqueSlug appends a counter until the slug is free: hello-world,
// hello-world-2, hello-world-3, ...
func (p *Publisher) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for counter := 2; ; counter++ {
		exists, err := p.store.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// Update merges patch into an existing post. The read time is re-derived
// when content changes. Visibility only changes when the patch sets
// Published explicitly; publishing through a patch is validated the same
// way Publish is.
func (p *Publisher) Update(ctx context.Context, token, slug string, patch PostPatch) (BlogPost, error) {
	if _, err := p.gate.Authorize(ctx, token); err != nil {
		return BlogPost{}, err
	}

	post, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return BlogPost{}, err
	}
	if post == nil {
		return BlogPost{}, ErrNotFound
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return BlogPost{}, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		post.Title = title
	}
	if patch.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*patch.Excerpt)
	}
	if patch.Content != nil {
		post.Content = *patch.Content
		post.ReadTime = EstimateReadTime(post.Content)
	}
	if patch.Author != nil {
		post.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.Date != nil {
		if _, err := ParsePostDate(*patch.Date); err != nil {
			return BlogPost{}, &ValidationError{Field: "date", Reason: err.Error()}
		}
		post.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.Tags != nil {
		post.Tags = FilterEmpty(*patch.Tags)
	}
	if patch.HeaderImage != nil {
		post.HeaderImage = strings.TrimSpace(*patch.HeaderImage)
	}
	if patch.Featured != nil {
		post.Featured = *patch.Featured
	}
	if patch.Newest != nil {
		post.Newest = *patch.Newest
	}
	if patch.Published != nil {
		if *patch.Published && !post.Published {
			if err := validatePublishable(post); err != nil {
				return BlogPost{}, err
			}
		}
		post.Published = *patch.Published
	}

	if err := p.store.Update(ctx, *post); err != nil {
		return BlogPost{}, err
	}
	p.invalidate()
	return *post, nil
}

// Publish makes a post publicly visible. Publishing an already-published
// post is a no-op success.
func (p *Publisher) Publish(ctx context.Context, token, slug string) (BlogPost, error) {
	if _, err := p.gate.Authorize(ctx, token); err != nil {
		return BlogPost{}, err
	}

	post, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return BlogPost{}, err
	}
	if post == nil {
		return BlogPost{}, ErrNotFound
	}
	if post.Published {
		return *post, nil
	}
	if err := validatePublishable(post); err != nil {
		return BlogPost{}, err
	}

	post.Published = true
	if err := p.store.Update(ctx, *post); err != nil {
		return BlogPost{}, err
	}
	p.invalidate()
	return *post, nil
}

// Unpublish returns a post to draft state. Unpublishing a draft is a no-op
// success.
func (p *Publisher) Unpublish(ctx context.Context, token, slug string) (BlogPost, error) {
	if _, err := p.gate.Authorize(ctx, token); err != nil {
		return BlogPost{}, err
	}

	post, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return BlogPost{}, err
	}
	if post == nil {
		return BlogPost{}, ErrNotFound
	}
	if !post.Published {
		return *post, nil
	}

	post.Published = false
	if err := p.store.Update(ctx, *post); err != nil {
		return BlogPost{}, err
	}
	p.invalidate()
	return *post, nil
}

// Delete removes a post permanently, in any state.
func (p *Publisher) Delete(ctx context.Context, token, slug string) error {
	if _, err := p.gate.Authorize(ctx, token); err != nil {
		return err
	}

	post, err := p.store.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if err := p.store.Delete(ctx, slug); err != nil {
		return err
	}
	p.invalidate()
	return nil
}

// validatePublishable enforces the invariants of the published state:
// non-empty title and content, parseable date.
func validatePublishable(post *BlogPost) error {
	if strings.TrimSpace(post.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty to publish"}
	}
	if strings.TrimSpace(post.Content) == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty to publish"}
	}
	if _, err := ParsePostDate(post.Date); err != nil {
		return &ValidationError{Field: "date", Reason: err.Error()}
	}
	return nil
}
