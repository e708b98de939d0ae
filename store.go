package stakelight

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides CRUD operations for blog posts
// and uploaded images. It is a dumb persistence layer: authorization is
// enforced by the publication pipeline, never here. A single Store is
// constructed at process start and shared by reference; the database's own
// locking makes it safe for concurrent requests.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of failing with SQLITE_BUSY. synchronous=NORMAL is safe with
	// WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    read_time TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',,',
    header_image TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 0,
    featured INTEGER NOT NULL DEFAULT 0,
    newest INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `slug, title, excerpt, content, author, date, read_time, tags, header_image, published, featured, newest`

func scanPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	var tags string
	var published, featured, newest int
	err := row.Scan(&p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Author, &p.Date,
		&p.ReadTime, &tags, &p.HeaderImage, &published, &featured, &newest)
	if err != nil {
		return BlogPost{}, err
	}
	p.Tags = ParseTags(tags)
	p.Link = "/blog/" + p.Slug
	p.Published = published == 1
	p.Featured = featured == 1
	p.Newest = newest == 1
	return p, nil
}

// GetBySlug returns a post in any state. Absence is a normal outcome and is
// reported as (nil, nil), not as an error.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

// GetPublished returns a post only if it is published. Absence (including a
// draft with the given slug) is (nil, nil).
func (s *Store) GetPublished(ctx context.Context, slug string) (*BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get published post: %w", err)
	}
	return &p, nil
}

// SlugExists reports whether any post (draft or published) holds the slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM posts WHERE slug = ?`, slug).Scan(&n); err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return n > 0, nil
}

func (s *Store) listPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPublished returns only published posts ordered by date descending.
// Drafts are never included; this is the visibility boundary every public
// projection relies on.
func (s *Store) ListPublished(ctx context.Context) ([]BlogPost, error) {
	posts, err := s.listPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	return posts, nil
}

// ListPublishedByTag returns published posts carrying the given tag.
func (s *Store) ListPublishedByTag(ctx context.Context, tag string) ([]BlogPost, error) {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	posts, err := s.listPosts(ctx,
		`SELECT `+postColumns+` FROM posts WHERE published = 1 AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC`,
		normalized)
	if err != nil {
		return nil, fmt.Errorf("list published by tag: %w", err)
	}
	return posts, nil
}

// ListAll returns every post, drafts included, ordered by date descending.
// Admin-only callers.
func (s *Store) ListAll(ctx context.Context) ([]BlogPost, error) {
	posts, err := s.listPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return posts, nil
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tags FROM posts WHERE published = 1`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

func encodeTags(tags []string) string {
	normalized := make([]string, len(tags))
	for i, t := range tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return "," + strings.Join(normalized, ",") + ","
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create inserts a new post. The slug must not already exist.
func (s *Store) Create(ctx context.Context, p BlogPost) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Excerpt, p.Content, p.Author, p.Date, p.ReadTime,
		encodeTags(p.Tags), p.HeaderImage, boolToInt(p.Published), boolToInt(p.Featured), boolToInt(p.Newest))
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update overwrites an existing post row. Returns ErrNotFound when the slug
// does not exist.
func (s *Store) Update(ctx context.Context, p BlogPost) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, excerpt = ?, content = ?, author = ?, date = ?, read_time = ?, tags = ?, header_image = ?, published = ?, featured = ?, newest = ? WHERE slug = ?`,
		p.Title, p.Excerpt, p.Content, p.Author, p.Date, p.ReadTime,
		encodeTags(p.Tags), p.HeaderImage, boolToInt(p.Published), boolToInt(p.Featured), boolToInt(p.Newest), p.Slug)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post permanently. Deleting an absent slug is a no-op.
func (s *Store) Delete(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// SaveImage upserts image metadata.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// ListImages returns all uploaded images, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
