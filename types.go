package stakelight

// BlogPost is the core content type stored in SQLite and rendered by templates.
// Slug doubles as the post id and is immutable once published.
type BlogPost struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Date        string   `json:"date"`
	ReadTime    string   `json:"readTime"`
	Tags        []string `json:"tags"`
	HeaderImage string   `json:"headerImage,omitempty"`
	Published   bool     `json:"published"`
	Featured    bool     `json:"featured"`
	Newest      bool     `json:"newest"`
	Link        string   `json:"link"`
}

// DraftInput carries the author-supplied fields for a new draft.
// Slug, date, read time and published state are derived by the pipeline.
type DraftInput struct {
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	HeaderImage string   `json:"headerImage"`
	Featured    bool     `json:"featured"`
	Newest      bool     `json:"newest"`
}

// PostPatch is a partial update. Nil fields are left untouched, so editing a
// post never changes its visibility unless Published is set explicitly.
type PostPatch struct {
	Title       *string   `json:"title"`
	Excerpt     *string   `json:"excerpt"`
	Content     *string   `json:"content"`
	Author      *string   `json:"author"`
	Date        *string   `json:"date"`
	Tags        *[]string `json:"tags"`
	HeaderImage *string   `json:"headerImage"`
	Featured    *bool     `json:"featured"`
	Newest      *bool     `json:"newest"`
	Published   *bool     `json:"published"`
}

// Role is the authorization level resolved from the identity provider.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// ParseRole normalizes a provider-supplied role string. Anything that is not
// explicitly "admin" is treated as a standard user.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleStandard
}

// Identity is the normalized external identity resolved from an access token.
// It contains facts only; authorization decisions live in AdminGate.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
}

// Image is an uploaded header image asset.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}
