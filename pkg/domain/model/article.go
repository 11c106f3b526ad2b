package model

import "time"

// Article statuses. The set is closed; PATCH status rejects anything else.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusOffline   = "offline"
)

// IsValidArticleStatus reports whether s belongs to the article status set.
func IsValidArticleStatus(s string) bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusOffline:
		return true
	}
	return false
}

// Article is the core article domain model.
type Article struct {
	ID           uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Title        string
	Slug         string
	Summary      string
	ContentMD    string
	ContentHTML  string
	CoverURL     string
	CategoryID   uint
	CategoryName string
	AuthorID     uint
	AuthorName   string
	Tags         []string
	Status       string
	IsTop        bool
	IsFeatured   bool
	ViewCount    int
	WordCount    int
	// ScheduledAt triggers the cron publisher once it passes while the
	// article is still a draft.
	ScheduledAt *time.Time
	PublishedAt *time.Time
}

// CreateArticleRequest is the POST /articles body.
type CreateArticleRequest struct {
	Title       string     `json:"title" binding:"required"`
	Slug        string     `json:"slug" binding:"required"`
	Summary     string     `json:"summary"`
	ContentMD   string     `json:"content_md"`
	CoverURL    string     `json:"cover_url"`
	CategoryID  uint       `json:"category_id"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status" binding:"omitempty,oneof=draft published offline"`
	IsTop       bool       `json:"is_top"`
	IsFeatured  bool       `json:"is_featured"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// UpdateArticleRequest is the PUT /articles/:id body. Nil fields are left
// untouched.
type UpdateArticleRequest struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Summary     *string    `json:"summary"`
	ContentMD   *string    `json:"content_md"`
	CoverURL    *string    `json:"cover_url"`
	CategoryID  *uint      `json:"category_id"`
	Tags        []string   `json:"tags"`
	Status      *string    `json:"status" binding:"omitempty,oneof=draft published offline"`
	IsTop       *bool      `json:"is_top"`
	IsFeatured  *bool      `json:"is_featured"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// ListArticlesOptions are the GET /articles query parameters. Zero-valued
// optional filters are omitted from the SQL query.
type ListArticlesOptions struct {
	PageQuery
	Keyword    string     `form:"keyword"`
	CategoryID uint       `form:"categoryId"`
	Tag        string     `form:"tag"`
	Status     string     `form:"status"`
	DateFrom   *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"dateTo" time_format:"2006-01-02"`
	SortBy     string     `form:"sortBy"`
	SortOrder  string     `form:"sortOrder"`
}

// ArticleResponse is the article API shape.
type ArticleResponse struct {
	ID           uint       `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Summary      string     `json:"summary"`
	ContentMD    string     `json:"content_md,omitempty"`
	ContentHTML  string     `json:"content_html,omitempty"`
	CoverURL     string     `json:"cover_url"`
	CategoryID   uint       `json:"category_id"`
	CategoryName string     `json:"category_name"`
	AuthorID     uint       `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	Tags         []string   `json:"tags"`
	Status       string     `json:"status"`
	IsTop        bool       `json:"is_top"`
	IsFeatured   bool       `json:"is_featured"`
	ViewCount    int        `json:"view_count"`
	WordCount    int        `json:"word_count"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// ArticleStats is the GET /articles/stats payload.
type ArticleStats struct {
	Total      int64 `json:"total"`
	Draft      int64 `json:"draft"`
	Published  int64 `json:"published"`
	Offline    int64 `json:"offline"`
	TotalViews int64 `json:"total_views"`
}
