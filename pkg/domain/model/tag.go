package model

import "time"

// Tag statuses.
const (
	TagStatusEnabled  = "enabled"
	TagStatusDisabled = "disabled"
)

// IsValidTagStatus reports whether s belongs to the tag status set.
func IsValidTagStatus(s string) bool {
	return s == TagStatusEnabled || s == TagStatusDisabled
}

// Tag is the article tag domain model.
type Tag struct {
	ID           uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	Slug         string
	Color        string
	Status       string
	ArticleCount int
}

// CreateTagRequest is the POST /tags body.
type CreateTagRequest struct {
	Name   string `json:"name" binding:"required"`
	Slug   string `json:"slug" binding:"required"`
	Color  string `json:"color"`
	Status string `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// UpdateTagRequest is the PUT /tags/:id body.
type UpdateTagRequest struct {
	Name   *string `json:"name"`
	Slug   *string `json:"slug"`
	Color  *string `json:"color"`
	Status *string `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// ListTagsOptions are the GET /tags query parameters.
type ListTagsOptions struct {
	PageQuery
	Keyword   string `form:"keyword"`
	Status    string `form:"status"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// TagResponse is the tag API shape.
type TagResponse struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Color        string    `json:"color"`
	Status       string    `json:"status"`
	ArticleCount int       `json:"article_count"`
}

// TagStats is the GET /tags/stats payload.
type TagStats struct {
	Total    int64 `json:"total"`
	Enabled  int64 `json:"enabled"`
	Disabled int64 `json:"disabled"`
}
