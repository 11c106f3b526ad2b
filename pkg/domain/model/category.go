package model

import "time"

// Category statuses.
const (
	CategoryStatusEnabled  = "enabled"
	CategoryStatusDisabled = "disabled"
)

// IsValidCategoryStatus reports whether s belongs to the category status set.
func IsValidCategoryStatus(s string) bool {
	return s == CategoryStatusEnabled || s == CategoryStatusDisabled
}

// Category is the article category domain model. ArticleCount is a
// denormalized counter maintained on article writes and accepted as
// occasionally stale.
type Category struct {
	ID           uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	Slug         string
	Description  string
	Status       string
	Sort         int
	ArticleCount int
}

// CreateCategoryRequest is the POST /categories body.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=enabled disabled"`
	Sort        int    `json:"sort"`
}

// UpdateCategoryRequest is the PUT /categories/:id body.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=enabled disabled"`
	Sort        *int    `json:"sort"`
}

// ListCategoriesOptions are the GET /categories query parameters.
type ListCategoriesOptions struct {
	PageQuery
	Keyword   string `form:"keyword"`
	Status    string `form:"status"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// CategoryResponse is the category API shape.
type CategoryResponse struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Sort         int       `json:"sort"`
	ArticleCount int       `json:"article_count"`
}

// CategoryStats is the GET /categories/stats payload.
type CategoryStats struct {
	Total    int64 `json:"total"`
	Enabled  int64 `json:"enabled"`
	Disabled int64 `json:"disabled"`
}
