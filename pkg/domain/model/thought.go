package model

import "time"

// Thought visibilities.
const (
	ThoughtStatusPublic  = "public"
	ThoughtStatusPrivate = "private"
)

// IsValidThoughtStatus reports whether s belongs to the thought status set.
func IsValidThoughtStatus(s string) bool {
	return s == ThoughtStatusPublic || s == ThoughtStatusPrivate
}

// Thought is a micro-post. Images is an ordered URL list.
type Thought struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
	Slug      string
	Content   string
	Images    []string
	Mood      string
	Location  string
	Status    string
}

// CreateThoughtRequest is the POST /thoughts body.
type CreateThoughtRequest struct {
	Slug     string   `json:"slug" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Images   []string `json:"images"`
	Mood     string   `json:"mood"`
	Location string   `json:"location"`
	Status   string   `json:"status" binding:"omitempty,oneof=public private"`
}

// UpdateThoughtRequest is the PUT /thoughts/:id body.
type UpdateThoughtRequest struct {
	Slug     *string  `json:"slug"`
	Content  *string  `json:"content"`
	Images   []string `json:"images"`
	Mood     *string  `json:"mood"`
	Location *string  `json:"location"`
	Status   *string  `json:"status" binding:"omitempty,oneof=public private"`
}

// ListThoughtsOptions are the GET /thoughts query parameters.
type ListThoughtsOptions struct {
	PageQuery
	Keyword   string     `form:"keyword"`
	Mood      string     `form:"mood"`
	Status    string     `form:"status"`
	DateFrom  *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"dateTo" time_format:"2006-01-02"`
	SortBy    string     `form:"sortBy"`
	SortOrder string     `form:"sortOrder"`
}

// ThoughtResponse is the thought API shape.
type ThoughtResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	Mood      string    `json:"mood"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
}

// ThoughtStats is the GET /thoughts/stats payload.
type ThoughtStats struct {
	Total   int64 `json:"total"`
	Public  int64 `json:"public"`
	Private int64 `json:"private"`
}
