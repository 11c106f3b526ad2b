package model

import "time"

// Tech stack statuses.
const (
	TechStackStatusEnabled  = "enabled"
	TechStackStatusDisabled = "disabled"
)

// IsValidTechStackStatus reports whether s belongs to the tech stack status set.
func IsValidTechStackStatus(s string) bool {
	return s == TechStackStatusEnabled || s == TechStackStatusDisabled
}

// TechStack is a technology entry shown on the about page. Highlights is an
// ordered free-form list, insertion order preserved.
type TechStack struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Slug        string
	IconURL     string
	Group       string
	Proficiency int
	Years       int
	Sort        int
	Highlights  []string
	Status      string
}

// CreateTechStackRequest is the POST /tech-stacks body.
type CreateTechStackRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	IconURL     string   `json:"icon_url"`
	Group       string   `json:"group"`
	Proficiency int      `json:"proficiency" binding:"omitempty,min=1,max=5"`
	Years       int      `json:"years"`
	Sort        int      `json:"sort"`
	Highlights  []string `json:"highlights"`
	Status      string   `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// UpdateTechStackRequest is the PUT /tech-stacks/:id body.
type UpdateTechStackRequest struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	IconURL     *string  `json:"icon_url"`
	Group       *string  `json:"group"`
	Proficiency *int     `json:"proficiency" binding:"omitempty,min=1,max=5"`
	Years       *int     `json:"years"`
	Sort        *int     `json:"sort"`
	Highlights  []string `json:"highlights"`
	Status      *string  `json:"status" binding:"omitempty,oneof=enabled disabled"`
}

// ListTechStacksOptions are the GET /tech-stacks query parameters.
type ListTechStacksOptions struct {
	PageQuery
	Keyword   string `form:"keyword"`
	Group     string `form:"group"`
	Status    string `form:"status"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// TechStackResponse is the tech stack API shape.
type TechStackResponse struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	IconURL     string    `json:"icon_url"`
	Group       string    `json:"group"`
	Proficiency int       `json:"proficiency"`
	Years       int       `json:"years"`
	Sort        int       `json:"sort"`
	Highlights  []string  `json:"highlights"`
	Status      string    `json:"status"`
}

// TechStackStats is the GET /tech-stacks/stats payload.
type TechStackStats struct {
	Total    int64 `json:"total"`
	Enabled  int64 `json:"enabled"`
	Disabled int64 `json:"disabled"`
}
