package model

import "time"

// Project statuses.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusPublished = "published"
	ProjectStatusArchived  = "archived"
)

// IsValidProjectStatus reports whether s belongs to the project status set.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPublished, ProjectStatusArchived:
		return true
	}
	return false
}

// Project is a portfolio project. TechStack and Highlights are ordered
// string collections.
type Project struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Slug        string
	Description string
	RepoURL     string
	DemoURL     string
	CoverURL    string
	TechStack   []string
	Highlights  []string
	Featured    bool
	Sort        int
	Status      string
}

// CreateProjectRequest is the POST /projects body.
type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url"`
	DemoURL     string   `json:"demo_url"`
	CoverURL    string   `json:"cover_url"`
	TechStack   []string `json:"tech_stack"`
	Highlights  []string `json:"highlights"`
	Featured    bool     `json:"featured"`
	Sort        int      `json:"sort"`
	Status      string   `json:"status" binding:"omitempty,oneof=draft published archived"`
}

// UpdateProjectRequest is the PUT /projects/:id body.
type UpdateProjectRequest struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Description *string  `json:"description"`
	RepoURL     *string  `json:"repo_url"`
	DemoURL     *string  `json:"demo_url"`
	CoverURL    *string  `json:"cover_url"`
	TechStack   []string `json:"tech_stack"`
	Highlights  []string `json:"highlights"`
	Featured    *bool    `json:"featured"`
	Sort        *int     `json:"sort"`
	Status      *string  `json:"status" binding:"omitempty,oneof=draft published archived"`
}

// ListProjectsOptions are the GET /projects query parameters.
type ListProjectsOptions struct {
	PageQuery
	Keyword   string `form:"keyword"`
	Status    string `form:"status"`
	Featured  *bool  `form:"featured"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// ProjectResponse is the project API shape.
type ProjectResponse struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repo_url"`
	DemoURL     string    `json:"demo_url"`
	CoverURL    string    `json:"cover_url"`
	TechStack   []string  `json:"tech_stack"`
	Highlights  []string  `json:"highlights"`
	Featured    bool      `json:"featured"`
	Sort        int       `json:"sort"`
	Status      string    `json:"status"`
}

// ProjectStats is the GET /projects/stats payload.
type ProjectStats struct {
	Total     int64 `json:"total"`
	Draft     int64 `json:"draft"`
	Published int64 `json:"published"`
	Archived  int64 `json:"archived"`
	Featured  int64 `json:"featured"`
}
