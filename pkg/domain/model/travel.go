package model

import "time"

// Travel record visibilities.
const (
	TravelStatusPublic  = "public"
	TravelStatusPrivate = "private"
)

// IsValidTravelStatus reports whether s belongs to the travel status set.
func IsValidTravelStatus(s string) bool {
	return s == TravelStatusPublic || s == TravelStatusPrivate
}

// Travel is a travel record. Images and Highlights are ordered string
// collections with no uniqueness constraint.
type Travel struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string
	Slug        string
	Country     string
	City        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Images      []string
	Highlights  []string
	Status      string
}

// CreateTravelRequest is the POST /travels body.
type CreateTravelRequest struct {
	Title       string     `json:"title" binding:"required"`
	Slug        string     `json:"slug" binding:"required"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Images      []string   `json:"images"`
	Highlights  []string   `json:"highlights"`
	Status      string     `json:"status" binding:"omitempty,oneof=public private"`
}

// UpdateTravelRequest is the PUT /travels/:id body.
type UpdateTravelRequest struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Country     *string    `json:"country"`
	City        *string    `json:"city"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Images      []string   `json:"images"`
	Highlights  []string   `json:"highlights"`
	Status      *string    `json:"status" binding:"omitempty,oneof=public private"`
}

// ListTravelsOptions are the GET /travels query parameters.
type ListTravelsOptions struct {
	PageQuery
	Keyword   string     `form:"keyword"`
	Country   string     `form:"country"`
	Status    string     `form:"status"`
	DateFrom  *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"dateTo" time_format:"2006-01-02"`
	SortBy    string     `form:"sortBy"`
	SortOrder string     `form:"sortOrder"`
}

// TravelResponse is the travel API shape.
type TravelResponse struct {
	ID          uint       `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Images      []string   `json:"images"`
	Highlights  []string   `json:"highlights"`
	Status      string     `json:"status"`
}

// TravelStats is the GET /travels/stats payload.
type TravelStats struct {
	Total     int64 `json:"total"`
	Public    int64 `json:"public"`
	Private   int64 `json:"private"`
	Countries int64 `json:"countries"`
}
