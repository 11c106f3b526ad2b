package model

// Sort directions accepted by every list endpoint.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// PageQuery carries the pagination parameters shared by all list queries.
// Page is 1-based.
type PageQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// Normalize clamps the query to sane defaults.
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

// PageData is the uniform paginated list payload. TotalPages is recomputed
// wholesale from Total and Size on every response, never patched
// incrementally.
type PageData[T any] struct {
	List       []T   `json:"list"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

// NewPageData assembles a page payload and derives TotalPages.
func NewPageData[T any](list []T, total int64, page, size int) *PageData[T] {
	totalPages := 0
	if total > 0 && size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	if list == nil {
		list = []T{}
	}
	return &PageData[T]{
		List:       list,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// SlugCheckResult is the payload of the check-slug endpoints.
type SlugCheckResult struct {
	Available bool `json:"available"`
}

// UploadResult is the payload of the multipart image upload endpoints.
type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
}

// BatchRequest is the body of batch delete operations.
type BatchRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BatchStatusRequest is the body of batch status updates.
type BatchStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1"`
	Status string `json:"status" binding:"required"`
}

// StatusRequest is the body of single status toggles.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
