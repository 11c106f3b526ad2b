package model

import "time"

// User statuses and roles.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"

	UserRoleAdmin  = "admin"
	UserRoleEditor = "editor"
)

// IsValidUserStatus reports whether s belongs to the user status set.
func IsValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusDisabled
}

// IsValidUserRole reports whether r belongs to the user role set.
func IsValidUserRole(r string) bool {
	return r == UserRoleAdmin || r == UserRoleEditor
}

// User is an admin-panel account. Username is the natural key and follows
// the same slug pattern as other entities.
type User struct {
	ID           uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Username     string
	Nickname     string
	Email        string
	PasswordHash string
	AvatarURL    string
	Role         string
	Status       string
	LastLoginAt  *time.Time
}

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role" binding:"omitempty,oneof=admin editor"`
	Status   string `json:"status" binding:"omitempty,oneof=active disabled"`
}

// UpdateUserRequest is the PUT /users/:id body. Password, when present,
// is re-hashed.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Nickname *string `json:"nickname"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Avatar   *string `json:"avatar"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin editor"`
	Status   *string `json:"status" binding:"omitempty,oneof=active disabled"`
}

// ListUsersOptions are the GET /users query parameters.
type ListUsersOptions struct {
	PageQuery
	Keyword   string `form:"keyword"`
	Role      string `form:"role"`
	Status    string `form:"status"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// UserResponse is the user API shape. The password hash never leaves the
// server.
type UserResponse struct {
	ID          uint       `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Username    string     `json:"username"`
	Nickname    string     `json:"nickname"`
	Email       string     `json:"email"`
	AvatarURL   string     `json:"avatar_url"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// UserStats is the GET /users/stats payload.
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Disabled int64 `json:"disabled"`
	Admins   int64 `json:"admins"`
}
