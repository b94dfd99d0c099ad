package models

import (
	"strings"
	"time"
)

// UserRole represents the roles recognised by the access control gate.
type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// ParseRole normalises raw into a known role.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return role, true
	default:
		return "", false
	}
}

// User represents a platform account stored in the users table.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      UserRole  `db:"role" json:"role"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	PhotoURL  string    `db:"photo_url" json:"photoURL"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// CreateUserRequest is the sign-in payload for POST /users. Any role sent by
// the client is discarded.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	PhotoURL string `json:"photoURL" validate:"omitempty,max=2048"`
	Role     string `json:"role"`
}

// UpsertUserResult reports whether POST /users inserted a record.
type UpsertUserResult struct {
	Message    string  `json:"message"`
	InsertedID *string `json:"insertedId"`
}

// RoleLookup is returned by the public role resolution endpoint.
type RoleLookup struct {
	Email   string   `json:"email"`
	Role    UserRole `json:"role"`
	Message string   `json:"message,omitempty"`
}

// UpdateProfileRequest carries self-service profile changes.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	PhotoURL *string `json:"photoURL" validate:"omitempty,max=2048"`
}

// Empty reports whether no field is set.
func (r UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Address == nil && r.Phone == nil && r.PhotoURL == nil
}

// UpdateRoleRequest is the admin payload for PATCH /users/role/:id.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
