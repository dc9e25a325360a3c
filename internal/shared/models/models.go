package models

import "strings"

// Role is the portal user type carried in tokens and user records.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole maps a backend value to a Role. Unknown or empty values yield
// RoleStudent, the least privileged role.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeacher:
		return RoleTeacher
	default:
		return RoleStudent
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

// CanManage reports whether r lands on the management area (posts CRUD, users).
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleTeacher
}

type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	// Transient is set when the backend sent no identifier and ID was
	// generated for the current load only.
	Transient bool `json:"-"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// PostInput is the editable part of a post.
type PostInput struct {
	Title     string
	Body      string
	Author    string
	CreatedAt string
}

// UserInput is the editable part of a user. Password is optional on update.
type UserInput struct {
	Username string
	Password string
	Role     Role
}
