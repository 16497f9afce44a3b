package domain

import (
	"strings"
	"time"
)

// Role is the coarse-grained permission level of a user.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// ParseRole normalises s case-insensitively. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// User models an identity: the authenticated user record.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Username     string    `json:"username,omitempty" bson:"username,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	Active       bool      `json:"is_active" bson:"is_active"`
	AvatarURL    string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	PushToken    string    `json:"-" bson:"push_token,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// IsManager reports whether the user holds the MANAGER role.
func (u *User) IsManager() bool { return u != nil && u.Role == RoleManager }

// CanManage reports whether the user may administer tasks, projects and clients.
func (u *User) CanManage() bool { return u.IsAdmin() || u.IsManager() }

// DirectoryEntry is the public projection of a user shown in pickers.
type DirectoryEntry struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}
