package model

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is the profile row mirrored between the hosted backend and the local store.
// Identity comes from the auth provider; the id is the same on both sides.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Role      string    `gorm:"type:varchar(20);not null;check:role IN ('admin', 'staff')" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName falls back to the username when no display name was stored.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// ValidRole reports whether role is one of the two roles the schema accepts.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
