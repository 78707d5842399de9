package models

import (
	"strings"
	"time"
)

// User represents a person who can register product usage.
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"unique;not null" json:"name"`
	Email        string `gorm:"index" json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:'user'" json:"role"`

	// BadgeCode is joined from the user_badges side table on fetch;
	// it is never written through this column.
	BadgeCode string `gorm:"-" json:"badgeCode,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "reg_users"
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserBadge maps a badge scan code to a user. Keyed by the immutable
// user id so that renaming a user cannot orphan the mapping.
type UserBadge struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BadgeID   string    `gorm:"uniqueIndex;not null" json:"badgeId"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"userId"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
