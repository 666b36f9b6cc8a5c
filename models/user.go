package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID    string     `gorm:"primaryKey;column:user_id;size:64" json:"user_id"`
	Email     string     `gorm:"column:email;size:255;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	FullName  string     `gorm:"column:full_name" json:"full_name"`
	Role      string     `gorm:"column:role;size:16;default:user" json:"role"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
