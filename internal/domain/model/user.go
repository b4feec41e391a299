package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultUserColor = "gray"
)

type User struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Role     string `json:"role"`
	Color    string `json:"color"`
	// TokensValidAfter is the revocation watermark; tokens issued earlier are rejected.
	TokensValidAfter *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
