package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	SolutionID uuid.UUID `json:"solution_id"`
	BodyMD     string    `json:"body_md"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CommentView is a comment together with its author's display name.
type CommentView struct {
	Comment
	UserName string `json:"user_name"`
}
