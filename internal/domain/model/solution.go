package model

import (
	"time"

	"github.com/google/uuid"
)

type SolutionListSort string

const (
	SortLatest SolutionListSort = "latest"
	SortVotes  SolutionListSort = "votes"
)

// ParseSolutionListSort falls back to SortLatest for unknown values.
func ParseSolutionListSort(s string) SolutionListSort {
	if SolutionListSort(s) == SortVotes {
		return SortVotes
	}
	return SortLatest
}

type Solution struct {
	ID        uuid.UUID `json:"id"`
	ProblemID string    `json:"problem_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	BodyMD    string    `json:"body_md"`
	SubmitURL string    `json:"submit_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SolutionDetails struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ProblemID    string    `json:"problem_id"`
	ProblemTitle string    `json:"problem_title"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	Tags         []string  `json:"tags"`
	BodyMD       string    `json:"body_md"`
	SubmitURL    string    `json:"submit_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SolutionListItem struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ProblemID    string    `json:"problem_id"`
	ProblemTitle string    `json:"problem_title,omitempty"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	VotesCount   int64     `json:"votes_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
