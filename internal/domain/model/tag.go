package model

import (
	"strings"

	"github.com/google/uuid"
)

const (
	MaxTagsPerSolution = 6
	MaxTagLength       = 24
)

type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NormalizeTags trims every entry, drops blanks and removes exact duplicates.
// Matching is case-sensitive; first occurrence order is kept.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		name := strings.TrimSpace(t)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
