package idgen

import (
	"github.com/google/uuid"
)

// UUIDv7 hands out time-ordered solution ids.
type UUIDv7 struct{}

func (UUIDv7) NewSolutionID() (uuid.UUID, error) {
	return uuid.NewV7()
}
