package repository

import (
	"context"
	"errors"
	"solution_share/internal/domain/model"

	"github.com/google/uuid"
)

// ErrUnitOfWorkClosed is returned by every call made after Commit or Rollback.
var ErrUnitOfWorkClosed = errors.New("unit of work already committed or rolled back")

type SolutionTxRepository interface {
	Create(ctx context.Context, s *model.Solution) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, title, bodyMD, submitURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceTags makes the solution's tag associations equal to exactly tagIDs.
	ReplaceTags(ctx context.Context, solutionID uuid.UUID, tagIDs []uuid.UUID) error
}

type TagTxRepository interface {
	// Upsert creates the missing tags and returns one id per normalized name.
	Upsert(ctx context.Context, names []string) ([]uuid.UUID, error)
}

type VoteTxRepository interface {
	Like(ctx context.Context, userID string, solutionID uuid.UUID) error
	Unlike(ctx context.Context, userID string, solutionID uuid.UUID) error
}

type CommentTxRepository interface {
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Update(ctx context.Context, id uuid.UUID, bodyMD string) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitOfWork is bound to one storage transaction. Every repository it hands
// out writes inside that transaction. Commit and Rollback are terminal; a
// UnitOfWork belongs to a single caller and must not be shared.
//
// Callers defer Rollback right after Begin. Rollback after a successful
// Commit is a no-op, so the deferred call only discards abandoned work.
type UnitOfWork interface {
	Solutions() SolutionTxRepository
	Tags() TagTxRepository
	Votes() VoteTxRepository
	Comments() CommentTxRepository

	Commit() error
	Rollback()
}

type TxManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
