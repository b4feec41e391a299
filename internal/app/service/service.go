package service

import (
	"context"
	"solution_share/internal/common"
	"solution_share/internal/domain/repository"

	"github.com/google/uuid"
)

// IDProvider hands out fresh solution ids, independent of storage.
type IDProvider interface {
	NewSolutionID() (uuid.UUID, error)
}

// UseCaseObserver is told the outcome of every mutating use case.
type UseCaseObserver func(usecase string, err error)

type Option func(*options)

type options struct {
	observe UseCaseObserver
}

// WithUseCaseObserver reports each use case result to fn, typically a
// metrics recorder.
func WithUseCaseObserver(fn UseCaseObserver) Option {
	return func(o *options) { o.observe = fn }
}

func buildOptions(opts []Option) options {
	o := options{observe: func(string, error) {}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// inUnitOfWork runs fn inside a single unit of work and commits if fn
// succeeds. Any failure leaves the deferred Rollback to discard the work.
func inUnitOfWork(ctx context.Context, txm repository.TxManager, agg common.Aggregate, fn func(uow repository.UnitOfWork) error) error {
	uow, err := txm.Begin(ctx)
	if err != nil {
		return common.FromStorage(agg, err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return common.FromStorage(agg, err)
	}
	if err := uow.Commit(); err != nil {
		return common.FromStorage(agg, err)
	}
	return nil
}

// requireSolution is the existence half of ownership gating.
func requireSolution(ctx context.Context, reads repository.ReadService, id uuid.UUID) error {
	exists, err := reads.SolutionExists(ctx, id)
	if err != nil {
		return common.FromStorage(common.AggregateSolution, err)
	}
	if !exists {
		return common.NotFound(common.AggregateSolution, "solution not found")
	}
	return nil
}

// requireSolutionOwner checks existence first so that a caller probing a
// missing solution learns nothing about ownership.
func requireSolutionOwner(ctx context.Context, reads repository.ReadService, id uuid.UUID, userID, action string) error {
	if err := requireSolution(ctx, reads, id); err != nil {
		return err
	}
	owner, err := reads.GetSolutionOwner(ctx, id)
	if err != nil {
		return common.FromStorage(common.AggregateSolution, err)
	}
	if owner != userID {
		return common.Forbidden(common.AggregateSolution, "you cannot %s this solution", action)
	}
	return nil
}

func requireCommentOwner(ctx context.Context, reads repository.ReadService, id uuid.UUID, userID, action string) error {
	exists, err := reads.CommentExists(ctx, id)
	if err != nil {
		return common.FromStorage(common.AggregateComment, err)
	}
	if !exists {
		return common.NotFound(common.AggregateComment, "comment not found")
	}
	owner, err := reads.GetCommentOwner(ctx, id)
	if err != nil {
		return common.FromStorage(common.AggregateComment, err)
	}
	if owner != userID {
		return common.Forbidden(common.AggregateComment, "you cannot %s this comment", action)
	}
	return nil
}
