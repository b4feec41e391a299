package service

import (
	"context"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"solution_share/internal/domain/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SolutionService struct {
	txm     repository.TxManager
	reads   repository.ReadService
	ids     IDProvider
	observe UseCaseObserver
}

func NewSolutionService(txm repository.TxManager, reads repository.ReadService, ids IDProvider, opts ...Option) *SolutionService {
	o := buildOptions(opts)
	return &SolutionService{txm: txm, reads: reads, ids: ids, observe: o.observe}
}

type CreateSolutionRequest struct {
	UserID    string   `json:"user_id" validate:"required,max=120"`
	ProblemID string   `json:"problem_id" validate:"required,notblank,max=120"`
	Title     string   `json:"title" validate:"required,notblank,max=120"`
	BodyMD    string   `json:"body_md" validate:"required,notblank,max=20000"`
	SubmitURL string   `json:"submit_url" validate:"max=500,httpurl"`
	Tags      []string `json:"tags"`
}

type UpdateSolutionRequest struct {
	SolutionID uuid.UUID `json:"solution_id"`
	UserID     string    `json:"user_id" validate:"required,max=120"`
	Title      string    `json:"title" validate:"required,notblank,max=120"`
	BodyMD     string    `json:"body_md" validate:"required,notblank,max=20000"`
	SubmitURL  string    `json:"submit_url" validate:"max=500,httpurl"`
	Tags       []string  `json:"tags"`
}

type DeleteSolutionRequest struct {
	SolutionID uuid.UUID `json:"solution_id"`
	UserID     string    `json:"user_id" validate:"required,max=120"`
}

type VoteRequest struct {
	SolutionID uuid.UUID `json:"solution_id"`
	UserID     string    `json:"user_id" validate:"required,max=120"`
}

// CreateSolution stores the solution together with its tag set in one unit
// of work and returns the new id.
func (s *SolutionService) CreateSolution(ctx context.Context, req CreateSolutionRequest) (id uuid.UUID, err error) {
	defer func() { s.observe("create_solution", err) }()

	if err := validateInput(common.AggregateSolution, req); err != nil {
		return uuid.Nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.reads.ProblemExists(ctx, req.ProblemID)
	if err != nil {
		return uuid.Nil, common.FromStorage(common.AggregateProblem, err)
	}
	if !exists {
		return uuid.Nil, common.BadRequest(common.AggregateSolution, "problem %q does not exist", req.ProblemID)
	}

	newID, err := s.ids.NewSolutionID()
	if err != nil {
		return uuid.Nil, common.FromStorage(common.AggregateSolution, err)
	}
	now := time.Now().UTC()
	solution := &model.Solution{
		ID:        newID,
		ProblemID: req.ProblemID,
		UserID:    req.UserID,
		Title:     req.Title,
		BodyMD:    req.BodyMD,
		SubmitURL: strings.TrimSpace(req.SubmitURL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = inUnitOfWork(ctx, s.txm, common.AggregateSolution, func(uow repository.UnitOfWork) error {
		tagIDs, err := uow.Tags().Upsert(ctx, tags)
		if err != nil {
			return err
		}
		if _, err := uow.Solutions().Create(ctx, solution); err != nil {
			return err
		}
		return uow.Solutions().ReplaceTags(ctx, solution.ID, tagIDs)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return solution.ID, nil
}

// UpdateSolution replaces the editable fields and reconciles the tag set.
func (s *SolutionService) UpdateSolution(ctx context.Context, req UpdateSolutionRequest) (id uuid.UUID, err error) {
	defer func() { s.observe("update_solution", err) }()

	if err := validateInput(common.AggregateSolution, req); err != nil {
		return uuid.Nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return uuid.Nil, err
	}
	if err := requireSolutionOwner(ctx, s.reads, req.SolutionID, req.UserID, "update"); err != nil {
		return uuid.Nil, err
	}

	err = inUnitOfWork(ctx, s.txm, common.AggregateSolution, func(uow repository.UnitOfWork) error {
		if err := uow.Solutions().Update(ctx, req.SolutionID, req.Title, req.BodyMD, strings.TrimSpace(req.SubmitURL)); err != nil {
			return err
		}
		tagIDs, err := uow.Tags().Upsert(ctx, tags)
		if err != nil {
			return err
		}
		return uow.Solutions().ReplaceTags(ctx, req.SolutionID, tagIDs)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.SolutionID, nil
}

func (s *SolutionService) DeleteSolution(ctx context.Context, req DeleteSolutionRequest) (id uuid.UUID, err error) {
	defer func() { s.observe("delete_solution", err) }()

	if err := validateInput(common.AggregateSolution, req); err != nil {
		return uuid.Nil, err
	}
	if err := requireSolutionOwner(ctx, s.reads, req.SolutionID, req.UserID, "delete"); err != nil {
		return uuid.Nil, err
	}

	err = inUnitOfWork(ctx, s.txm, common.AggregateSolution, func(uow repository.UnitOfWork) error {
		return uow.Solutions().Delete(ctx, req.SolutionID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.SolutionID, nil
}

// Vote is idempotent: voting twice leaves one vote row.
func (s *SolutionService) Vote(ctx context.Context, req VoteRequest) (id uuid.UUID, err error) {
	defer func() { s.observe("vote", err) }()
	return s.toggleVote(ctx, req, true)
}

// Unvote succeeds whether or not the vote existed.
func (s *SolutionService) Unvote(ctx context.Context, req VoteRequest) (id uuid.UUID, err error) {
	defer func() { s.observe("unvote", err) }()
	return s.toggleVote(ctx, req, false)
}

func (s *SolutionService) toggleVote(ctx context.Context, req VoteRequest, like bool) (uuid.UUID, error) {
	if err := validateInput(common.AggregateSolution, req); err != nil {
		return uuid.Nil, err
	}
	if err := requireSolution(ctx, s.reads, req.SolutionID); err != nil {
		return uuid.Nil, err
	}

	err := inUnitOfWork(ctx, s.txm, common.AggregateSolution, func(uow repository.UnitOfWork) error {
		if like {
			return uow.Votes().Like(ctx, req.UserID, req.SolutionID)
		}
		return uow.Votes().Unlike(ctx, req.UserID, req.SolutionID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.SolutionID, nil
}

func (s *SolutionService) GetSolution(ctx context.Context, id uuid.UUID) (*model.SolutionDetails, error) {
	details, err := s.reads.GetSolution(ctx, id)
	if err != nil {
		return nil, common.FromStorage(common.AggregateSolution, err)
	}
	return details, nil
}

func (s *SolutionService) ListByProblem(ctx context.Context, problemID string, sort model.SolutionListSort) ([]model.SolutionListItem, error) {
	exists, err := s.reads.ProblemExists(ctx, problemID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateProblem, err)
	}
	if !exists {
		return nil, common.NotFound(common.AggregateProblem, "problem not found")
	}
	items, err := s.reads.ListSolutionsByProblem(ctx, problemID, sort)
	if err != nil {
		return nil, common.FromStorage(common.AggregateSolution, err)
	}
	return items, nil
}

func (s *SolutionService) ListByUserName(ctx context.Context, userName string, sort model.SolutionListSort) ([]model.SolutionListItem, error) {
	exists, err := s.reads.UserNameExists(ctx, userName)
	if err != nil {
		return nil, common.FromStorage(common.AggregateUser, err)
	}
	if !exists {
		return nil, common.NotFound(common.AggregateUser, "user not found")
	}
	items, err := s.reads.ListSolutionsByUserName(ctx, userName, sort)
	if err != nil {
		return nil, common.FromStorage(common.AggregateSolution, err)
	}
	return items, nil
}

func (s *SolutionService) VotesCount(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := requireSolution(ctx, s.reads, id); err != nil {
		return 0, err
	}
	n, err := s.reads.CountVotes(ctx, id)
	if err != nil {
		return 0, common.FromStorage(common.AggregateSolution, err)
	}
	return n, nil
}

func (s *SolutionService) MyVoteStatus(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	if err := requireSolution(ctx, s.reads, id); err != nil {
		return false, err
	}
	voted, err := s.reads.HasVoted(ctx, userID, id)
	if err != nil {
		return false, common.FromStorage(common.AggregateSolution, err)
	}
	return voted, nil
}
