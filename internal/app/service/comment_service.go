package service

import (
	"context"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"solution_share/internal/domain/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	txm     repository.TxManager
	reads   repository.ReadService
	observe UseCaseObserver
}

func NewCommentService(txm repository.TxManager, reads repository.ReadService, opts ...Option) *CommentService {
	o := buildOptions(opts)
	return &CommentService{txm: txm, reads: reads, observe: o.observe}
}

type CreateCommentRequest struct {
	SolutionID uuid.UUID `json:"solution_id"`
	UserID     string    `json:"user_id" validate:"required,max=120"`
	BodyMD     string    `json:"body_md" validate:"required,notblank,max=2000"`
}

type UpdateCommentRequest struct {
	CommentID uuid.UUID `json:"comment_id"`
	UserID    string    `json:"user_id" validate:"required,max=120"`
	BodyMD    string    `json:"body_md" validate:"required,notblank,max=2000"`
}

type DeleteCommentRequest struct {
	CommentID uuid.UUID `json:"comment_id"`
	UserID    string    `json:"user_id" validate:"required,max=120"`
}

// CreateComment attaches a comment to an existing solution. A missing
// solution is a bad request here, not a missing resource.
func (s *CommentService) CreateComment(ctx context.Context, req CreateCommentRequest) (view *model.CommentView, err error) {
	defer func() { s.observe("create_comment", err) }()

	if err := validateInput(common.AggregateComment, req); err != nil {
		return nil, err
	}
	exists, err := s.reads.SolutionExists(ctx, req.SolutionID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateSolution, err)
	}
	if !exists {
		return nil, common.BadRequest(common.AggregateComment, "solution %s does not exist", req.SolutionID)
	}
	userName, err := s.reads.GetUserDisplayName(ctx, req.UserID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateUser, err)
	}

	var created *model.Comment
	err = inUnitOfWork(ctx, s.txm, common.AggregateComment, func(uow repository.UnitOfWork) error {
		var err error
		created, err = uow.Comments().Create(ctx, &model.Comment{
			UserID:     req.UserID,
			SolutionID: req.SolutionID,
			BodyMD:     req.BodyMD,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &model.CommentView{Comment: *created, UserName: userName}, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, req UpdateCommentRequest) (view *model.CommentView, err error) {
	defer func() { s.observe("update_comment", err) }()

	if err := validateInput(common.AggregateComment, req); err != nil {
		return nil, err
	}
	if err := requireCommentOwner(ctx, s.reads, req.CommentID, req.UserID, "update"); err != nil {
		return nil, err
	}
	userName, err := s.reads.GetUserDisplayName(ctx, req.UserID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateUser, err)
	}

	var updated *model.Comment
	err = inUnitOfWork(ctx, s.txm, common.AggregateComment, func(uow repository.UnitOfWork) error {
		var err error
		updated, err = uow.Comments().Update(ctx, req.CommentID, req.BodyMD)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &model.CommentView{Comment: *updated, UserName: userName}, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, req DeleteCommentRequest) (id uuid.UUID, err error) {
	defer func() { s.observe("delete_comment", err) }()

	if err := validateInput(common.AggregateComment, req); err != nil {
		return uuid.Nil, err
	}
	if err := requireCommentOwner(ctx, s.reads, req.CommentID, req.UserID, "delete"); err != nil {
		return uuid.Nil, err
	}

	err = inUnitOfWork(ctx, s.txm, common.AggregateComment, func(uow repository.UnitOfWork) error {
		return uow.Comments().Delete(ctx, req.CommentID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.CommentID, nil
}

// ListComments returns the solution's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, solutionID uuid.UUID) ([]model.CommentView, error) {
	if err := requireSolution(ctx, s.reads, solutionID); err != nil {
		return nil, err
	}
	comments, err := s.reads.ListComments(ctx, solutionID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateComment, err)
	}
	return comments, nil
}
