package handler

import (
	"context"
	"net/http"
	"solution_share/internal/app/service"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CommentUseCases interface {
	CreateComment(ctx context.Context, req service.CreateCommentRequest) (*model.CommentView, error)
	UpdateComment(ctx context.Context, req service.UpdateCommentRequest) (*model.CommentView, error)
	DeleteComment(ctx context.Context, req service.DeleteCommentRequest) (uuid.UUID, error)
	ListComments(ctx context.Context, solutionID uuid.UUID) ([]model.CommentView, error)
}

type CommentHandler struct {
	commentService CommentUseCases
}

func NewCommentHandler(cs CommentUseCases) *CommentHandler {
	return &CommentHandler{commentService: cs}
}

type commentBody struct {
	BodyMD string `json:"body_md"`
}

func (h *CommentHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Get("/solutions/{solutionID}/comments", h.listComments)

	r.Group(func(auth chi.Router) {
		auth.Use(authn)
		auth.Post("/solutions/{solutionID}/comments", h.createComment)
		auth.Put("/comments/{commentID}", h.updateComment)
		auth.Delete("/comments/{commentID}", h.deleteComment)
	})
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	var body commentBody
	if !decodeJSON(w, r, &body) {
		return
	}

	view, err := h.commentService.CreateComment(r.Context(), service.CreateCommentRequest{
		SolutionID: solutionID,
		UserID:     userID,
		BodyMD:     body.BodyMD,
	})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, view)
}

func (h *CommentHandler) updateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	commentID, ok := uuidParam(w, r, "commentID", common.AggregateComment)
	if !ok {
		return
	}
	var body commentBody
	if !decodeJSON(w, r, &body) {
		return
	}

	view, err := h.commentService.UpdateComment(r.Context(), service.UpdateCommentRequest{
		CommentID: commentID,
		UserID:    userID,
		BodyMD:    body.BodyMD,
	})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, view)
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	commentID, ok := uuidParam(w, r, "commentID", common.AggregateComment)
	if !ok {
		return
	}

	id, err := h.commentService.DeleteComment(r.Context(), service.DeleteCommentRequest{CommentID: commentID, UserID: userID})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *CommentHandler) listComments(w http.ResponseWriter, r *http.Request) {
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	comments, err := h.commentService.ListComments(r.Context(), solutionID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}
