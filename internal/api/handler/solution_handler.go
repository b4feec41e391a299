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

type SolutionUseCases interface {
	CreateSolution(ctx context.Context, req service.CreateSolutionRequest) (uuid.UUID, error)
	UpdateSolution(ctx context.Context, req service.UpdateSolutionRequest) (uuid.UUID, error)
	DeleteSolution(ctx context.Context, req service.DeleteSolutionRequest) (uuid.UUID, error)
	Vote(ctx context.Context, req service.VoteRequest) (uuid.UUID, error)
	Unvote(ctx context.Context, req service.VoteRequest) (uuid.UUID, error)
	GetSolution(ctx context.Context, id uuid.UUID) (*model.SolutionDetails, error)
	ListByProblem(ctx context.Context, problemID string, sort model.SolutionListSort) ([]model.SolutionListItem, error)
	ListByUserName(ctx context.Context, userName string, sort model.SolutionListSort) ([]model.SolutionListItem, error)
	VotesCount(ctx context.Context, id uuid.UUID) (int64, error)
	MyVoteStatus(ctx context.Context, userID string, id uuid.UUID) (bool, error)
}

type SolutionHandler struct {
	solutionService SolutionUseCases
}

func NewSolutionHandler(ss SolutionUseCases) *SolutionHandler {
	return &SolutionHandler{solutionService: ss}
}

type solutionBody struct {
	ProblemID string   `json:"problem_id"`
	Title     string   `json:"title"`
	BodyMD    string   `json:"body_md"`
	SubmitURL string   `json:"submit_url"`
	Tags      []string `json:"tags"`
}

func (h *SolutionHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Get("/solutions/{solutionID}", h.getSolution)
	r.Get("/solutions/{solutionID}/votes", h.votesCount)
	r.Get("/problems/{problemID}/solutions", h.listByProblem)
	r.Get("/users/{userName}/solutions", h.listByUser)

	r.Group(func(auth chi.Router) {
		auth.Use(authn)
		auth.Post("/solutions", h.createSolution)
		auth.Put("/solutions/{solutionID}", h.updateSolution)
		auth.Delete("/solutions/{solutionID}", h.deleteSolution)
		auth.Post("/solutions/{solutionID}/votes", h.vote)
		auth.Delete("/solutions/{solutionID}/votes", h.unvote)
		auth.Get("/solutions/{solutionID}/votes/me", h.myVote)
	})
}

func (h *SolutionHandler) createSolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var body solutionBody
	if !decodeJSON(w, r, &body) {
		return
	}

	id, err := h.solutionService.CreateSolution(r.Context(), service.CreateSolutionRequest{
		UserID:    userID,
		ProblemID: body.ProblemID,
		Title:     body.Title,
		BodyMD:    body.BodyMD,
		SubmitURL: body.SubmitURL,
		Tags:      body.Tags,
	})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *SolutionHandler) updateSolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	var body solutionBody
	if !decodeJSON(w, r, &body) {
		return
	}

	id, err := h.solutionService.UpdateSolution(r.Context(), service.UpdateSolutionRequest{
		SolutionID: solutionID,
		UserID:     userID,
		Title:      body.Title,
		BodyMD:     body.BodyMD,
		SubmitURL:  body.SubmitURL,
		Tags:       body.Tags,
	})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *SolutionHandler) deleteSolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}

	id, err := h.solutionService.DeleteSolution(r.Context(), service.DeleteSolutionRequest{SolutionID: solutionID, UserID: userID})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *SolutionHandler) getSolution(w http.ResponseWriter, r *http.Request) {
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	details, err := h.solutionService.GetSolution(r.Context(), solutionID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, details)
}

func (h *SolutionHandler) listByProblem(w http.ResponseWriter, r *http.Request) {
	items, err := h.solutionService.ListByProblem(r.Context(), chi.URLParam(r, "problemID"), sortParam(r))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, items)
}

func (h *SolutionHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	items, err := h.solutionService.ListByUserName(r.Context(), chi.URLParam(r, "userName"), sortParam(r))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, items)
}

func (h *SolutionHandler) vote(w http.ResponseWriter, r *http.Request) {
	h.toggleVote(w, r, h.solutionService.Vote)
}

func (h *SolutionHandler) unvote(w http.ResponseWriter, r *http.Request) {
	h.toggleVote(w, r, h.solutionService.Unvote)
}

func (h *SolutionHandler) toggleVote(w http.ResponseWriter, r *http.Request, fn func(context.Context, service.VoteRequest) (uuid.UUID, error)) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	id, err := fn(r.Context(), service.VoteRequest{SolutionID: solutionID, UserID: userID})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *SolutionHandler) votesCount(w http.ResponseWriter, r *http.Request) {
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	n, err := h.solutionService.VotesCount(r.Context(), solutionID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int64{"votes_count": n})
}

func (h *SolutionHandler) myVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	solutionID, ok := uuidParam(w, r, "solutionID", common.AggregateSolution)
	if !ok {
		return
	}
	voted, err := h.solutionService.MyVoteStatus(r.Context(), userID, solutionID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"voted": voted})
}

func sortParam(r *http.Request) model.SolutionListSort {
	return model.ParseSolutionListSort(r.URL.Query().Get("sort"))
}
