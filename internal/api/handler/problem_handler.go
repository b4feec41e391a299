package handler

import (
	"context"
	"net/http"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemUseCases interface {
	GetProblem(ctx context.Context, problemID string) (*model.Problem, error)
	ListProblemsByContest(ctx context.Context, contestID string) (*model.Contest, []model.Problem, error)
	ListContestsBySeries(ctx context.Context, series string) ([]model.Contest, error)
	ListProblemsBySeries(ctx context.Context, series string) ([]model.ContestProblems, error)
}

type ProblemHandler struct {
	problemService ProblemUseCases
}

func NewProblemHandler(ps ProblemUseCases) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/problems", h.listProblemsBySeries)              // GET /api/v1/problems?series=ABC
	r.Get("/problems/{problemID}", h.getProblem)            // GET /api/v1/problems/abc001_a
	r.Get("/contests", h.listContestsBySeries)              // GET /api/v1/contests?series=ABC
	r.Get("/contests/{contestID}/problems", h.listProblems) // GET /api/v1/contests/abc001/problems
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetProblem(r.Context(), chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	contest, problems, err := h.problemService.ListProblemsByContest(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}

	type ContestProblemsResponse struct {
		Contest  *model.Contest  `json:"contest"`
		Problems []model.Problem `json:"problems"`
	}
	common.RespondWithJSON(w, http.StatusOK, ContestProblemsResponse{Contest: contest, Problems: problems})
}

func (h *ProblemHandler) listContestsBySeries(w http.ResponseWriter, r *http.Request) {
	contests, err := h.problemService.ListContestsBySeries(r.Context(), r.URL.Query().Get("series"))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ProblemHandler) listProblemsBySeries(w http.ResponseWriter, r *http.Request) {
	groups, err := h.problemService.ListProblemsBySeries(r.Context(), r.URL.Query().Get("series"))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, groups)
}
