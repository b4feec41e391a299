package handler

import (
	"context"
	"net/http"
	"solution_share/internal/app/service"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"time"

	"github.com/go-chi/chi/v5"
)

type UserUseCases interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (*model.User, error)
	GetMe(ctx context.Context, userID string) (*model.User, error)
	DeleteMe(ctx context.Context, userID string) error
	RevokeTokens(ctx context.Context, userID string) (time.Time, error)
}

type UserHandler struct {
	userService UserUseCases
}

func NewUserHandler(us UserUseCases) *UserHandler {
	return &UserHandler{userService: us}
}

// RegisterRoutes mounts the account routes. Every one of them needs a token;
// the account id is always the token subject.
func (h *UserHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Group(func(auth chi.Router) {
		auth.Use(authn)
		auth.Post("/users", h.createUser)
		auth.Get("/users/me", h.getMe)
		auth.Delete("/users/me", h.deleteMe)
		auth.Post("/users/me/revoke", h.revokeTokens)
	})
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var body struct {
		UserName string `json:"user_name"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), service.CreateUserRequest{UID: userID, UserName: body.UserName})
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	user, err := h.userService.GetMe(r.Context(), userID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := h.userService.DeleteMe(r.Context(), userID); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *UserHandler) revokeTokens(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	at, err := h.userService.RevokeTokens(r.Context(), userID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]time.Time{"tokens_valid_after": at})
}
