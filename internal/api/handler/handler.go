package handler

import (
	"encoding/json"
	"net/http"
	"solution_share/internal/api/middleware"
	"solution_share/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string, agg common.Aggregate) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		common.RespondWithErr(w, r, common.BadRequest(agg, "invalid %s id", agg))
		return uuid.Nil, false
	}
	return id, true
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return "", false
	}
	return userID, true
}
