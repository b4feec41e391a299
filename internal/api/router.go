package api

import (
	"context"
	"net/http"
	"solution_share/internal/api/handler"
	"solution_share/internal/api/middleware"
	"solution_share/internal/common"
	"solution_share/internal/platform/metrics"
	"solution_share/internal/platform/version"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func NewRouter(
	log zerolog.Logger,
	db Pinger,
	authService middleware.TokenAuthenticator,
	solutionService handler.SolutionUseCases,
	commentService handler.CommentUseCases,
	userService handler.UserUseCases,
	problemService handler.ProblemUseCases,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(metrics.InstrumentHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
			common.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"version": version.Version})
	})
	r.Handle("/metrics", metrics.Handler())

	authn := middleware.Authenticator(authService)

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		handler.NewSolutionHandler(solutionService).RegisterRoutes(v1, authn)
		handler.NewCommentHandler(commentService).RegisterRoutes(v1, authn)
		handler.NewUserHandler(userService).RegisterRoutes(v1, authn)
		handler.NewProblemHandler(problemService).RegisterRoutes(v1)
	})

	return r
}
