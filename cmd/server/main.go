package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"solution_share/internal/api"
	"solution_share/internal/app/service"
	"solution_share/internal/common/security"
	"solution_share/internal/domain/repository"
	"solution_share/internal/platform/cache"
	"solution_share/internal/platform/config"
	"solution_share/internal/platform/database"
	"solution_share/internal/platform/idgen"
	"solution_share/internal/platform/logger"
	"solution_share/internal/platform/metrics"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	// 2. Initialize Logger
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)
	logg.Info().Str("env", cfg.Env).Msg("configuration loaded")

	ctx := context.Background()

	// 3. Initialize Database
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		logg.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	logg.Info().Msg("database connected")

	if cfg.DBAutoMigrate {
		if err := database.RunMigrations(db, logg); err != nil {
			logg.Fatal().Err(err).Msg("database migration failed")
		}
	}

	// 4. Initialize Repositories
	txManager := repository.NewPgTxManager(db,
		repository.WithTxObserver(metrics.RecordUnitOfWork),
		repository.WithTxLogger(logg),
	)
	userRepo := repository.NewPgUserRepository(db)
	problemRepo := repository.NewPgProblemRepository(db)
	reads := repository.NewPgReadService(db)

	// 5. Initialize Redis read cache. The service runs uncached without it.
	var userCache service.UserCache
	rdb, err := cache.Connect(ctx, cfg)
	if err != nil {
		logg.Warn().Err(err).Msg("redis unavailable, serving reads without cache")
	} else {
		defer rdb.Close()
		cached := cache.NewCachedReadService(reads, rdb, cfg.CacheTTL, logg)
		reads = cached
		userCache = cached
		logg.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	}

	// 6. Initialize Services
	authenticator := security.NewJWTAuthenticator(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExp)
	authService := service.NewAuthService(authenticator, reads)
	observe := service.WithUseCaseObserver(metrics.RecordUseCase)
	solutionService := service.NewSolutionService(txManager, reads, idgen.UUIDv7{}, observe)
	commentService := service.NewCommentService(txManager, reads, observe)
	userService := service.NewUserService(userRepo, userCache, logg, observe)
	problemService := service.NewProblemService(problemRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(logg, db, authService, solutionService, commentService, userService, problemService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logg.Info().Str("port", cfg.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Str("port", cfg.APIPort).Msg("could not listen")
		}
	}()

	<-stop // Wait for interrupt signal

	logg.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("server shutdown failed")
		return
	}
	logg.Info().Msg("server stopped gracefully")
}
