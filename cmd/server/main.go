package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "fanclub-backend/docs"
	"fanclub-backend/internal/config"
	"fanclub-backend/internal/domain/comment"
	"fanclub-backend/internal/domain/forum"
	"fanclub-backend/internal/domain/poll"
	"fanclub-backend/internal/domain/user"
	"fanclub-backend/internal/football"
	api "fanclub-backend/internal/http"
	"fanclub-backend/internal/metrics"
	"fanclub-backend/internal/news"
	"fanclub-backend/internal/platform/clock"
	"fanclub-backend/internal/platform/database"
	jwtpkg "fanclub-backend/internal/platform/jwt"
	"fanclub-backend/internal/repository/postgres"
	"fanclub-backend/internal/worker"
)

// @title           Fan Club API
// @version         1.0
// @description     Football fan club backend: polls, forums, comments, news and fixtures
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	metrics.Register()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if err := database.CreateSchema(db); err != nil {
		log.Fatalf("db schema error: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	pollRepo := postgres.NewPollRepo(db)
	forumRepo := postgres.NewForumRepo(db)
	commentRepo := postgres.NewCommentRepo(db)

	userSvc := user.NewService(userRepo)
	pollSvc := poll.NewService(pollRepo, clock.Real{})
	forumSvc := forum.NewService(forumRepo)
	commentSvc := comment.NewService(commentRepo)

	newsClient := news.NewClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsQuery)
	footballClient := football.NewClient(cfg.FootballAPIURL, cfg.FootballAPIKey, cfg.FootballTeamID)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, "fanclub-backend")

	voteCh := make(chan worker.VoteEvent, 100)
	voteWorker := worker.NewVoteWorker(voteCh, logger)

	router := api.NewRouter(userSvc, pollSvc, forumSvc, commentSvc, newsClient, footballClient, jwtMgr, voteCh, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go voteWorker.Run(ctx)

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	logger.Info("server stopped")
}
