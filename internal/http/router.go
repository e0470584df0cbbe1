package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"fanclub-backend/internal/domain/comment"
	"fanclub-backend/internal/domain/forum"
	"fanclub-backend/internal/domain/poll"
	"fanclub-backend/internal/domain/user"
	"fanclub-backend/internal/football"
	"fanclub-backend/internal/news"
	jwtpkg "fanclub-backend/internal/platform/jwt"
	"fanclub-backend/internal/worker"
)

type Handler struct {
	userSvc        *user.Service
	pollSvc        *poll.Service
	forumSvc       *forum.Service
	commentSvc     *comment.Service
	newsClient     *news.Client
	footballClient *football.Client
	jwtMgr         *jwtpkg.Manager
	voteCh         chan<- worker.VoteEvent
	db             *sql.DB
}

func NewRouter(
	userSvc *user.Service,
	pollSvc *poll.Service,
	forumSvc *forum.Service,
	commentSvc *comment.Service,
	newsClient *news.Client,
	footballClient *football.Client,
	jwtMgr *jwtpkg.Manager,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		userSvc:        userSvc,
		pollSvc:        pollSvc,
		forumSvc:       forumSvc,
		commentSvc:     commentSvc,
		newsClient:     newsClient,
		footballClient: footballClient,
		jwtMgr:         jwtMgr,
		voteCh:         voteCh,
		db:             db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		// Cleanup is meant to be hit by an external scheduler, it carries
		// no user identity.
		r.Get("/polls/cleanup", h.handleCleanupInfo)
		r.Post("/polls/cleanup", h.handleCleanupPolls)

		r.With(OptionalAuth(jwtMgr)).Get("/polls", h.handleListPolls)

		r.Get("/forums", h.handleListForums)
		r.Get("/forums/posts", h.handleListPosts)
		r.Get("/forums/posts/{id}", h.handleGetPost)
		r.Get("/forums/posts/{id}/comments", h.handleListPostComments)
		r.Get("/comments", h.handleListComments)

		r.Get("/news", h.handleNews)
		r.Get("/football/fixtures", h.handleFixtures)
		r.Get("/football/squad", h.handleSquad)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Post("/polls", h.handleCreatePoll)
			r.With(RateLimitVotes(rate.Every(time.Minute/10), 3)).Post("/polls/{id}/vote", h.handleVote)

			r.Post("/forums/posts", h.handleCreatePost)
			r.Post("/forums/posts/{id}/comments", h.handleAddPostComment)
			r.Post("/comments", h.handleAddComment)
			r.Delete("/comments/{id}", h.handleDeleteComment)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
