package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/duelforge/arena/internal/stats"
)

// ArenaInfo exposes the read-only room/player counters the API surfaces.
// Keeping this minimal and interface-shaped (rather than depending on
// *arena.Supervisor directly) lets tests supply a fake without spinning up
// real rooms.
type ArenaInfo interface {
	RoomCount() int
	PlayerCount() int
}

// RouterConfig holds the dependencies NewRouter wires into handlers.
type RouterConfig struct {
	Arena ArenaInfo
	Stats stats.Store

	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig
	CORSOrigins     []string
	DisableLogging  bool
}

type routerHandlers struct {
	arena ArenaInfo
	stats stats.Store
}

// NewRouter builds the HTTP router. It opens no listener, so it is safe to
// exercise with httptest.NewServer. When cfg.RateLimiter is nil it creates
// an IPRateLimiter, whose cleanup goroutine keeps running after the call.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(rateLimiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &routerHandlers{arena: cfg.Arena, stats: cfg.Stats}

	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Get("/leaderboard", h.handleLeaderboard)
		r.Get("/stats/{userID}", h.handleGetUser)
		r.Post("/stats/{userID}/register", h.handleCreateUser)
	})

	return r
}

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"rooms":   h.arena.RoomCount(),
		"players": h.arena.PlayerCount(),
	})
}

func (h *routerHandlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{
		"rooms":   h.arena.RoomCount(),
		"players": h.arena.PlayerCount(),
	})
}

func (h *routerHandlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.stats.GetLeaderboard(limit)
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, entries)
}

func (h *routerHandlers) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	user, err := h.stats.GetUser(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, user)
}

func (h *routerHandlers) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userID")
	user, err := h.stats.CreateUser(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, user)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
