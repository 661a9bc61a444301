package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/podtracker/internal/api/apierr"
	"github.com/mcoot/podtracker/internal/api/handler"
	"github.com/mcoot/podtracker/internal/api/middleware"
	"github.com/mcoot/podtracker/internal/api/response"
	sharedmw "github.com/mcoot/podtracker/internal/middleware"
	"github.com/mcoot/podtracker/internal/services/auth"
	"github.com/mcoot/podtracker/internal/services/deck"
	"github.com/mcoot/podtracker/internal/services/game"
	"github.com/mcoot/podtracker/internal/services/pod"
	"github.com/mcoot/podtracker/internal/services/user"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Guard          *auth.Guard
	UserService    *user.Service
	DeckService    *deck.Service
	PodController  *pod.Controller
	GameController *game.Controller
	// Registry receives the HTTP metrics and is served on /metrics.
	// If nil, metrics are not collected.
	Registry *prometheus.Registry
	// Health reports whether backing stores are reachable (optional)
	Health func(ctx context.Context) error
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.UserService)
	deckHandler := handler.NewDeckHandler(cfg.DeckService)
	podHandler := handler.NewPodHandler(cfg.PodController)
	gameHandler := handler.NewGameHandler(cfg.GameController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Guard)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmw.Logging(cfg.Logger))
	if cfg.Registry != nil {
		api.Use(sharedmw.NewMetrics(cfg.Registry).Middleware)
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Health check endpoint (no auth)
	health := healthHandler(cfg.Health, cfg.Logger)
	r.HandleFunc("/health", health).Methods(http.MethodGet)
	api.HandleFunc("/health", health).Methods(http.MethodGet)

	// Account routes (no auth required for registering and logging in)
	api.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", userHandler.Login).Methods(http.MethodPost)

	// Everything else requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/logout", userHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/users/me", userHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me", userHandler.DeleteMe).Methods(http.MethodDelete)

	protected.HandleFunc("/decks", deckHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/decks", deckHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/decks/{id}", deckHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/decks/{id}", deckHandler.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/decks/{id}", deckHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/pods", podHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/pods", podHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/pods/{id}", podHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/pods/{id}", podHandler.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/pods/{id}", podHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/pods/{id}/members", podHandler.AddMembers).Methods(http.MethodPost)

	protected.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}", gameHandler.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)

	return r
}

func healthHandler(check func(ctx context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.Warn("health check failed", slog.String("error", err.Error()))
				response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
	}
}
