package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/podtracker/internal/api"
	"github.com/mcoot/podtracker/internal/config"
	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/dependencies/ids"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/auth"
	"github.com/mcoot/podtracker/internal/services/deck"
	"github.com/mcoot/podtracker/internal/services/game"
	"github.com/mcoot/podtracker/internal/services/pod"
	"github.com/mcoot/podtracker/internal/services/user"
	"github.com/mcoot/podtracker/internal/storage"
	"github.com/mcoot/podtracker/internal/storage/memory"
	"github.com/mcoot/podtracker/internal/storage/postgres"
	redisstorage "github.com/mcoot/podtracker/internal/storage/redis"
	"github.com/mcoot/podtracker/internal/storage/revocation"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	Revocations revocation.Store

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Auth
	Credentials *auth.Credentials
	Guard       *auth.Guard

	// Services
	UserService    *user.Service
	DeckService    *deck.Service
	PodController  *pod.Controller
	GameController *game.Controller

	// Metrics
	Registry *prometheus.Registry

	logger     *slog.Logger
	pingers    map[string]pinger
	closers    []io.Closer
	routerOnce sync.Once
	router     http.Handler
}

type pinger interface {
	Ping(ctx context.Context) error
}

// New creates a new application with all dependencies wired from cfg.
// The caller must Close the app to release database and Redis connections.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	var closers []io.Closer
	pingers := map[string]pinger{}
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	// Create storage based on type
	var store storage.Storage
	switch cfg.Storage.Type {
	case "", config.StorageMemory:
		store = memory.New()
	case config.StoragePostgres:
		if cfg.Storage.MigrateOnStart {
			if err := postgres.Migrate(cfg.Storage.DatabaseURL); err != nil {
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		pgStore, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Storage.DatabaseURL,
			MaxOpenConns:    cfg.Storage.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		store = pgStore
		closers = append(closers, pgStore)
		pingers["database"] = pgStore
	default:
		return nil, fmt.Errorf("invalid storage type %q: must be %s or %s", cfg.Storage.Type, config.StorageMemory, config.StoragePostgres)
	}

	// Create revocation store based on type
	var revocations revocation.Store
	switch cfg.Revocation.Type {
	case "", config.RevocationMemory:
		revocations = revocation.NewMemory(clk)
	case config.RevocationRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Revocation.RedisURL
		redisRevocations, err := redisstorage.New(ctx, redisCfg, clk)
		if err != nil {
			closeAll()
			return nil, err
		}
		revocations = redisRevocations
		closers = append(closers, redisRevocations)
		pingers["redis"] = redisRevocations
	default:
		closeAll()
		return nil, fmt.Errorf("invalid revocation type %q: must be %s or %s", cfg.Revocation.Type, config.RevocationMemory, config.RevocationRedis)
	}

	authCfg := auth.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}
	podCfg := pod.Config{NameScope: model.PodNameScope(cfg.Pods.NameScope)}

	app, err := newWithDependencies(store, revocations, clk, ids.New(), authCfg, podCfg, logger)
	if err != nil {
		closeAll()
		return nil, err
	}
	app.pingers = pingers
	app.closers = closers

	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	revocations revocation.Store,
	clk clock.Clock,
	idGen ids.Generator,
	authCfg auth.Config,
	podCfg pod.Config,
	logger *slog.Logger,
) (*App, error) {
	credentials, err := auth.NewCredentials(authCfg, clk, revocations)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:        store,
		Revocations:    revocations,
		Clock:          clk,
		IDs:            idGen,
		Credentials:    credentials,
		Guard:          auth.NewGuard(credentials),
		UserService:    user.New(store, credentials, clk, idGen, logger),
		DeckService:    deck.New(store, clk, idGen, logger),
		PodController:  pod.NewController(store, clk, idGen, podCfg, logger),
		GameController: game.NewController(store, clk, idGen, logger),
		Registry:       prometheus.NewRegistry(),
		logger:         logger,
		pingers:        map[string]pinger{},
	}, nil
}

// Router returns the HTTP API over the app's services. It is built once
// because the HTTP metrics register on the app's registry.
func (a *App) Router() http.Handler {
	a.routerOnce.Do(func() {
		a.router = api.NewRouter(api.RouterConfig{
			Logger:         a.logger,
			Guard:          a.Guard,
			UserService:    a.UserService,
			DeckService:    a.DeckService,
			PodController:  a.PodController,
			GameController: a.GameController,
			Registry:       a.Registry,
			Health:         a.Health,
		})
	})
	return a.router
}

// Health pings every external backend the app depends on
func (a *App) Health(ctx context.Context) error {
	var errs []error
	for name, p := range a.pingers {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases database and Redis connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
