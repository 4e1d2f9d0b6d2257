// Package server implements the archmap HTTP API.
//
// The API persists diagram document versions per project, serves
// cross-version diffs, computes arrow routes, renders exports, and
// hosts short-lived editing sessions. Documents are validated on
// every write: an invalid document is never stored.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/archmap/archmap/pkg/cache"
	"github.com/archmap/archmap/pkg/store"
)

// shutdownTimeout bounds graceful shutdown on exit.
const shutdownTimeout = 10 * time.Second

// Server wires the HTTP API to its backends.
type Server struct {
	cfg      Config
	logger   *log.Logger
	store    store.VersionStore
	cache    cache.Cache
	keyer    cache.Keyer
	sessions *sessionManager
}

// New creates a server from pre-built backends. The caller owns the
// store and cache lifecycles.
func New(cfg Config, logger *log.Logger, st store.VersionStore, c cache.Cache) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		cache:    c,
		keyer:    cache.NewDefaultKeyer(),
		sessions: newSessionManager(),
	}
}

// Connect builds a server from configuration, connecting to MongoDB
// and Redis as configured. An empty mongo_uri falls back to the
// in-memory store, an empty redis_url disables caching.
func Connect(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	var st store.VersionStore
	if cfg.Store.MongoURI != "" {
		ms, err := store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database)
		if err != nil {
			return nil, err
		}
		st = ms
		logger.Info("connected to mongodb", "database", cfg.Store.Database)
	} else {
		st = store.NewMemoryStore()
		logger.Warn("no mongo_uri configured, versions are not persisted")
	}

	var c cache.Cache
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		c = rc
		logger.Info("connected to redis")
	} else {
		c = cache.NewNullCache()
	}

	return New(cfg, logger, st, c), nil
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/routes", s.handleRoutes)
		r.Post("/render", s.handleRender)

		r.Route("/projects/{project}", func(r chi.Router) {
			r.Post("/versions", s.handleSaveVersion)
			r.Get("/versions", s.handleListVersions)
			r.Get("/versions/{number}", s.handleGetVersion)
			r.Get("/diff", s.handleDiff)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleOpenSession)
			r.Get("/{id}", s.handleGetSession)
			r.Post("/{id}/ops", s.handleSessionOp)
			r.Post("/{id}/undo", s.handleSessionUndo)
			r.Delete("/{id}", s.handleCloseSession)
		})
	})

	return r
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and periodically sweeps idle sessions while running.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.sessions.sweep(now); n > 0 {
					s.logger.Debug("swept idle sessions", "count", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases backend connections.
func (s *Server) Close(ctx context.Context) error {
	cacheErr := s.cache.Close()
	if err := s.store.Close(ctx); err != nil {
		return err
	}
	return cacheErr
}
