package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/staffmcp/staffmcp/internal/agent"
	"github.com/staffmcp/staffmcp/internal/config"
	"github.com/staffmcp/staffmcp/internal/models"
	"github.com/staffmcp/staffmcp/internal/store"
	"github.com/staffmcp/staffmcp/internal/tools"
)

type Server struct {
	cfg      *config.Config
	http     *http.Server
	store    store.Store // held for graceful close
	registry *tools.Registry
	sessions *agent.Sessions
}

func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry, err := tools.NewEmployeeRegistry(st)
	if err != nil {
		st.Close()
		return nil, errors.Wrap(err, "build tool registry")
	}

	s := &Server{
		cfg:      cfg,
		store:    st,
		registry: registry,
		sessions: agent.NewSessions(cfg.SystemPrompt),
	}

	s.http = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     s.setupRoutes(),
		ReadTimeout: 15 * time.Second,
		// a chat turn may run for the longest allowed request timeout
		WriteTimeout: time.Duration(models.MaxChatTimeout+30) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// OpenStore connects to Postgres when a database URL is configured and
// falls back to the built-in reference data otherwise.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set - serving the built-in reference employees")
		return store.NewSeededMemoryStore(), nil
	}
	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.QueryTimeoutDuration())
	if err != nil {
		return nil, errors.Wrap(err, "open postgres store")
	}
	return pg, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Registry is the live tool registry served by discovery.
func (s *Server) Registry() *tools.Registry { return s.registry }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.store.Close()
	log.Info().Msg("data store closed")
	return err
}
