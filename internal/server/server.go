package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/history"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/search"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/session"
	database "github.com/FACorreiaa/frugal-finder/internal/db"
	"github.com/FACorreiaa/frugal-finder/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	dbPool   *pgxpool.Pool
	redis    *redis.Client
	history  history.Service
	sessions *session.Registry
	router   http.Handler
}

// New wires the history backend, the search service and the session registry.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	store, err := s.setupHistoryStore(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.history = history.NewService(store, cfg.Repositories.HistoryBackend, cfg.Search.HistoryLimit, logger.Named("history"))

	searcher, err := s.setupSearch(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.sessions = session.NewRegistry(searcher, s.history, cfg.Search.DefaultLocation, cfg.Search.SessionTTL, logger.Named("session"))
	return s, nil
}

func (s *Server) setupSearch(ctx context.Context) (*search.ServiceImpl, error) {
	var provider search.Provider
	if s.cfg.ProviderConfigured() {
		gemini, err := search.NewGeminiProvider(ctx, s.cfg.Gemini.APIKey, s.logger.Named("gemini"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		provider = gemini
		s.logger.Info("Gemini provider configured", zap.String("model", s.cfg.Gemini.Model))
	} else {
		s.logger.Warn("GEMINI_API_KEY not set, searches return placeholder data")
	}

	return search.NewService(provider, s.cfg.Gemini.Model, s.logger.Named("search")).
		WithFallbackDelay(s.cfg.Search.FallbackDelay), nil
}

func (s *Server) setupHistoryStore(ctx context.Context) (history.Store, error) {
	switch s.cfg.Repositories.HistoryBackend {
	case config.HistoryPostgres:
		pool, err := s.setupDatabase(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		s.dbPool = pool
		return history.NewPostgresStore(pool, s.logger.Named("history.postgres")), nil

	case config.HistoryRedis:
		rc := s.cfg.Repositories.Redis
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
		}
		s.redis = client
		s.logger.Info("Connected to Redis", zap.String("addr", rc.Addr), zap.Int("db", rc.DB))
		return history.NewRedisStore(client, s.cfg.Search.SessionTTL), nil

	default:
		return history.NewMemoryStore(s.cfg.Search.SessionTTL), nil
	}
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	pg := s.cfg.Repositories.Postgres
	connURL, err := database.ConnectionURL(pg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database configuration: %w", err)
	}

	pool, err := database.Init(ctx, connURL, pg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database at %s:%s is not reachable", pg.Host, pg.Port)
	}
	s.logger.Info("Connected to Postgres",
		zap.String("host", pg.Host),
		zap.String("port", pg.Port),
		zap.String("database", pg.DB))

	if err = database.RunMigrations(connURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return pool, nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
}

func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Sessions() *session.Registry {
	return s.sessions
}

func (s *Server) History() history.Service {
	return s.history
}

func (s *Server) Config() *config.Config {
	return s.cfg
}

// Close closes all server resources
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}
