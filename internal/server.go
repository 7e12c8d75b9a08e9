package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ghaniswara/algolove/internal/config"
	"github.com/ghaniswara/algolove/internal/datastore/postgres"
	redisClient "github.com/ghaniswara/algolove/internal/datastore/redis"
	"github.com/ghaniswara/algolove/internal/datastore/upstream"
	"github.com/ghaniswara/algolove/internal/logger"
	"github.com/ghaniswara/algolove/internal/middleware"
	"github.com/ghaniswara/algolove/internal/observability"
	actionRepo "github.com/ghaniswara/algolove/internal/repository/action"
	matchRepo "github.com/ghaniswara/algolove/internal/repository/match"
	sessionRepo "github.com/ghaniswara/algolove/internal/repository/session"
	routesV1 "github.com/ghaniswara/algolove/internal/routes/v1"
	"github.com/ghaniswara/algolove/internal/usecase/match"
	"github.com/ghaniswara/algolove/pkg/http_util"
	"github.com/go-redis/redis"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const (
	serviceName     = "algolove"
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	writer     io.Writer
	httpServer *http.Server
	echo       *echo.Echo
	log        logger.Logger
	metrics    *observability.Metrics
	database   *gorm.DB
	redis      *redis.Client
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM.
func Run(ctx context.Context, w io.Writer, env string) error {
	cfg, err := config.NewConfig(env)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := NewServer(ctx, w, cfg, logger.NewStructured(cfg.Log.Level, cfg.Log.Format))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// NewServer wires the match API. Request contexts keep ctx's values but not
// its cancellation, so in-flight requests finish during Shutdown. Redis and Postgres are optional: when they
// are not configured or cannot be reached, the expired-session registry and
// the action audit log are disabled.
func NewServer(ctx context.Context, w io.Writer, cfg *config.Config, log logger.Logger) (*Server, error) {
	registry := prometheus.NewRegistry()
	metrics, err := observability.New(serviceName, registry)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	gateway, err := upstream.NewClient(upstream.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}

	server := &Server{
		writer:  w,
		log:     log,
		metrics: metrics,
	}

	if cfg.Redis.Enabled() {
		rdb, err := redisClient.NewRedis(cfg.Redis.Addr(), cfg.Redis.Password)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, expired-session registry disabled", map[string]interface{}{
				"addr": cfg.Redis.Addr(),
			})
		} else {
			server.redis = rdb
		}
	}

	if cfg.Postgres.Enabled() {
		db, err := postgres.InitializeDB(cfg.Postgres.DSN())
		if err != nil {
			log.WithError(err).Warn("postgres unavailable, action audit disabled", map[string]interface{}{
				"host": cfg.Postgres.Host,
			})
		} else {
			if err := postgres.Migrate(db, cfg.MigrationsDir); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			server.database = db
		}
	}

	sessions := sessionRepo.NewSessionRepo(server.redis, cfg.Session.ExpiredTTL)
	actions := actionRepo.NewActionRepo(server.database)
	matchCase := match.NewMatchUseCase(
		matchRepo.NewMatchRepo(gateway, cfg.Upstream.APIKey),
		sessions,
		actions,
		log,
	)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = server.handleError
	e.Use(middleware.RequestLogger(log))

	server.echo = e
	server.RegisterRoutes(e, registry)
	routesV1.InitV1Routes(e, matchCase, middleware.SessionMiddleware(cfg.Session.CookieName, sessions, log))

	server.httpServer = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	return server, nil
}

func (s *Server) RegisterRoutes(e *echo.Echo, registry *prometheus.Registry) {
	e.GET("/healthz", s.handleHealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) StartServer() error {
	fmt.Fprintf(s.writer, "Server starting on %s\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains HTTP traffic, then releases the metrics provider and the
// optional stores.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if mErr := s.metrics.Shutdown(ctx); mErr != nil {
		err = errors.Join(err, mErr)
	}

	if s.redis != nil {
		if rErr := s.redis.Close(); rErr != nil {
			err = errors.Join(err, rErr)
		}
	}

	if s.database != nil {
		if sqlDB, dErr := s.database.DB(); dErr == nil {
			err = errors.Join(err, sqlDB.Close())
		}
	}

	_ = s.log.Sync()

	return err
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleError renders framework errors (unknown route, wrong method) in the
// same body shape as application errors.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, http_util.HTTPErrorResponse{
			Message: fmt.Sprint(he.Message),
			Code:    strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")),
		})
		return
	}

	s.log.WithError(err).Error("unhandled error", map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	_ = http_util.EncodeError(c, err)
}
