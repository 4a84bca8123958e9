package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"NewsPortal/internal/config"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/usecase"
)

type articleService interface {
	List(ctx context.Context, q usecase.ListQuery) ([]domain.Article, error)
	Get(ctx context.Context, id string) (domain.Article, error)
	Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error)
	ToggleFeatured(ctx context.Context, id string) (bool, error)
	ToggleBreaking(ctx context.Context, id string) (bool, error)
	Breaking(ctx context.Context) ([]domain.Article, error)
	Ticker(ctx context.Context) ([]domain.TickerItem, error)
	Stats(ctx context.Context) (domain.NewsStats, error)
	AdminStats(ctx context.Context) (domain.AdminStats, error)
}

type settingsService interface {
	Current(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
}

type newsWriter interface {
	Generate(ctx context.Context, category string, count int) ([]domain.Article, error)
	GenerateAll(ctx context.Context) usecase.GenerateAllResult
}

type breakingTrigger interface {
	TriggerNow(ctx context.Context) ([]domain.Article, error)
	TriggerPublic(ctx context.Context) ([]domain.Article, error)
}

type editionService interface {
	Today(ctx context.Context) (usecase.Edition, error)
}

// Deps are the use cases and handlers served by the HTTP surface.
type Deps struct {
	Articles articleService
	Settings settingsService
	Writer   newsWriter
	Breaking breakingTrigger
	Edition  editionService

	WebSocket http.Handler
	Metrics   http.Handler
	// ImagesDir is served under /api/images when set.
	ImagesDir    string
	HealthChecks []HealthCheck
	Logger       *slog.Logger
}

// Server is the echo-based HTTP API.
type Server struct {
	echo   *echo.Echo
	server config.ServerConfig
	admin  config.AdminConfig
	logger *slog.Logger

	articles articleService
	settings settingsService
	writer   newsWriter
	breaking breakingTrigger
	edition  editionService

	websocketHandler http.Handler
	metricsHandler   http.Handler
	imagesDir        string
	healthChecks     []HealthCheck
	startTime        time.Time
}

// NewServer builds the server and registers every route.
func NewServer(server config.ServerConfig, admin config.AdminConfig, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		echo:             e,
		server:           server,
		admin:            admin,
		logger:           logger,
		articles:         deps.Articles,
		settings:         deps.Settings,
		writer:           deps.Writer,
		breaking:         deps.Breaking,
		edition:          deps.Edition,
		websocketHandler: deps.WebSocket,
		metricsHandler:   deps.Metrics,
		imagesDir:        deps.ImagesDir,
		healthChecks:     deps.HealthChecks,
		startTime:        time.Now(),
	}

	e.HTTPErrorHandler = errorHandler(logger)
	srv.registerRoutes()

	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	if err := s.echo.Start(s.server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
