package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"NewsPortal/internal/config"
	"NewsPortal/internal/infrastructure/eventpublisher"
	"NewsPortal/internal/infrastructure/httpserver"
	"NewsPortal/internal/infrastructure/images"
	"NewsPortal/internal/infrastructure/llm"
	"NewsPortal/internal/infrastructure/parser"
	"NewsPortal/internal/infrastructure/pdf"
	"NewsPortal/internal/infrastructure/scheduler"
	"NewsPortal/internal/infrastructure/storage"
	"NewsPortal/internal/infrastructure/telegram"
	"NewsPortal/internal/infrastructure/websocket"
	"NewsPortal/internal/logging"
	"NewsPortal/internal/metrics"
	"NewsPortal/internal/ports"
	"NewsPortal/internal/scanner"
	"NewsPortal/internal/usecase"
)

const (
	providerOllama = "ollama"
	// defaultShutdownTimeout is used when the config leaves it unset.
	defaultShutdownTimeout = 10 * time.Second
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	server    *httpserver.Server
	scheduler *usecase.BreakingScheduler
	hub       *websocket.Hub
	closers   []func(context.Context) error
}

// New connects every backend and builds the runnable application.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger}
	clock := clockwork.NewRealClock()

	articles, settingsStore, err := a.openStores(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	reg := metrics.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(reg)
	wsMetrics := metrics.NewWebSocketMetrics(reg)

	registry := scanner.NewRegistry()
	httpOpts := parser.HTTPOptions{
		Client:    &http.Client{Timeout: cfg.Breaking.RequestTimeout},
		UserAgent: cfg.Breaking.UserAgent,
	}
	registry.Register(parser.NewHeadlineScanner(httpOpts, baseLogger.With("component", "scanner.headline")))
	registry.Register(parser.NewFeedScanner(httpOpts, baseLogger.With("component", "scanner.rss")))

	source := parser.NewStrategySource(registry, cfg.Sites, parser.StrategySourceOptions{
		MaxCandidates:  cfg.Breaking.MaxCandidates,
		MinTitleLength: cfg.Breaking.MinTitleLength,
		Metrics:        pipelineMetrics,
	}, baseLogger.With("component", "source"))

	a.hub = websocket.NewHub(wsMetrics, baseLogger.With("component", "hub"))
	publisher := eventpublisher.NewFanout(websocket.NewPublisher(a.hub), baseLogger.With("component", "publisher"), a.mirrors()...)

	if err := os.MkdirAll(cfg.Images.Dir, 0o755); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	imageProcessor := images.NewProcessor(nil, cfg.Images.Dir, cfg.Images.MaxWidth, cfg.Images.MaxHeight)

	settings := usecase.NewSettingsService(settingsStore, cfg.AI.APIKey, clock, baseLogger.With("component", "settings"))

	pipeline := usecase.NewBreakingPipeline(usecase.PipelineDeps{
		Source:    source,
		Store:     articles,
		Publisher: publisher,
		Images:    imageProcessor,
		Metrics:   pipelineMetrics,
		Clock:     clock,
		Logger:    baseLogger.With("component", "pipeline"),
	})
	loop := scheduler.NewLoop(clock, scheduler.DefaultPanicBackoff, baseLogger.With("component", "scheduler"))
	a.scheduler = usecase.NewBreakingScheduler(loop, pipeline, settings, pipelineMetrics, baseLogger.With("component", "breaking"))

	generator, err := a.textGenerator()
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	writer := usecase.NewNewsWriter(usecase.WriterDeps{
		Generator:   generator,
		Store:       articles,
		Settings:    settings,
		KeyOptional: cfg.AI.Provider == providerOllama,
		Clock:       clock,
		Logger:      baseLogger.With("component", "writer"),
	})

	edition := usecase.NewEditionService(articles, pdf.NewRenderer(cfg.Edition.WkhtmltopdfPath),
		a.editionCache(ctx), cfg.Edition.CacheTTL, clock, baseLogger.With("component", "edition"))

	a.server = httpserver.NewServer(cfg.Server, cfg.Admin, httpserver.Deps{
		Articles:  usecase.NewArticleService(articles, clock, baseLogger.With("component", "articles")),
		Settings:  settings,
		Writer:    writer,
		Breaking:  a.scheduler,
		Edition:   edition,
		WebSocket: websocket.NewHandler(a.hub, baseLogger.With("component", "ws")),
		Metrics:   metrics.Handler(reg),
		ImagesDir: cfg.Images.Dir,
		HealthChecks: []httpserver.HealthCheck{
			{Name: "store", Check: articles.Ping},
		},
		Logger: baseLogger.With("component", "http"),
	})

	return a, nil
}

// Run starts the scheduler and HTTP server and blocks until ctx is done or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- a.server.Start() }()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-serverErr:
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	a.hub.CloseAll()
	if err := a.close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if runErr != nil {
		return runErr
	}
	return errors.Join(errs...)
}

func (a *Application) openStores(ctx context.Context) (ports.ArticleStore, ports.SettingsStore, error) {
	db := a.cfg.Database
	switch db.Driver {
	case config.DriverPostgres:
		conn, err := storage.OpenPostgres(ctx, db.DSN)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return conn.Close() })
		repo := storage.NewPostgresRepository(conn)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		a.logger.Info("using postgres store")
		return repo, repo, nil

	case config.DriverMongo:
		client, err := storage.OpenMongo(ctx, db.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		repo := storage.NewMongoRepository(client, db.MongoDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		a.logger.Info("using mongo store", "database", db.MongoDatabase)
		return repo, repo, nil

	case config.DriverMemory, "":
		a.logger.Warn("using in-memory store, data is lost on restart")
		repo := storage.NewMemoryRepository()
		return repo, repo, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", db.Driver)
}

// editionCache returns nil when Redis is not configured or unreachable.
func (a *Application) editionCache(ctx context.Context) ports.EditionCache {
	if a.cfg.Redis.URL == "" {
		return nil
	}
	rdb, err := storage.OpenRedis(ctx, a.cfg.Redis.URL)
	if err != nil {
		a.logger.Warn("edition cache disabled", "error", err)
		return nil
	}
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	return storage.NewRedisEditionCache(rdb)
}

func (a *Application) mirrors() []ports.EventPublisher {
	if !a.cfg.Telegram.Enabled() {
		return nil
	}
	bot, err := telegram.NewBot(a.cfg.Telegram.BotToken, a.cfg.Telegram.Timeout)
	if err != nil {
		a.logger.Warn("telegram mirror disabled", "error", err)
		return nil
	}
	a.logger.Info("mirroring breaking news to telegram", "chat", a.cfg.Telegram.ChatID)
	return []ports.EventPublisher{telegram.NewNotifier(bot, a.cfg.Telegram.ChatID)}
}

func (a *Application) textGenerator() (ports.TextGenerator, error) {
	ai := a.cfg.AI
	if ai.Provider == providerOllama {
		gen, err := llm.NewOllamaGenerator(ai.Endpoint, ai.Model, ai.Timeout)
		if err != nil {
			return nil, fmt.Errorf("ollama generator: %w", err)
		}
		return gen, nil
	}
	return llm.NewOpenAIGenerator(ai.Endpoint, ai.APIKey, ai.Model, ai.Timeout), nil
}

func (a *Application) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
