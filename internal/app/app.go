package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"costpulse/internal/config"
	"costpulse/internal/infrastructure"
	customMiddleware "costpulse/internal/middleware"
	"costpulse/internal/reader"
	"costpulse/internal/services"
	handlers "costpulse/internal/transport/http"
)

const (
	Version = config.AppVersion
	AppName = config.AppName
)

// Application is the main application container wiring configuration,
// services, readers and the HTTP router.
type Application struct {
	Config          *config.Config
	Paths           *config.Paths
	Router          *chi.Mux
	Server          *http.Server
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
	SheetsReader    *reader.SheetsReader
	Metrics         *infrastructure.Metrics
	Logger          *slog.Logger
}

// NewApplication creates a new application instance with dependency
// injection. configPath may be empty; configuration then comes from
// defaults and the environment only.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the analysis pipeline and its optional
// collaborators.
func (a *Application) initializeServices() error {
	a.AnalysisService = services.NewAnalysisServiceWithLogger(a.Config, a.Logger)
	a.AnalysisService.SetCounters(a.Metrics)
	a.HealthService = services.NewHealthService(Version, a.Paths, a.Logger)

	// The Google Sheets reader needs either a credentials file next to
	// the executable or an API key. Without both the /sheet endpoint
	// stays disabled.
	sheetsCfg := reader.SheetsReaderConfig{
		APIKey:    a.Config.Sheets.APIKey,
		ReadRange: a.Config.Sheets.ReadRange,
		Logger:    a.Logger,
	}
	credentialsPath := a.Paths.GetCredentialsPath()
	if config.FileExists(credentialsPath) {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return fmt.Errorf("failed to read credentials file: %w", err)
		}
		sheetsCfg.CredentialsJSON = data
	}

	if sheetsCfg.APIKey == "" && len(sheetsCfg.CredentialsJSON) == 0 {
		a.Logger.Warn("Google Sheets access not configured",
			slog.String("credentials_path", credentialsPath),
			slog.String("action", "remote sheet analysis will be unavailable"))
		return nil
	}

	sheetsReader, err := reader.NewSheetsReader(context.Background(), sheetsCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize sheets reader: %w", err)
	}
	a.SheetsReader = sheetsReader
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))
	r.Use(customMiddleware.CORS(customMiddleware.DefaultCORSConfig()))
	r.Use(a.Metrics.HTTPMiddleware)

	if a.Config.Server.RateLimitRPS > 0 {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimitRPS,
			a.Config.Server.RateLimitBurst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)

	// Prometheus metrics endpoint outside the /api group.
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validation := customMiddleware.NewValidationMiddleware(a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		analysisHandler := handlers.NewAnalysisHandler(
			a.AnalysisService,
			a.SheetsReader,
			validation,
			a.Config.Server.MaxUploadBytes,
			a.Logger,
		)
		r.Mount("/analyze", analysisHandler.Routes())

		reportsHandler := handlers.NewReportsHandler(a.Paths, a.Logger)
		r.Mount("/reports", reportsHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in the background.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.Logger.InfoContext(ctx, "Application paths",
		slog.String("executable_dir", a.Paths.ExecutableDir),
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("reports_dir", a.Paths.ReportsDir),
		slog.String("logs_dir", a.Paths.LogsDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
