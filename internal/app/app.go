package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"catnorm/internal/config"
	apperrors "catnorm/internal/errors"
	"catnorm/internal/infrastructure"
	customMiddleware "catnorm/internal/middleware"
	"catnorm/internal/services"
	handlers "catnorm/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	ErrorHandler  *apperrors.ErrorHandler
	OTelProviders *infrastructure.OTelProviders

	serveErr chan error
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Normalization *services.NormalizationService
	Health        *services.HealthService
}

// NewServices builds the services shared by the CLI and the HTTP server.
// Column metrics and spans are recorded on providers when it is non-nil.
func NewServices(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*ServiceContainer, error) {
	opts := []services.Option{services.WithLogger(infrastructure.WithComponent(logger, "normalization_service"))}
	if providers != nil {
		metrics, err := infrastructure.CreateNormalizationMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create normalization metrics: %w", err)
		}
		opts = append(opts, services.WithMetrics(metrics), services.WithTracer(providers.Tracer))
	}

	normalization, err := services.NewNormalizationService(cfg.Normalize, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create normalization service: %w", err)
	}

	return &ServiceContainer{
		Normalization: normalization,
		Health:        services.NewHealthService(config.AppVersion, logger),
	}, nil
}

// NewApplication creates a new application instance with dependency injection.
// Trace output of the stdout exporter goes to traceOut.
func NewApplication(cfg *config.Config, logger *slog.Logger, traceOut io.Writer) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger, traceOut)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	svc, err := NewServices(cfg, logger, providers)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		Services:      svc,
		ErrorHandler:  apperrors.NewErrorHandler(logger, false),
		OTelProviders: providers,
	}
	a.setupRouter()
	a.createServer()
	return a, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → OTel → Logger → Recoverer → RateLimit → Deadline
	r.Use(customMiddleware.RequestID)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))

	if a.Config.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.RateLimit.RPS,
			a.Config.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	normalize := handlers.NewNormalizeHandler(
		a.Services.Normalization,
		a.Config.Server.MaxBodyBytes,
		a.Logger,
		a.ErrorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/health", health.Routes())
		r.Get("/version", health.Version)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Deadline(a.Config.Server.RequestTimeout))
			r.Mount("/v1", normalize.Routes())
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
	a.serveErr = make(chan error, 1)
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
			cancel()
		}
	}()

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until ctx is cancelled or the process is interrupted
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "Received shutdown signal")

	if err := a.Stop(ctx); err != nil {
		return err
	}
	select {
	case err := <-a.serveErr:
		return fmt.Errorf("server failed: %w", err)
	default:
		return nil
	}
}
