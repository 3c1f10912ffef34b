package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"complaintreport/internal/config"
	apierrors "complaintreport/internal/errors"
	"complaintreport/internal/infrastructure"
	customMiddleware "complaintreport/internal/middleware"
	"complaintreport/internal/services"
	handlers "complaintreport/internal/transport/http"
	"complaintreport/pkg/contracts"
)

// AppName is the human-readable application name
const AppName = "Complaint Report by Branch"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	ReportService *services.ReportService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	listener net.Listener
}

// NewApplication creates a new application instance from cfg. The logger is
// injected so that the caller owns its lifetime.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Bool("reference_file_configured", cfg.HasReferenceFile()))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()
	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.ReportService = services.NewReportService(a.Config.Paths, a.Logger,
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(a.Metrics),
	)
	a.HealthService = services.NewHealthService(contracts.Version, a.ReportService, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// Ordering: RequestID → RealIP → OTel → Logger → Recoverer → headers → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return err
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.ErrorHandler))
		r.Use(customMiddleware.Compress(5))

		pageHandler := handlers.NewPageHandler(contracts.Version, a.Config.HasReferenceFile(), a.Logger)
		r.Get("/", pageHandler.ServeIndex)

		r.Route("/api", func(r chi.Router) {
			a.setupAPIRoutes(r)
		})
	})

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/version", healthHandler.Version)
	r.Mount("/health", healthHandler.Routes())

	r.Group(func(r chi.Router) {
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		reportHandler := handlers.NewReportHandler(a.ReportService, validation,
			a.Config.Server.MaxUploadBytes, a.Logger, a.ErrorHandler)
		r.With(validation.ContentTypeValidator("multipart/form-data")).Mount("/report", reportHandler.Routes())

		clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)
		r.With(validation.ContentTypeValidator("application/json")).Post("/client-log", clientLogHandler.Handle)
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Addr returns the address the server listens on once started.
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Start starts the application. Serve errors cancel the context through
// cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.performStartupHealthCheck(ctx)

	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = listener

	go func() {
		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Addr()),
		slog.String("level", a.Config.Logging.Level))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
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

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(ctx)
}

// performStartupHealthCheck warns about a configured reference file that
// cannot be found, since uploads without a MOP list will fail until it
// appears.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	if err := a.ReportService.CheckReferenceFile(); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings",
			slog.String("reference_file", a.Config.Paths.ReferenceFile),
			slog.String("warnings", err.Error()))
	}
}
