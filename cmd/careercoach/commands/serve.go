package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/backend"
	"github.com/WaghmarePravinn/ai-career-coach/internal/config"
	"github.com/WaghmarePravinn/ai-career-coach/internal/events"
	"github.com/WaghmarePravinn/ai-career-coach/internal/gateway"
	"github.com/WaghmarePravinn/ai-career-coach/internal/handler"
	"github.com/WaghmarePravinn/ai-career-coach/internal/health"
	"github.com/WaghmarePravinn/ai-career-coach/internal/identity"
	"github.com/WaghmarePravinn/ai-career-coach/internal/llm"
	"github.com/WaghmarePravinn/ai-career-coach/internal/middleware"
	"github.com/WaghmarePravinn/ai-career-coach/internal/state"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting gateway server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "ai-career-coach", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect the optional event mirror
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		natsClient, err := events.Connect(events.Config{URL: cfg.NATSURL, Token: cfg.NATSToken}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, event mirror disabled")
		} else {
			defer natsClient.Close()
			publisher = events.NewPublisher(natsClient)
			if err := publisher.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure events stream, event mirror disabled")
				publisher = nil
			}
		}
	}

	// Initialize the cloud inference client
	var cloudClient llm.Client
	if cfg.DefaultProvider == string(llm.ProviderAnthropic) && cfg.AnthropicAPIKey != "" {
		cloudClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	} else if cfg.OpenAIAPIKey != "" {
		cloudClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else if cfg.AnthropicAPIKey != "" {
		cloudClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if err != nil {
		log.Warn("failed to create cloud inference client, fallback disabled")
		cloudClient = nil
	}

	// Local backend client and health monitor
	backendClient := backend.New(cfg.BackendURL, cfg.BackendTimeout)
	monitor := health.NewMonitor(backendClient, cfg.HealthProbeTimeout, cfg.HealthInterval, log)
	monitor.Start(ctx)
	defer monitor.Stop()

	// Core wiring
	registry := state.NewRegistry(cfg.HistoryWindow)
	resolver := identity.NewClaimsResolver()
	gw := gateway.New(backendClient, cloudClient, monitor, publisher, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(gw, monitor)
	chatHandler := handler.NewChatHandler(gw, registry, resolver, log)
	analysisHandler := handler.NewAnalysisHandler(gw, resolver, log)
	historyHandler := handler.NewHistoryHandler(gw, resolver, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, cfg.AuthRequired))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Send)
		r.Post("/resume", analysisHandler.Upload)
		r.Post("/roadmap", analysisHandler.Roadmap)
		r.Post("/critique", analysisHandler.Critique)

		r.Get("/history", historyHandler.List)
		r.Get("/backend/health", healthHandler.Backend)

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/new", chatHandler.New)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/messages", historyHandler.Messages)
				r.Post("/activate", chatHandler.Activate)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown")
	}

	log.Info("server stopped")
	return nil
}
