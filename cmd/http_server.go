package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/interview-console/api"
	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/core/events"
	"github.com/frahmantamala/interview-console/internal/draft"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/frahmantamala/interview-console/internal/transport"
	"github.com/frahmantamala/interview-console/internal/transport/middleware"
	"github.com/frahmantamala/interview-console/internal/transport/rest"
	"github.com/frahmantamala/interview-console/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	Gateway    *atsgateway.Client
	DraftStore draft.Store
	EventBus   *events.EventBus
	Router     *chi.Mux
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "backend", deps.Config.Backend.BaseURL, "draft_store", deps.Config.Drafts.Store)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.DraftStore.Close()
			os.Exit(1)
		}
	}

	deps.EventBus.Wait()
	deps.DraftStore.Close()
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	log := deps.Logger
	base := transport.NewBaseHandler(log)

	companyService := company.NewService(deps.Gateway, deps.EventBus, log)
	interviewService := interview.NewService(deps.Gateway, companyService, deps.EventBus, interview.Config{
		PageSize:      cfg.Interviews.PageSize,
		CalendarLimit: cfg.Interviews.CalendarLimit,
		Location:      cfg.Interviews.Location(),
	}, log)
	draftService := draft.NewService(deps.DraftStore, deps.Gateway, companyService, deps.EventBus, draft.Config{
		TTL:      cfg.Drafts.TTL,
		Location: cfg.Interviews.Location(),
	}, log)

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Checks: map[string]rest.Pinger{
			"backend": deps.Gateway,
			"drafts":  deps.DraftStore,
		},
		Now: time.Now,
	}
	if cfg.Server.ValidateRequests {
		validator, err := middleware.OpenAPIValidator(api.OpenAPI, log)
		if err != nil {
			return err
		}
		opts.Validator = validator
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Interview: interview.NewHandler(base, interviewService),
		Draft:     draft.NewHandler(base, draftService),
		Company:   company.NewHandler(base, companyService),
	}, opts, log)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.L()

	store, err := initDraftStore(config.Drafts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize draft store: %w", err)
	}

	bus := events.NewEventBus(log)
	events.SubscribeAudit(bus, log)

	gateway := atsgateway.NewClient(atsgateway.Config{
		BaseURL: config.Backend.BaseURL,
		Timeout: config.Backend.Timeout,
	}, log)

	return &Dependencies{
		Config:     config,
		Gateway:    gateway,
		DraftStore: store,
		EventBus:   bus,
		Router:     chi.NewRouter(),
		Logger:     log,
	}, nil
}

// initDraftStore opens the configured draft store; valkey is pinged on open.
func initDraftStore(cfg internal.DraftsConfig) (draft.Store, error) {
	switch cfg.Store {
	case internal.DraftStoreValkey:
		return draft.NewValkeyStore(cfg.ValkeyAddr)
	default:
		return draft.NewMemoryStore(), nil
	}
}
