package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/composer-workspace-service/internal/config"
	"github.com/maxviazov/composer-workspace-service/internal/handler"
	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/logger"
	"github.com/maxviazov/composer-workspace-service/internal/publish"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
	"github.com/maxviazov/composer-workspace-service/internal/repository/memory"
	"github.com/maxviazov/composer-workspace-service/internal/repository/postgres"
	"github.com/maxviazov/composer-workspace-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("👋 Service stopped")
}

func configPath() string {
	if p := os.Getenv("APP_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// stores is the storage backend selected by storage.driver.
type stores struct {
	pinger        repository.Pinger
	tx            repository.TxManager
	notifications repository.NotificationRepository
	projects      repository.ProjectRepository
	targets       repository.PublishTargetRepository
	history       repository.PublishHistoryRepository
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (*stores, error) {
	if cfg.Storage.Driver != "postgres" {
		m := memory.New()
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &stores{
			pinger:        m,
			tx:            m,
			notifications: m.Notifications(),
			projects:      m.Projects(),
			targets:       m.Targets(),
			history:       m.History(),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		log.Info().Msg("✅ Migrations applied")
	}
	return &stores{
		pinger:        postgres.NewPinger(pool),
		tx:            postgres.NewTxManager(pool),
		notifications: postgres.NewNotificationRepository(pool),
		projects:      postgres.NewProjectRepository(pool),
		targets:       postgres.NewPublishTargetRepository(pool),
		history:       postgres.NewPublishHistoryRepository(pool),
		close:         pool.Close,
	}, nil
}

func newPublisher(cfg config.PublishConfig, log zerolog.Logger) publish.Publisher {
	if cfg.WebhookURL == "" {
		return publish.NewLogPublisher(log)
	}
	return publish.NewWebhookPublisher(cfg.WebhookURL, time.Duration(cfg.TimeoutSeconds)*time.Second, log)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, &log)
	if err != nil {
		return err
	}
	defer st.close()

	tr, err := i18n.New(cfg.I18n.DefaultLocale)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	registry, err := publish.NewRegistry(cfg.Publish.Types)
	if err != nil {
		return fmt.Errorf("publish types: %w", err)
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(log), handler.Metrics(), handler.Language(tr))
	handler.Register(r, st.pinger, tr, handler.Services{
		Notifications: service.NewNotificationService(st.notifications, tr, log),
		Projects:      service.NewProjectService(st.projects, tr, nil, log),
		Targets:       service.NewTargetService(st.targets, st.tx, registry, tr, log),
		Publish:       service.NewPublishService(st.targets, st.history, newPublisher(cfg.Publish, log), tr, nil, log),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Int("publish_types", len(registry.Types())).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := time.Duration(cfg.App.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Info().Dur("timeout", timeout).Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
