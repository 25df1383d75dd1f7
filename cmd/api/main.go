package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/delivery-issue-api/internal/api/http"
	"github.com/spec-kit/delivery-issue-api/internal/api/http/handlers"
	"github.com/spec-kit/delivery-issue-api/internal/config"
	"github.com/spec-kit/delivery-issue-api/internal/domain"
	"github.com/spec-kit/delivery-issue-api/internal/events"
	"github.com/spec-kit/delivery-issue-api/internal/notification"
	"github.com/spec-kit/delivery-issue-api/internal/observability"
	"github.com/spec-kit/delivery-issue-api/internal/persistence"
	"github.com/spec-kit/delivery-issue-api/internal/repository"
	"github.com/spec-kit/delivery-issue-api/internal/service"
	"github.com/spec-kit/delivery-issue-api/internal/worker"
	"github.com/spec-kit/delivery-issue-api/migrations"
	"github.com/spec-kit/delivery-issue-api/pkg/util/httpclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := config.LoadRegistry(cfg.Tickets.TypesFile)
	if err != nil {
		logger.Fatal("failed to load ticket types", zap.Error(err))
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	counters, closeCounters := buildCounterStore(ctx, cfg, logger)
	closers = append(closers, closeCounters)

	ids, err := service.NewIDGenerator(cfg.Tickets.IDStrategy, registry, counters)
	if err != nil {
		logger.Fatal("failed to build id generator", zap.Error(err))
	}

	rows, closeRows, err := buildRowStore(ctx, cfg, registry, logger)
	if err != nil {
		logger.Fatal("failed to init row store", zap.Error(err))
	}
	closers = append(closers, closeRows)

	notifier := buildNotifier(cfg, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartTicketEventWorker(dispatcher, metrics, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Registry:      registry,
		IDs:           ids,
		Rows:          rows,
		Notifications: service.NewNotificationService(notifier, cfg.Notification.Timeout(), logger),
		Dispatcher:    dispatcher,
		Logger:        logger,
		StoreTimeout:  cfg.RowStore.Timeout(),
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	deps := map[string]handlers.Pinger{"row_store": ticketService}
	if cfg.Tickets.IDStrategy == config.IDStrategySequential {
		deps["counter_store"] = counters
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Metrics: metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("delivery issue api started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("row_store", cfg.RowStore.Backend),
		zap.String("notifier", notifier.Name()),
		zap.String("id_strategy", cfg.Tickets.IDStrategy),
		zap.Int("ticket_types", len(registry.Types())))

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func buildCounterStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.CounterStore, func()) {
	if cfg.Tickets.CounterBackend != config.CounterBackendRedis {
		return repository.NewMemoryCounterStore(), func() {}
	}
	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	return repository.NewRedisCounterStore(redis.Client, cfg.Tickets.CounterKeyPrefix), redis.Close
}

func buildRowStore(ctx context.Context, cfg *config.Config, registry *domain.Registry, logger *zap.Logger) (repository.RowStore, func(), error) {
	switch cfg.RowStore.Backend {
	case config.RowStoreSheets:
		client, err := persistence.NewSheets(ctx, cfg.Sheets, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSheetsRowStore(client.Service, client.SpreadsheetID), func() {}, nil
	case config.RowStorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return repository.NewPostgresRowStore(pg.PoolHandle(), registry.DisplayNames()), pg.Close, nil
	case config.RowStoreMemory:
		logger.Warn("using in-memory row store; rows are lost on restart")
		return repository.NewMemoryRowStore(registry.DisplayNames()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown row store backend %q", cfg.RowStore.Backend)
	}
}

func buildNotifier(cfg *config.Config, logger *zap.Logger) notification.Notifier {
	sender := notification.Sender{Name: cfg.Notification.SenderName, Email: cfg.Notification.SenderEmail}
	switch cfg.Notification.Backend {
	case config.NotifyBackendBrevo:
		return notification.NewBrevoNotifier(notification.BrevoConfig{
			BaseURL: cfg.Notification.BrevoAPIURL,
			APIKey:  cfg.Notification.BrevoAPIKey,
			Sender:  sender,
		}, httpclient.New(cfg.Notification.Timeout()), logger)
	case config.NotifyBackendSMTP:
		smtp := cfg.Notification.SMTP
		return notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     smtp.Host,
			Port:     smtp.Port,
			Username: smtp.Username,
			Password: smtp.Password,
			TLS:      smtp.TLS,
			Sender:   sender,
		}, logger)
	default:
		logger.Info("customer email notifications disabled")
		return notification.NewDisabledNotifier()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
