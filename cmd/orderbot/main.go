package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/menu"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/server"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/service"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	logger := logging.NewLoggerV2("orderbot-service")
	defer logger.Sync()

	for _, warning := range cfg.Warnings() {
		logger.Warn("Configuration warning", logging.Fields{"warning": warning})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := initSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session store", logging.Fields{"error": err.Error()})
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []service.Option{service.WithMetrics(metrics.New(reg))}

	if cfg.Features.EnableOrderEvents {
		publisher := events.NewKafkaPublisher(cfg.Kafka, logger)
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
	}

	var consumer *events.ArchiveConsumer
	if cfg.Features.EnableOrderArchive {
		db, err := initDatabase(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
		}
		defer db.Close()

		archive := repository.NewPostgresOrderArchive(db, logger)
		opts = append(opts, service.WithArchive(archive))
		consumer = events.NewArchiveConsumer(cfg.Kafka, archive, logger)
	}

	chatService := service.NewChatService(store, menu.Default(), cfg, opts...)
	h := handlers.NewHandlers(chatService, store, cfg)
	srv := server.New(h, cfg, reg)

	logger.Info("Server starting", logging.Fields{
		"port":                 cfg.Server.Port,
		"session_store":        cfg.Session.Store,
		"enable_order_events":  cfg.Features.EnableOrderEvents,
		"enable_order_archive": cfg.Features.EnableOrderArchive,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if consumer != nil {
		g.Go(func() error {
			if err := consumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", logging.Fields{"error": err.Error()})
	}

	if consumer != nil {
		consumer.Stop()
	}

	logger.Info("Server exited")
}

func initSessionStore(ctx context.Context, cfg *config.Config, logger *logging.LoggerV2) (repository.SessionStore, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		store := repository.NewRedisSessionStore(cfg.Redis, cfg.Session.TTL)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		logger.Info("Redis session store connected", logging.Fields{
			"host": cfg.Redis.Host,
			"ttl":  cfg.Session.TTL.String(),
		})
		return store, func() { store.Close() }, nil
	case config.SessionStoreMemory:
		logger.Warn("Using in-memory session store; sessions are lost on restart")
		return repository.NewMemorySessionStore(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown session store: " + cfg.Session.Store)
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.LoggerV2) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, repository.Schema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
