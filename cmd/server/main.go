package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sifan077/tinyurl/config"
	appmodel "github.com/sifan077/tinyurl/internal/app/model"
	apprepository "github.com/sifan077/tinyurl/internal/app/repository"
	appserver "github.com/sifan077/tinyurl/internal/app/server"
	appservice "github.com/sifan077/tinyurl/internal/app/service"
	"github.com/sifan077/tinyurl/internal/app/shortcode"
	"github.com/sifan077/tinyurl/internal/infra/logger"
	infraNATS "github.com/sifan077/tinyurl/internal/infra/nats"
	infraPostgres "github.com/sifan077/tinyurl/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/tinyurl/internal/infra/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Log.File != "" {
		log = logger.MustInit(logger.Config{
			Development: isDev,
			Level:       os.Getenv("LOG_LEVEL"),
			File:        cfg.Log.File,
			MaxSize:     cfg.Log.MaxSize,
			MaxAge:      cfg.Log.MaxAge,
		})
	}

	log.Info("Configuration loaded successfully",
		zap.Int("port", cfg.App.Port),
		zap.String("base_url", cfg.App.BaseURL),
		zap.String("version", cfg.App.Version),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.Bool("nats_enabled", cfg.NATS.Enabled),
		zap.Bool("prometheus_enabled", cfg.Prometheus.Enabled),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.Link{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	linkRepo := apprepository.NewLinkRepository(gormDB)

	filter, err := seedCodeFilter(ctx, linkRepo)
	if err != nil {
		log.Fatal("Failed to seed code filter", zap.Error(err))
	}

	var events appservice.EventPublisher
	if cfg.NATS.Enabled {
		natsConn, js, err := infraNATS.Connect(cfg.NATS)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsConn.Drain()

		if err := infraNATS.EnsureStream(js, appmodel.LinkStreamName,
			[]string{appmodel.LinkStreamSubjects}, appmodel.LinkStreamMaxBytes); err != nil {
			log.Fatal("Failed to prepare link event stream", zap.Error(err))
		}
		events = appservice.NewJetStreamPublisher(js)
		log.Info("Connected to NATS successfully", zap.String("stream", appmodel.LinkStreamName))
	} else {
		log.Info("NATS disabled, link events will not be published")
	}

	if cfg.Prometheus.Enabled {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	}

	linkService := appservice.NewLinkService(appservice.LinkServiceDeps{
		Links:  linkRepo,
		Logger: log,
		Filter: filter,
		Events: events,
	})

	server := appserver.New(appserver.Dependencies{
		Logger:   log,
		Postgres: pool,
		Links:    linkService,
		BaseURL:  cfg.App.BaseURL,
		Version:  cfg.App.Version,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.App.Addr()))
		serverErr <- server.Listen(cfg.App.Addr())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("Fiber server exited", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("Shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}

// seedCodeFilter loads every existing code so creation can skip the
// existence pre-check for codes that were never taken.
func seedCodeFilter(ctx context.Context, links apprepository.LinkRepository) (*shortcode.Filter, error) {
	existing, err := links.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	capacity := uint(len(existing)) * 2
	filter := shortcode.NewFilter(capacity)
	for _, link := range existing {
		filter.Add(link.Code)
	}
	return filter, nil
}
