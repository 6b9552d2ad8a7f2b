package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/delordemm1/gooddeeds-api/internal/cache"
	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/metrics"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/catalog"
	"github.com/delordemm1/gooddeeds-api/internal/modules/upload"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
	"github.com/delordemm1/gooddeeds-api/internal/modules/verification"
	"github.com/delordemm1/gooddeeds-api/internal/modules/wishlist"
	"github.com/delordemm1/gooddeeds-api/internal/notification"
	"github.com/delordemm1/gooddeeds-api/internal/notification/templates"
	"github.com/delordemm1/gooddeeds-api/internal/server"
	"github.com/delordemm1/gooddeeds-api/internal/session"
	"github.com/delordemm1/gooddeeds-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// Options for the CLI.
type Options struct {
	Port         int  `help:"Port to listen on, overrides SERVER_PORT" short:"p"`
	Migrate      bool `help:"Apply pending migrations before serving" default:"true"`
	SweepMinutes int  `help:"Minutes between in-process expired code sweeps. 0 (default) leaves sweeping to POST /admin/verification/sweep or an external scheduler" default:"0"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		cfg := config.Load()
		if cfg == nil {
			slog.Error("failed to load configuration")
			os.Exit(1)
		}
		logger := newLogger(cfg.Log.Level)
		logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

		ctx, cancel := context.WithCancel(context.Background())

		// --- Database & Cache ---
		dbPool, err := database.NewPostgresPool(ctx, cfg.Database.URL, logger, database.PoolOptions{})
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully connected to postgres database")
		if options.Migrate {
			if err := database.MigrateUp(ctx, dbPool); err != nil {
				logger.Error("failed to apply migrations", "error", err)
				os.Exit(1)
			}
		}

		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully connected to redis")
		locker := cache.NewLocker(redisClient, time.Duration(cfg.Verification.IssueLockSeconds)*time.Second)

		// --- Infrastructure ---
		blobs, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicBaseURL, logger)
		if err != nil {
			logger.Error("failed to configure blob storage", "error", err)
			os.Exit(1)
		}

		var publisher events.Publisher = events.NoopPublisher{}
		if cfg.NATS.URL != "" {
			natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, logger)
			if err != nil {
				logger.Error("failed to connect to nats", "error", err)
				os.Exit(1)
			}
			publisher = natsPublisher
			logger.Info("publishing domain events to nats")
		}

		emailSender, err := notification.NewEmailSenderFromConfig(cfg, logger)
		if err != nil {
			logger.Error("failed to configure email", "error", err)
			os.Exit(1)
		}
		engine := templates.NewEngine(templates.Config{}, logger)
		if err := engine.Preload(templates.All...); err != nil {
			logger.Error("failed to compile email templates", "error", err)
			os.Exit(1)
		}
		notifications := notification.NewService(logger, engine, emailSender)

		appMetrics := metrics.New(prometheus.DefaultRegisterer)
		sessions := session.NewPostgresProvider(dbPool, session.Config{})

		// --- Module Initialization (Bottom-Up) ---

		catalogService := catalog.NewService(&catalog.Config{
			Repo:   catalog.NewRepository(dbPool),
			Logger: logger,
		})
		wishlistService := wishlist.NewService(&wishlist.Config{
			Repo:   wishlist.NewRepository(dbPool),
			Logger: logger,
		})

		beneficiaryRepo := beneficiary.NewRepository(dbPool)
		beneficiaryService := beneficiary.NewService(&beneficiary.Config{
			Repo:      beneficiaryRepo,
			Events:    catalogService,
			Wishlists: wishlistService,
			Notifier:  notifications,
			Publisher: publisher,
			Metrics:   appMetrics,
			Logger:    logger,
			Config:    cfg,
		})

		userRepo := user.NewRepository(dbPool)
		userService := user.NewService(&user.Config{
			Repo:      userRepo,
			Tx:        user.NewTxRunner(dbPool),
			Profiles:  beneficiaryService,
			Sessions:  sessions,
			Publisher: publisher,
			Metrics:   appMetrics,
			Logger:    logger,
			Config:    cfg,
		})

		verificationService := verification.NewService(&verification.Config{
			Repo:       verification.NewRepository(dbPool),
			UnitOfWork: verification.NewUnitOfWork(dbPool),
			Users:      userRepo,
			Sender:     verification.NewEmailCodeSender(notifications, cfg.Mail.SupportEmail),
			Locker:     locker,
			Blobs:      blobs,
			Sessions:   sessions,
			Publisher:  publisher,
			Metrics:    appMetrics,
			Logger:     logger,
			Config:     cfg,
		})

		uploadService := upload.NewService(&upload.Config{Store: blobs, Logger: logger})

		router := server.New(cfg, logger, &server.Services{
			Users:         userService,
			Verification:  verificationService,
			Beneficiaries: beneficiaryService,
			Catalog:       catalogService,
			Wishlist:      wishlistService,
			Uploads:       uploadService,
			Sessions:      sessions,
		})

		port := options.Port
		if port == 0 {
			port, _ = strconv.Atoi(cfg.Server.Port)
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		hooks.OnStart(func() {
			if options.SweepMinutes > 0 {
				go sweepExpiredCodes(ctx, verificationService, time.Duration(options.SweepMinutes)*time.Minute, logger)
			}
			logger.Info("starting server", "port", port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server failed to start", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
			}
			if err := publisher.Close(); err != nil {
				logger.Warn("closing event publisher failed", "error", err)
			}
			_ = redisClient.Close()
			dbPool.Close()
			logger.Info("server stopped")
		})
	})
	cli.Run()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// sweepExpiredCodes deletes expired verification codes until ctx is cancelled.
func sweepExpiredCodes(ctx context.Context, svc verification.Service, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.SweepExpired(ctx); err != nil {
				logger.Warn("scheduled sweep failed", "error", err)
			}
		}
	}
}
