package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pet-party/internal/adapters/auth/remote"
	"pet-party/internal/adapters/storage/file"
	mem "pet-party/internal/adapters/storage/memory"
	"pet-party/internal/adapters/storage/sqldb"
	"pet-party/internal/platform/config"
	"pet-party/internal/platform/logger"
	"pet-party/internal/platform/metrics"
	"pet-party/internal/ports/auth"
	"pet-party/internal/ports/storage"
	"pet-party/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	kv, closeKV, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeKV()

	var verifier auth.AuthVerifier
	if cfg.AuthBaseURL != "" {
		v, err := remote.NewVerifier(remote.Config{BaseURL: cfg.AuthBaseURL, APIKey: cfg.AuthAPIKey})
		if err != nil {
			return err
		}
		verifier = v
	} else {
		log.Warn("no auth service configured, accepting X-Debug-User-ID", nil)
	}

	opts := router.Options{
		AuthVerifier: verifier,
		KV:           kv,
		Logger:       log,
		Swagger:      cfg.SwaggerEnabled,
	}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics.New(nil)
		opts.MetricsHandler = promhttp.Handler()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr(), "storage": cfg.StorageDriver})
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

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(cfg *config.Config, log logger.Logger) (storage.KeyValue, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		kv, err := file.NewKV(file.Options{
			Dir:      cfg.StorageDir,
			Quota:    cfg.StorageQuota,
			Compress: cfg.StorageCompress,
		})
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil

	case config.DriverPostgres, config.DriverSQLite:
		driver := sqldb.DriverFor(cfg.StorageDriver)
		db, err := sqldb.Open(driver, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := sqldb.Migrate(db, driver); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("database ready", map[string]any{"driver": driver})
		return sqldb.NewKV(db, driver, cfg.StorageQuota), func() { _ = db.Close() }, nil

	default:
		return mem.NewKV(cfg.StorageQuota), func() {}, nil
	}
}
