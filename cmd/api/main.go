package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/config"
	"github.com/PratikDhanave/lodging-intake-service/internal/httpserver"
	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
	"github.com/PratikDhanave/lodging-intake-service/internal/logging"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
	"github.com/PratikDhanave/lodging-intake-service/internal/storage"
	"github.com/PratikDhanave/lodging-intake-service/internal/store"
)

// main boots the service: config → logger → lookup sources → upload store → HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []httpserver.ReadinessCheck

	// Reference table: Postgres when configured, the built-in one otherwise.
	var gazetteer postal.Gazetteer = postal.NewStaticGazetteer()
	if cfg.DB.URL != "" {
		db, err := store.NewPostgresStore(cfg.DB.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := db.SeedBuiltin(ctx); err != nil {
			return err
		}
		gazetteer = db
		checks = append(checks, httpserver.ReadinessCheck{Name: "postgres", Ping: db.Ping})
		logger.Info("using postgres reference table")
	}

	var cache address.Cache
	if cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		defer rdb.Close()

		cache = address.NewRedisCache(rdb, cfg.Cache.Prefix)
		checks = append(checks, httpserver.ReadinessCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		logger.Info("using redis lookup cache", zap.String("addr", cfg.Cache.RedisAddr))
	}

	var remote address.Remote
	if cfg.Lookup.Enabled {
		remote = postal.NewZippopotam(cfg.Lookup.BaseURL, cfg.Lookup.Country, cfg.Lookup.Timeout)
	}
	helper := address.NewHelper(remote, gazetteer, cache, logger.Named("address"))

	var (
		objects   storage.ObjectStore
		uploadDir string
	)
	if cfg.Upload.S3Bucket != "" {
		s3Store, err := storage.NewS3ObjectStore(ctx, storage.S3Config{
			Bucket:   cfg.Upload.S3Bucket,
			Prefix:   cfg.Upload.S3Prefix,
			Region:   cfg.Upload.S3Region,
			Endpoint: cfg.Upload.S3Endpoint,
		})
		if err != nil {
			return err
		}
		objects = s3Store
		logger.Info("storing uploads in s3", zap.String("bucket", cfg.Upload.S3Bucket))
	} else {
		local, err := storage.NewLocalObjectStore(cfg.Upload.Dir)
		if err != nil {
			return err
		}
		objects = local
		uploadDir = local.Dir()
		logger.Info("storing uploads locally", zap.String("dir", uploadDir))
	}

	router := httpserver.NewRouter(httpserver.Deps{
		Logger:    logger.Named("http"),
		Helper:    helper,
		Intake:    intake.NewService(objects, logger.Named("intake")),
		MaxMemory: cfg.Upload.MaxMemory,
		MaxBody:   cfg.Upload.MaxBody,
		UploadDir: uploadDir,
		Checks:    checks,
	})
	srv := httpserver.NewServer(cfg.HTTP.Addr, router, cfg.HTTP.CORSOrigins)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", cfg.HTTP.Addr))
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
