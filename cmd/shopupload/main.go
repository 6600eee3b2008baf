package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/vbonduro/shopupload/internal/config"
	"github.com/vbonduro/shopupload/internal/db"
	"github.com/vbonduro/shopupload/internal/filestore"
	"github.com/vbonduro/shopupload/internal/filestore/local"
	"github.com/vbonduro/shopupload/internal/filestore/s3"
	"github.com/vbonduro/shopupload/internal/idgen"
	"github.com/vbonduro/shopupload/internal/logging"
	"github.com/vbonduro/shopupload/internal/metrics"
	"github.com/vbonduro/shopupload/internal/service"
	"github.com/vbonduro/shopupload/internal/session"
	"github.com/vbonduro/shopupload/internal/store"
	"github.com/vbonduro/shopupload/internal/web"
	"github.com/vbonduro/shopupload/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("shopupload exited", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, closeRecords, err := newRecordStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRecords()

	files, err := newFileStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sessionStore, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	svc := service.NewProductService(records, files, idgen.NewMonotonic(), logger)
	sessions := session.NewManager(sessionStore, cfg.SessionCookie, cfg.SessionTTL, logger)
	server := web.NewServer(svc, templates.FS, files, sessions, metrics.New(), web.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

func newRecordStore(cfg *config.Config, logger *slog.Logger) (service.RecordRepository, func(), error) {
	if cfg.StoreBackend != "sqlite" {
		logger.Info("using in-memory record store")
		return store.NewMemoryRecordStore(), func() {}, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("using sqlite record store", "path", cfg.DBPath)
	return store.NewRecordStore(database), func() { closeDB(database, logger) }, nil
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

func newFileStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (filestore.FileStore, error) {
	if cfg.FileBackend == "minio" {
		fs, err := s3.NewBucketFileStore(ctx, s3.Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bucket file store: %w", err)
		}
		logger.Info("using bucket file store", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return fs, nil
	}

	fs, err := local.NewLocalFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload directory: %w", err)
	}
	logger.Info("using local file store", "dir", cfg.UploadDir)
	return fs, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(client, ""), func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}, nil
}
