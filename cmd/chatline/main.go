package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	charmlog "charm.land/log/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nats-io/nats.go"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/cockroach"
	"github.com/chatlinehq/chatline/cockroach/migrator"
	"github.com/chatlinehq/chatline/config"
	"github.com/chatlinehq/chatline/event"
	chatlineminio "github.com/chatlinehq/chatline/minio"
	"github.com/chatlinehq/chatline/presence"
	"github.com/chatlinehq/chatline/pubsub"
	"github.com/chatlinehq/chatline/service"
	"github.com/chatlinehq/chatline/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	errLogger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))
	infoLogger := slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.CockroachURL)
	if err != nil {
		return fmt.Errorf("open cockroach connection pool: %w", err)
	}

	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		return fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	infoLogger.Info("starting cockroach migrations")

	if err := migrator.Migrate(context.Background(), dbPool, cockroach.MigrationsFS); err != nil {
		return fmt.Errorf("migrate cockroach schema: %w", err)
	}

	infoLogger.Info("finished cockroach migrations", "took", time.Since(migrationStart))

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	minioStore := chatlineminio.New(context.Background(), minioClient, cfg.CleanupTimeout)
	go func() {
		for err := range minioStore.Errs() {
			errLogger.Error("minio error", "error", err)
		}
	}()

	bucketsStart := time.Now()
	infoLogger.Info("creating minio buckets")

	if err := minioStore.CreateReadOnlyBucket(context.Background(), "chatline-media"); err != nil {
		return fmt.Errorf("create minio bucket: %w", err)
	}

	infoLogger.Info("finished creating minio buckets", "took", time.Since(bucketsStart))

	natsConn, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}

	defer natsConn.Close()

	tokens, err := auth.NewTokens(cfg.TokenKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("create token codec: %w", err)
	}

	mediaBaseURL := &url.URL{Scheme: "http", Host: cfg.MinioEndpoint}
	if cfg.MinioSecure {
		mediaBaseURL.Scheme = "https"
	}

	svc := service.New(&service.Config{
		Cockroach:         cockroach.New(dbPool),
		Minio:             minioStore,
		PubSub:            pubsub.NewNats(natsConn),
		Presence:          presence.NewTracker(),
		Bus:               event.NewBus(),
		Tokens:            tokens,
		Logger:            errLogger,
		MediaBaseURL:      mediaBaseURL,
		BaseCtx:           context.Background(),
		BackgroundTimeout: 15 * time.Second,
	})

	go func() {
		for err := range svc.Errs() {
			errLogger.Error("service error", "error", err)
		}
	}()

	defer svc.Close()

	handler := &web.Handler{
		Service: svc,
		Logger:  errLogger,
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	infoLogger.Info("starting chatline server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start chatline server: %w", err)
	}

	return nil
}
