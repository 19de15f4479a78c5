// Command worker runs the restoration pipeline against tasks dequeued from
// the asynq queue: classify, enhance, call the generative provider, persist.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/restorehq/control-plane/internal/adapter/blob"
	"github.com/restorehq/control-plane/internal/adapter/kv"
	"github.com/restorehq/control-plane/internal/adapter/provider"
	asynqadp "github.com/restorehq/control-plane/internal/adapter/queue/asynq"
	"github.com/restorehq/control-plane/internal/adapter/repo/postgres"
	"github.com/restorehq/control-plane/internal/config"
	"github.com/restorehq/control-plane/internal/imaging"
	"github.com/restorehq/control-plane/internal/observability"
	"github.com/restorehq/control-plane/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid redis url", slog.Any("error", err))
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpt)
	defer rdb.Close()

	jobRepo := postgres.NewJobRepo(pool)
	deadLetterRepo := postgres.NewDeadLetterRepo(pool)
	creditLedger := kv.NewRedisCreditLedger(rdb, cfg.FreeDailyCredits)

	blobStore, err := blob.New(ctx, blob.Config{
		Bucket:          cfg.BlobBucket,
		Region:          cfg.BlobRegion,
		Endpoint:        cfg.BlobEndpoint,
		AccessKeyID:     cfg.BlobAccessKeyID,
		SecretAccessKey: cfg.BlobSecretAccessKey,
		ForcePathStyle:  cfg.BlobForcePathStyle,
		UploadURLTTL:    cfg.BlobUploadURLTTL,
		DownloadURLTTL:  cfg.BlobDownloadURLTTL,
	})
	if err != nil {
		slog.Error("blob store init failed", slog.Any("error", err))
		os.Exit(1)
	}

	restoreProvider := provider.New(provider.Config{
		BaseURL:         cfg.ProviderBaseURL,
		APIKey:          cfg.ProviderAPIKey,
		Model:           cfg.ProviderModel,
		Timeout:         cfg.ProviderTimeout,
		MaxElapsedTime:  cfg.ProviderBackoffMaxElapsedTime,
		InitialInterval: cfg.ProviderBackoffInitialInterval,
		MaxInterval:     cfg.ProviderBackoffMaxInterval,
		Multiplier:      cfg.ProviderBackoffMultiplier,
	})

	pipeline := &worker.Pipeline{
		Jobs:       jobRepo,
		Blob:       blobStore,
		Provider:   restoreProvider,
		Classifier: imaging.NewDegradationClassifier(),
		Enhancer:   imaging.NewRestorationPromptEnhancer(),
	}

	srv, err := asynqadp.NewServer(asynqadp.ServerConfig{
		RedisURL:    cfg.RedisURL,
		Concurrency: cfg.QueueConcurrency,
		MinBackoff:  cfg.QueueMinRetryBackoff,
		MaxBackoff:  cfg.QueueMaxRetryBackoff,
	}, pipeline, deadLetterRepo, creditLedger, logger)
	if err != nil {
		slog.Error("worker server init failed", slog.Any("error", err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("worker starting", slog.Int("concurrency", cfg.QueueConcurrency))
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("signal received, shutting down", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			slog.Error("worker server error", slog.Any("error", err))
		}
	}
	srv.Shutdown()
}
