// Command server starts the restoration control plane's HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restorehq/control-plane/internal/adapter/authn"
	"github.com/restorehq/control-plane/internal/adapter/blob"
	"github.com/restorehq/control-plane/internal/adapter/httpserver"
	"github.com/restorehq/control-plane/internal/adapter/kv"
	"github.com/restorehq/control-plane/internal/adapter/moderation"
	asynqadp "github.com/restorehq/control-plane/internal/adapter/queue/asynq"
	"github.com/restorehq/control-plane/internal/adapter/repo/postgres"
	"github.com/restorehq/control-plane/internal/config"
	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/observability"
	"github.com/restorehq/control-plane/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

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

	if err := postgres.Migrate(ctx, cfg.DBURL); err != nil {
		slog.Error("schema migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
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
	ledgerRepo := postgres.NewLedgerRepo(pool)
	deadLetterRepo := postgres.NewDeadLetterRepo(pool)

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

	var verifier domain.TokenVerifier
	var moderator domain.Moderator
	if cfg.AuthMode == "dev" {
		verifier = authn.NewDevVerifier()
		moderator = moderation.NewAllowAll()
		slog.Warn("running with dev-mode identity and moderation stand-ins")
	} else {
		verifier = authn.NewBearerVerifier(cfg.AuthSecret, cfg.AuthIssuer)
		moderator = moderation.New(moderation.Config{URL: cfg.ModerationURL, Timeout: cfg.ModerationTimeout})
	}

	creditLedger := kv.NewRedisCreditLedger(rdb, cfg.FreeDailyCredits)
	idempotencyStore := kv.NewRedisIdempotencyStore(rdb)
	limiter := kv.NewRedisLimiter(rdb, map[string]kv.BucketConfig{
		"user": kv.NewBucketConfigFromPerMinute(cfg.RateLimitUserPerMin),
		"ip":   kv.NewBucketConfigFromPerMinute(cfg.RateLimitIPPerMin),
	})

	queue, err := asynqadp.New(cfg.RedisURL, cfg.QueueMaxAttempts)
	if err != nil {
		slog.Error("queue init failed", slog.Any("error", err))
		os.Exit(1)
	}

	admissionSvc := &usecase.AdmissionService{
		Jobs:           jobRepo,
		Blob:           blobStore,
		Moderator:      moderator,
		Queue:          queue,
		Credits:        creditLedger,
		Ledger:         ledgerRepo,
		Idempotency:    idempotencyStore,
		IdempotencyTTL: cfg.IdempotencyTTL,
		CreditsPerJob:  cfg.CreditsPerJob,
	}
	statusSvc := &usecase.StatusService{Jobs: jobRepo, Blob: blobStore}
	replaySvc := &usecase.ReplayService{Jobs: jobRepo, DeadLetters: deadLetterRepo, Ledger: ledgerRepo, Queue: queue}

	srv := httpserver.NewServer(admissionSvc, statusSvc, verifier, limiter, cfg.MaxUploadMB<<20, 30*time.Second)
	srv.ReadyChecks["postgres"] = func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
	srv.ReadyChecks["redis"] = func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
	if cfg.OperatorEnabled() {
		srv.Operator = &httpserver.OperatorServer{
			Jobs:        jobRepo,
			DeadLetters: deadLetterRepo,
			Queue:       queue,
			Replay:      replaySvc,
			Token:       cfg.OperatorToken,
		}
	}

	handler := httpserver.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
