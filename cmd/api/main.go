package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_backend/internal/accounts"
	"blog_backend/internal/adapters/storage"
	"blog_backend/internal/contentrules"
	apphttp "blog_backend/internal/http"
	"blog_backend/internal/http/router"
	"blog_backend/internal/media"
	mediaservice "blog_backend/internal/media/service"
	"blog_backend/internal/posts"
	"blog_backend/internal/upload"
	"blog_backend/platform/config"
	"blog_backend/platform/logger"
	"blog_backend/platform/validator"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Content Policies
	// ========================================================================

	rules := contentrules.NewRules(cfg.GetCommonPasswords()...)
	val := validator.New()
	if err := contentrules.Register(val, rules); err != nil {
		log.Error("failed to register content rules", "error", err)
		panic("failed to register content rules: " + err.Error())
	}
	log.Info("content rules registered", "extraCommonPasswords", len(cfg.GetCommonPasswords()))

	classifier := upload.New(cfg)

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
	}

	// Storage service for accepted uploads (MinIO); optional
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, "post-images", cfg.GetMinioBucketImages())
		ensureBucket(ctx, log, minioSvc, "post-videos", cfg.GetMinioBucketVideos())
		ensureBucket(ctx, log, minioSvc, "post-audio", cfg.GetMinioBucketAudio())
		ensureBucket(ctx, log, minioSvc, "user-avatars", cfg.GetMinioBucketAvatars())
		log.Info(
			"storage service initialized",
			"imagesBucket", cfg.GetMinioBucketImages(),
			"videosBucket", cfg.GetMinioBucketVideos(),
			"audioBucket", cfg.GetMinioBucketAudio(),
			"avatarsBucket", cfg.GetMinioBucketAvatars(),
		)
		storageSvc = minioSvc
		app.Health = minioSvc
	} else {
		log.Warn("MINIO_ENDPOINT not configured; accepted uploads will not be stored")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	accountsModule := accounts.NewModule(val, log)
	postsModule := posts.NewModule(val, rules.Content, log)
	mediaModule := media.NewModule(classifier, storageSvc, mediaservice.Buckets{
		Images:  cfg.GetMinioBucketImages(),
		Videos:  cfg.GetMinioBucketVideos(),
		Audio:   cfg.GetMinioBucketAudio(),
		Avatars: cfg.GetMinioBucketAvatars(),
	}, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app.Modules = []apphttp.Module{
		accountsModule,
		postsModule,
		mediaModule,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
