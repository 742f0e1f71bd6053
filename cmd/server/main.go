package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/config"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/db"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/handler"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/repository"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/router"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/storage"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/stream"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "stars-pipeline")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL, log)
	defer cache.Close()

	handler.InitMetrics(pool)

	// Provider clients
	signer := stream.NewSigner(cfg.StreamSigningKeyID, cfg.StreamSigningKeyPEM, cfg.StreamWebhookSecret, log)
	streamClient := stream.NewClient(cfg.StreamAPIBase, cfg.StreamAccountID, cfg.StreamAPIToken, log)

	var blobClient *storage.Client
	if cfg.BlobBucket != "" && cfg.BlobAccessKey != "" {
		blobClient, err = storage.NewClient(ctx, storage.Config{
			Bucket:    cfg.BlobBucket,
			Region:    cfg.BlobRegion,
			Endpoint:  cfg.BlobEndpoint,
			AccessKey: cfg.BlobAccessKey,
			SecretKey: cfg.BlobSecretKey,
			PublicURL: cfg.BlobPublicURL,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize blob storage")
		}
	} else {
		log.Warn().Msg("blob storage not configured, storage sync disabled")
	}

	// Repositories
	videoRepo := repository.NewVideoRepo(pool)
	submissionRepo := repository.NewSubmissionRepo(pool)
	feedbackRepo := repository.NewFeedbackRepo(pool)
	lookupRepo := repository.NewLookupRepo(pool)

	// Services
	reconcileSvc := service.NewReconcileService(videoRepo, cache, log)
	ingestSvc := service.NewIngestService(streamClient, stream.UploadOptions{
		MaxDurationSeconds: cfg.UploadMaxDurationSeconds,
		RequireSignedURLs:  signer.CanSign(),
		WatermarkID:        cfg.UploadWatermarkID,
	}, log)
	submissionSvc := service.NewSubmissionService(submissionRepo, lookupRepo, feedbackRepo, videoRepo, cfg.MaxSlots, log)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, submissionRepo, lookupRepo, log)
	playbackSvc := service.NewPlaybackService(videoRepo, signer, streamClient, cache, cfg.StreamDeliveryDomain, log)

	var syncWorker *service.SyncWorker
	if blobClient != nil {
		syncSvc := service.NewSyncService(blobClient, videoRepo, lookupRepo, streamClient, service.SyncConfig{
			OwnerEmail:   cfg.SyncOwnerEmail,
			AvgMinutes:   cfg.SyncAvgMinutes,
			MigrateBatch: cfg.SyncMigrateBatch,
		}, log)
		syncWorker = service.NewSyncWorker(syncSvc, time.Duration(cfg.SyncIntervalMinutes)*time.Minute, log)
		go syncWorker.Start(ctx)
	}

	// HTTP surface
	app := fiber.New(fiber.Config{
		AppName:      "Stars Pipeline API",
		ServerHeader: "stars-pipeline",
	})

	h := &router.Handlers{
		Webhook:    handler.NewWebhookHandler(signer, reconcileSvc),
		Upload:     handler.NewUploadHandler(ingestSvc),
		Submission: handler.NewSubmissionHandler(submissionSvc),
		Feedback:   handler.NewFeedbackHandler(feedbackSvc),
		Video:      handler.NewVideoHandler(playbackSvc),
		Sync:       handler.NewSyncHandler(syncWorker),
		Health:     handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("pipeline backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
