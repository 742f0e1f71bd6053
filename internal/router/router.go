package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/handler"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Webhook    *handler.WebhookHandler
	Upload     *handler.UploadHandler
	Submission *handler.SubmissionHandler
	Feedback   *handler.FeedbackHandler
	Video      *handler.VideoHandler
	Sync       *handler.SyncHandler
	Health     *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (outside the API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	playbackLimit := middleware.NewPlaybackRateLimiter().Handler()
	uploadLimit := middleware.NewUploadRateLimiter().Handler()
	feedbackLimit := middleware.NewFeedbackRateLimiter().Handler()
	syncLimit := middleware.NewSyncRateLimiter().Handler()

	api := app.Group("/api")

	// Provider webhooks (signature-authenticated, no user identity)
	api.Post("/webhooks/stream", h.Webhook.Receive)

	// Direct uploads and captions
	api.Post("/uploads", h.Upload.CreateSession, uploadLimit)
	api.Post("/streams/:uid/captions/:lang/generate", h.Upload.GenerateCaptions, uploadLimit)
	api.Put("/streams/:uid/captions/:lang", h.Upload.UploadCaptions, uploadLimit)

	// Submissions
	api.Post("/submissions", h.Submission.Submit, uploadLimit)
	api.Get("/submissions/:submissionId", h.Submission.Get)
	api.Patch("/submissions/:submissionId", h.Submission.Update)
	api.Delete("/submissions/:submissionId", h.Submission.Delete)
	api.Get("/projects/:projectId/submissions", h.Submission.ListByProject)

	// Feedback
	api.Post("/feedback", h.Feedback.Create, feedbackLimit)
	api.Patch("/feedback/:feedbackId", h.Feedback.Update, feedbackLimit)
	api.Delete("/feedback/:feedbackId", h.Feedback.Delete, feedbackLimit)
	api.Get("/submissions/:submissionId/feedback", h.Feedback.ListBySubmission)
	api.Get("/review/compare", h.Feedback.Compare)

	// Playback
	api.Get("/videos/:videoId/playback", h.Video.GetPlayback, playbackLimit)

	// Storage sync
	api.Post("/videos/sync", h.Sync.Trigger, syncLimit)
	api.Get("/videos/sync", h.Sync.Status)
}
