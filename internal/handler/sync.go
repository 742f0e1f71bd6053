package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

type SyncHandler struct {
	worker *service.SyncWorker
}

func NewSyncHandler(worker *service.SyncWorker) *SyncHandler {
	return &SyncHandler{worker: worker}
}

// Trigger handles POST /api/videos/sync — runs a storage
// reconciliation pass and returns its report. Long-running: the
// request blocks until the pass completes.
func (h *SyncHandler) Trigger(c fiber.Ctx) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	if h.worker == nil {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "SYNC_DISABLED", "Blob storage is not configured")
	}

	start := time.Now()
	report, err := h.worker.Trigger(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	if Metrics.SyncRunDuration != nil {
		Metrics.SyncRunDuration.Observe(time.Since(start).Seconds())
	}
	return c.JSON(report)
}

// Status handles GET /api/videos/sync — the report of the most recent
// completed pass.
func (h *SyncHandler) Status(c fiber.Ctx) error {
	if h.worker == nil {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "SYNC_DISABLED", "Blob storage is not configured")
	}
	report := h.worker.LastReport()
	if report == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No sync run has completed yet")
	}
	return c.JSON(report)
}
