package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

type VideoHandler struct {
	playback *service.PlaybackService
}

func NewVideoHandler(playback *service.PlaybackService) *VideoHandler {
	return &VideoHandler{playback: playback}
}

// GetPlayback handles GET /api/videos/:videoId/playback — signed
// manifest and thumbnail URLs plus view count.
func (h *VideoHandler) GetPlayback(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateID(c.Params("videoId"), "videoId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	info, err := h.playback.Get(c.Context(), videoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(info)
}
