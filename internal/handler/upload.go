package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

type UploadHandler struct {
	svc *service.IngestService
}

func NewUploadHandler(svc *service.IngestService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type uploadRequest struct {
	FileSize int64 `json:"fileSize"`
}

// CreateSession handles POST /api/uploads — opens a direct-upload
// session and returns the provider endpoint the browser pushes bytes
// to.
func (h *UploadHandler) CreateSession(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req uploadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	endpoint, err := h.svc.CreateUploadSession(c.Context(), userID, req.FileSize)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"uploadUrl": endpoint})
}

// GenerateCaptions handles POST /api/streams/:uid/captions/:lang/generate.
func (h *UploadHandler) GenerateCaptions(c fiber.Ctx) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	lang, errMsg := middleware.ValidateLang(c.Params("lang"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.GenerateCaptions(c.Context(), c.Params("uid"), lang); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// UploadCaptions handles PUT /api/streams/:uid/captions/:lang with a
// WebVTT body.
func (h *UploadHandler) UploadCaptions(c fiber.Ctx) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	lang, errMsg := middleware.ValidateLang(c.Params("lang"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.UploadCaptions(c.Context(), c.Params("uid"), lang, c.Body()); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
