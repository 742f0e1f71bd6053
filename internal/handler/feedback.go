package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/review"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Create handles POST /api/feedback.
func (h *FeedbackHandler) Create(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req model.CreateFeedbackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	submissionID, errMsg := middleware.ValidateID(req.SubmissionID, "submissionId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.SubmissionID = submissionID

	f, err := h.svc.Create(c.Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// ListBySubmission handles GET /api/submissions/:submissionId/feedback.
func (h *FeedbackHandler) ListBySubmission(c fiber.Ctx) error {
	submissionID, errMsg := middleware.ValidateID(c.Params("submissionId"), "submissionId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	items, err := h.svc.ListBySubmission(c.Context(), submissionID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"feedback": items})
}

// Compare handles GET /api/review/compare?a=...&b=... — the merged,
// filterable feedback timeline for a side-by-side review session.
func (h *FeedbackHandler) Compare(c fiber.Ctx) error {
	idA, errMsg := middleware.ValidateID(c.Query("a"), "a")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	sideA, err := h.svc.ListBySubmission(c.Context(), idA)
	if err != nil {
		return serviceError(c, err)
	}

	var sideB []model.Feedback
	if b := c.Query("b"); b != "" {
		idB, errMsg := middleware.ValidateID(b, "b")
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		sideB, err = h.svc.ListBySubmission(c.Context(), idB)
		if err != nil {
			return serviceError(c, err)
		}
	}

	filter := review.Filter{
		Side:     c.Query("side"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	items := filter.Apply(review.Compose(sideA, sideB))

	return c.JSON(fiber.Map{"feedback": items})
}

// Update handles PATCH /api/feedback/:feedbackId.
func (h *FeedbackHandler) Update(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	id, errMsg := middleware.ValidateID(c.Params("feedbackId"), "feedbackId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateFeedbackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Content == "" && req.Priority == "" && req.Status == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "content, priority, or status is required")
	}

	f, err := h.svc.Update(c.Context(), userID, id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(f)
}

// Delete handles DELETE /api/feedback/:feedbackId.
func (h *FeedbackHandler) Delete(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	id, errMsg := middleware.ValidateID(c.Params("feedbackId"), "feedbackId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
