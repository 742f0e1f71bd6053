package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit handles POST /api/submissions — first upload into a free slot
// or revision of an occupied one.
func (h *SubmissionHandler) Submit(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req model.SubmitRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	projectID, errMsg := middleware.ValidateID(req.ProjectID, "projectId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ProjectID = projectID

	title, errMsg := middleware.ValidateTitle(req.VersionTitle)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.VersionTitle = title

	sub, err := h.svc.Submit(c.Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	status := fiber.StatusCreated
	kind := "create"
	if sub.Version > 1 {
		status = fiber.StatusOK
		kind = "revise"
	}
	if Metrics.SubmissionsTotal != nil {
		Metrics.SubmissionsTotal.WithLabelValues(kind).Inc()
	}
	return c.Status(status).JSON(sub)
}

// ListByProject handles GET /api/projects/:projectId/submissions.
func (h *SubmissionHandler) ListByProject(c fiber.Ctx) error {
	projectID, errMsg := middleware.ValidateID(c.Params("projectId"), "projectId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	subs, err := h.svc.ListByProject(c.Context(), projectID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"submissions": subs})
}

// Get handles GET /api/submissions/:submissionId.
func (h *SubmissionHandler) Get(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateID(c.Params("submissionId"), "submissionId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	sub, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(sub)
}

// Update handles PATCH /api/submissions/:submissionId — review
// decisions and title edits.
func (h *SubmissionHandler) Update(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	id, errMsg := middleware.ValidateID(c.Params("submissionId"), "submissionId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateSubmissionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Status == "" && req.VersionTitle == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "status or versionTitle is required")
	}

	sub, err := h.svc.Update(c.Context(), userID, id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(sub)
}

// Delete handles DELETE /api/submissions/:submissionId.
func (h *SubmissionHandler) Delete(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	id, errMsg := middleware.ValidateID(c.Params("submissionId"), "submissionId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
