package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

// requireUser extracts the authenticated user id set by the auth proxy
// in X-User-ID. Empty or malformed ids get a 401.
func requireUser(c fiber.Ctx) (string, error) {
	userID, errMsg := middleware.ValidateUserID(c.Get("X-User-ID"))
	if errMsg != "" {
		return "", middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Valid X-User-ID header required")
	}
	return userID, nil
}

// serviceError maps the service error taxonomy onto HTTP responses.
func serviceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Permission denied")
	case errors.Is(err, service.ErrInvalidSlot):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_SLOT", "Slot out of range")
	case errors.Is(err, service.ErrInvalidInput):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Invalid request")
	case errors.Is(err, service.ErrHasFeedback):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "HAS_FEEDBACK", "Submission still has feedback")
	case errors.Is(err, service.ErrSyncInProgress):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "SYNC_IN_PROGRESS", "A sync run is already in progress")
	case errors.Is(err, service.ErrCaptionRejected):
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "PROVIDER_REJECTED", "Caption request rejected by provider")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
