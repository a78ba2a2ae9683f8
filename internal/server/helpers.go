package server

import (
	"errors"

	"centerstage/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// currentUser loads the authenticated account. AuthRequired must have run.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	return s.userService.Get(c.Context(), userID)
}

// respondServiceError maps a service-layer error onto an HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case "NOT_FOUND":
		status = fiber.StatusNotFound
	case "VALIDATION_ERROR", "CONFIRMATION_MISMATCH":
		status = fiber.StatusBadRequest
	case "UNAUTHORIZED":
		status = fiber.StatusUnauthorized
	case "FORBIDDEN":
		status = fiber.StatusForbidden
	case "CONFLICT":
		status = fiber.StatusConflict
	case "RATE_LIMITED":
		status = fiber.StatusTooManyRequests
	}
	return models.RespondWithError(c, status, appErr)
}

// requireModeration checks that the authenticated user may operate the given
// project. On failure it writes the response and returns errResponseWritten.
func (s *Server) requireModeration(c *fiber.Ctx, projectID string) (*models.User, error) {
	user, err := s.currentUser(c)
	if err != nil {
		_ = respondServiceError(c, err)
		return nil, errResponseWritten
	}
	can, err := s.projectService.CanModerate(c.Context(), user, projectID)
	if err != nil {
		_ = respondServiceError(c, err)
		return nil, errResponseWritten
	}
	if !can {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("No access to this project"))
		return nil, errResponseWritten
	}
	return user, nil
}

// projectIDForSubmission resolves the owning project of a submission so the
// moderation gate can run before mutating it.
func (s *Server) projectIDForSubmission(c *fiber.Ctx, id string) (string, error) {
	sub, err := s.subRepo.GetByID(c.Context(), id)
	if err != nil {
		_ = respondServiceError(c, models.NewNotFoundError("Submission", id))
		return "", errResponseWritten
	}
	return sub.ProjectID, nil
}
