package server

import (
	"encoding/json"
	"time"

	"centerstage/internal/models"
	"centerstage/internal/review"
	"centerstage/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetReviewQueue handles GET /api/projects/:id/submissions
// Query parameters: status (tab), q (search), range (all|today|7d|30d|custom),
// start/end (YYYY-MM-DD, custom range only).
func (s *Server) GetReviewQueue(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	status := c.Query("status", models.StatusPending)
	filter, err := review.BuildFilter(c.Query("q"), c.Query("range"), c.Query("start"), c.Query("end"), time.Now())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	subs, err := s.subService.ListQueue(c.Context(), projectID, status, filter)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"submissions": subs,
		"status":      status,
	})
}

// GetSubmissionCounts handles GET /api/projects/:id/submissions/counts
func (s *Server) GetSubmissionCounts(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	counts, err := s.subService.Counts(c.Context(), projectID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"counts": counts})
}

// ChangeSubmissionStatus handles PUT /api/submissions/:id/status
func (s *Server) ChangeSubmissionStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	projectID, err := s.projectIDForSubmission(c, id)
	if err != nil {
		return nil
	}
	user, err := s.requireModeration(c, projectID)
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sub, serr := s.subService.ChangeStatus(c.Context(), id, req.Status, user.ID)
	if serr != nil {
		return respondServiceError(c, serr)
	}
	return c.JSON(sub)
}

// UpdateSubmissionDisplay handles PUT /api/submissions/:id/display.
// custom_timing distinguishes absent (leave alone) from explicit null (clear).
func (s *Server) UpdateSubmissionDisplay(c *fiber.Ctx) error {
	id := c.Params("id")
	projectID, err := s.projectIDForSubmission(c, id)
	if err != nil {
		return nil
	}
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	// Raw message so an absent custom_timing (leave alone) is distinguishable
	// from an explicit null (clear it).
	var req struct {
		DisplayMode  *string         `json:"display_mode"`
		CustomTiming json.RawMessage `json:"custom_timing"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	update := service.DisplayUpdate{DisplayMode: req.DisplayMode}
	if len(req.CustomTiming) > 0 {
		if string(req.CustomTiming) == "null" {
			update.ClearTiming = true
		} else {
			var timing int
			if err := json.Unmarshal(req.CustomTiming, &timing); err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("custom_timing must be an integer or null"))
			}
			update.CustomTiming = &timing
		}
	}

	sub, serr := s.subService.UpdateDisplay(c.Context(), id, update)
	if serr != nil {
		return respondServiceError(c, serr)
	}
	return c.JSON(sub)
}

// DeleteSubmission handles DELETE /api/submissions/:id. Permanent; only
// records already in the deleted status may be erased.
func (s *Server) DeleteSubmission(c *fiber.Ctx) error {
	id := c.Params("id")
	projectID, err := s.projectIDForSubmission(c, id)
	if err != nil {
		return nil
	}
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	if serr := s.subService.HardDelete(c.Context(), id); serr != nil {
		return respondServiceError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
