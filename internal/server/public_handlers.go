package server

import (
	"centerstage/internal/models"
	"centerstage/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type publicSubmissionRequest struct {
	FullName     string `json:"full_name" validate:"required,min=1,max=120"`
	SocialHandle string `json:"social_handle" validate:"omitempty,max=80"`
	Email        string `json:"email" validate:"omitempty,email"`
	Comment      string `json:"comment" validate:"required,min=10,max=500"`
	PhotoURL     string `json:"photo_url" validate:"omitempty,url"`
	VideoURL     string `json:"video_url" validate:"omitempty,url"`
}

// GetPublicProject handles GET /api/public/projects/:slug. Returns the active
// project with its presentation config; archived and deleted projects read as
// missing.
func (s *Server) GetPublicProject(c *fiber.Ctx) error {
	project, err := s.projectService.GetActiveBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":           project.ID,
		"name":         project.Name,
		"slug":         project.Slug,
		"presentation": project.Presentation,
	})
}

// CreatePublicSubmission handles POST /api/public/projects/:slug/submissions.
// Rate limited upstream; every accepted record enters the queue as pending.
func (s *Server) CreatePublicSubmission(c *fiber.Ctx) error {
	var req publicSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	sub, err := s.subService.SubmitPublic(c.Context(), c.Params("slug"), &models.Submission{
		FullName:     req.FullName,
		SocialHandle: req.SocialHandle,
		Email:        req.Email,
		Comment:      req.Comment,
		PhotoURL:     req.PhotoURL,
		VideoURL:     req.VideoURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetApprovedSubmissions handles GET /api/public/projects/:slug/submissions.
// Returns the approved slideshow set oldest first; backed by the short-TTL
// Redis cache the presentation poller also reads through.
func (s *Server) GetApprovedSubmissions(c *fiber.Ctx) error {
	project, err := s.projectService.GetActiveBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	subs, err := s.subService.ListApproved(c.Context(), project.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"submissions": subs})
}
