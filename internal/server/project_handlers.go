package server

import (
	"centerstage/internal/models"
	"centerstage/internal/service"
	"centerstage/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type createProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Slug string `json:"slug" validate:"omitempty,max=120"`
}

type presentationRequest struct {
	FontFamily        *string `json:"font_family" validate:"omitempty,min=1,max=80"`
	FontSize          *int    `json:"font_size" validate:"omitempty,min=8,max=200"`
	TextColor         *string `json:"text_color" validate:"omitempty,hexcolor"`
	BackgroundColor   *string `json:"background_color" validate:"omitempty,hexcolor"`
	AccentColor       *string `json:"accent_color" validate:"omitempty,hexcolor"`
	AnimationStyle    *string `json:"animation_style" validate:"omitempty,oneof=fade slide zoom"`
	TransitionSeconds *int    `json:"transition_seconds" validate:"omitempty,min=1,max=60"`
	RandomizeOrder    *bool   `json:"randomize_order"`
	AllowVideoFinish  *bool   `json:"allow_video_finish"`
}

// CreateProject handles POST /api/projects
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	userID := c.Locals("userID").(uint)
	project, err := s.projectService.Create(c.Context(), req.Name, req.Slug, userID, nil)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProjects handles GET /api/projects
func (s *Server) GetProjects(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	projects, err := s.projectService.ListFor(c.Context(), user)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"projects": projects})
}

// GetProject handles GET /api/projects/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	project, err := s.projectService.Get(c.Context(), projectID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}

// UpdateProject handles PUT /api/projects/:id
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	var req struct {
		Name   *string `json:"name"`
		Slug   *string `json:"slug"`
		Status *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.Update(c.Context(), projectID, service.ProjectUpdate{
		Name:   req.Name,
		Slug:   req.Slug,
		Status: req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}

// UpdatePresentation handles PUT /api/projects/:id/presentation
func (s *Server) UpdatePresentation(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	var req presentationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	cfg, err := s.projectService.UpdatePresentation(c.Context(), projectID, service.PresentationUpdate{
		FontFamily:        req.FontFamily,
		FontSize:          req.FontSize,
		TextColor:         req.TextColor,
		BackgroundColor:   req.BackgroundColor,
		AccentColor:       req.AccentColor,
		AnimationStyle:    req.AnimationStyle,
		TransitionSeconds: req.TransitionSeconds,
		RandomizeOrder:    req.RandomizeOrder,
		AllowVideoFinish:  req.AllowVideoFinish,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cfg)
}

// DeleteProject handles DELETE /api/projects/:id. Permanent: the caller must
// echo the project name to confirm.
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := s.requireModeration(c, projectID); err != nil {
		return nil
	}

	var req struct {
		ConfirmName string `json:"confirm_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.projectService.PermanentDelete(c.Context(), projectID, req.ConfirmName); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
