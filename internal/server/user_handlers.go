package server

import (
	"centerstage/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /api/users (super admin only)
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.userService.Create(c.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUsers handles GET /api/users (super admin only)
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// ChangeUserRole handles PUT /api/users/:id/role (super admin only)
func (s *Server) ChangeUserRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	actorID := c.Locals("userID").(uint)
	user, serr := s.userService.ChangeRole(c.Context(), actorID, id, req.Role)
	if serr != nil {
		return respondServiceError(c, serr)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id (super admin only)
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actorID := c.Locals("userID").(uint)
	if serr := s.userService.Delete(c.Context(), actorID, id); serr != nil {
		return respondServiceError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GrantProjectAccess handles POST /api/users/:id/projects/:projectId (super admin only)
func (s *Server) GrantProjectAccess(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	projectID := c.Params("projectId")

	// Make sure the project exists before recording a grant against it.
	if _, serr := s.projectService.Get(c.Context(), projectID); serr != nil {
		return respondServiceError(c, serr)
	}
	if serr := s.userService.GrantAccess(c.Context(), id, projectID); serr != nil {
		return respondServiceError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokeProjectAccess handles DELETE /api/users/:id/projects/:projectId (super admin only)
func (s *Server) RevokeProjectAccess(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	projectID := c.Params("projectId")

	if serr := s.userService.RevokeAccess(c.Context(), id, projectID); serr != nil {
		return respondServiceError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}
