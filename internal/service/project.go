package service

import (
	"context"
	"errors"
	"fmt"

	"centerstage/internal/models"
	"centerstage/internal/repository"
	"centerstage/internal/slug"

	"gorm.io/gorm"
)

// ProjectUpdate carries a partial project change. Nil fields stay untouched.
type ProjectUpdate struct {
	Name   *string
	Slug   *string
	Status *string
}

// PresentationUpdate carries a partial presentation config change.
type PresentationUpdate struct {
	FontFamily        *string
	FontSize          *int
	TextColor         *string
	BackgroundColor   *string
	AccentColor       *string
	AnimationStyle    *string
	TransitionSeconds *int
	RandomizeOrder    *bool
	AllowVideoFinish  *bool
}

// Transition bounds for the base slide duration, in seconds.
const (
	MinTransitionSeconds = 1
	MaxTransitionSeconds = 60
)

// ProjectService owns the project lifecycle: slug assignment, membership
// scoping, presentation settings, and the confirmed permanent delete.
type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
}

// NewProjectService wires the project rules.
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// Create makes a new project for creator. An empty customSlug derives the
// slug from the name with a uniqueness probe; a provided one must be well
// formed and unused.
func (s *ProjectService) Create(ctx context.Context, name, customSlug string, creator uint, presentation *models.PresentationConfig) (*models.Project, error) {
	existing, err := s.projects.Slugs(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var slugValue string
	if customSlug != "" {
		if !slug.IsValid(customSlug) {
			return nil, models.NewValidationError(fmt.Sprintf("invalid slug %q", customSlug))
		}
		for _, e := range existing {
			if e == customSlug {
				return nil, models.NewConflictError(fmt.Sprintf("slug %q is already taken", customSlug))
			}
		}
		slugValue = customSlug
	} else {
		slugValue = slug.Make(name, existing)
	}

	project := &models.Project{
		Name:         name,
		Slug:         slugValue,
		Status:       models.ProjectActive,
		CreatedBy:    creator,
		Presentation: presentation,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, models.NewInternalError(err)
	}
	// The creator moderates their own project without a separate grant.
	if err := s.users.GrantProjectAccess(ctx, creator, project.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return project, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", id)
		}
		return nil, models.NewInternalError(err)
	}
	return project, nil
}

// GetActiveBySlug returns an active project for the public surface. Archived
// and deleted projects are indistinguishable from missing ones.
func (s *ProjectService) GetActiveBySlug(ctx context.Context, slugValue string) (*models.Project, error) {
	project, err := s.projects.GetBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", slugValue)
		}
		return nil, models.NewInternalError(err)
	}
	if project.Status != models.ProjectActive {
		return nil, models.NewNotFoundError("Project", slugValue)
	}
	return project, nil
}

// ListFor returns the projects visible to a user: everything for super
// admins, membership-scoped otherwise.
func (s *ProjectService) ListFor(ctx context.Context, user *models.User) ([]*models.Project, error) {
	if user.IsSuperAdmin() {
		projects, err := s.projects.List(ctx)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return projects, nil
	}

	ids, err := s.users.ProjectIDsForUser(ctx, user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	projects, err := s.projects.ListByIDs(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

// Update applies a partial change to name, slug, or status. Status moves
// cover archive and restore.
func (s *ProjectService) Update(ctx context.Context, id string, update ProjectUpdate) (*models.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Slug != nil && *update.Slug != project.Slug {
		if !slug.IsValid(*update.Slug) {
			return nil, models.NewValidationError(fmt.Sprintf("invalid slug %q", *update.Slug))
		}
		existing, err := s.projects.Slugs(ctx)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		for _, e := range existing {
			if e == *update.Slug {
				return nil, models.NewConflictError(fmt.Sprintf("slug %q is already taken", *update.Slug))
			}
		}
		project.Slug = *update.Slug
	}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, models.NewValidationError("project name cannot be empty")
		}
		project.Name = *update.Name
	}
	if update.Status != nil {
		if !models.ValidProjectStatus(*update.Status) {
			return nil, models.NewValidationError(fmt.Sprintf("invalid project status %q", *update.Status))
		}
		project.Status = *update.Status
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, models.NewInternalError(err)
	}
	return project, nil
}

// UpdatePresentation applies a partial presentation settings change.
func (s *ProjectService) UpdatePresentation(ctx context.Context, projectID string, update PresentationUpdate) (*models.PresentationConfig, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cfg := project.Presentation
	if cfg == nil {
		cfg = models.DefaultPresentationConfig(project.ID)
	}

	if update.TransitionSeconds != nil {
		if *update.TransitionSeconds < MinTransitionSeconds || *update.TransitionSeconds > MaxTransitionSeconds {
			return nil, models.NewValidationError(fmt.Sprintf("transition must be between %d and %d seconds", MinTransitionSeconds, MaxTransitionSeconds))
		}
		cfg.TransitionSeconds = *update.TransitionSeconds
	}
	if update.AnimationStyle != nil {
		switch *update.AnimationStyle {
		case models.AnimationFade, models.AnimationSlide, models.AnimationZoom:
			cfg.AnimationStyle = *update.AnimationStyle
		default:
			return nil, models.NewValidationError(fmt.Sprintf("invalid animation style %q", *update.AnimationStyle))
		}
	}
	if update.FontFamily != nil {
		cfg.FontFamily = *update.FontFamily
	}
	if update.FontSize != nil {
		cfg.FontSize = *update.FontSize
	}
	if update.TextColor != nil {
		cfg.TextColor = *update.TextColor
	}
	if update.BackgroundColor != nil {
		cfg.BackgroundColor = *update.BackgroundColor
	}
	if update.AccentColor != nil {
		cfg.AccentColor = *update.AccentColor
	}
	if update.RandomizeOrder != nil {
		cfg.RandomizeOrder = *update.RandomizeOrder
	}
	if update.AllowVideoFinish != nil {
		cfg.AllowVideoFinish = *update.AllowVideoFinish
	}

	if err := s.projects.UpdatePresentation(ctx, cfg); err != nil {
		return nil, models.NewInternalError(err)
	}
	return cfg, nil
}

// PermanentDelete erases a project and everything under it. The caller must
// echo the exact project name as confirmation.
func (s *ProjectService) PermanentDelete(ctx context.Context, id, confirmation string) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if confirmation != project.Name {
		return models.NewConfirmationMismatchError()
	}
	if err := s.projects.HardDelete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CanModerate reports whether the user may operate the project's review
// queue and settings.
func (s *ProjectService) CanModerate(ctx context.Context, user *models.User, projectID string) (bool, error) {
	if user.IsSuperAdmin() {
		return true, nil
	}
	has, err := s.users.HasProjectAccess(ctx, user.ID, projectID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return has, nil
}
