package repository

import (
	"context"

	"centerstage/internal/models"
	"centerstage/internal/observability"

	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	UpdatePresentation(ctx context.Context, cfg *models.PresentationConfig) error
	Slugs(ctx context.Context) ([]string, error)
	HardDelete(ctx context.Context, id string) error
}

type projectRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db, log: observability.NewRepoLogger("projects")}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if project.Presentation == nil {
			project.Presentation = models.DefaultPresentationConfig(project.ID)
		} else {
			project.Presentation.ProjectID = project.ID
		}
		return tx.Create(project.Presentation).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogMutation(ctx, "create", map[string]interface{}{
		"project_id": project.ID,
		"slug":       project.Slug,
	})
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Presentation").Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Presentation").Where("slug = ?", slug).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Preload("Presentation").Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var projects []*models.Project
	err := r.db.WithContext(ctx).Preload("Presentation").
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Presentation", "Submissions").Save(project).Error
}

func (r *projectRepository) UpdatePresentation(ctx context.Context, cfg *models.PresentationConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *projectRepository) Slugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Model(&models.Project{}).Pluck("slug", &slugs).Error
	return slugs, err
}

// HardDelete permanently removes a project and everything under it. The
// cascade is explicit so sqlite test databases behave like postgres with FK
// cascades enabled.
func (r *projectRepository) HardDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.PresentationConfig{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "hard_delete")
		return err
	}
	r.log.LogMutation(ctx, "hard_delete", map[string]interface{}{"project_id": id})
	return nil
}
