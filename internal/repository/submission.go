package repository

import (
	"context"
	"strings"
	"time"

	"centerstage/internal/cache"
	"centerstage/internal/models"
	"centerstage/internal/observability"

	"gorm.io/gorm"
)

// SubmissionFilter narrows a review-queue listing. Query matches full_name,
// social_handle, or comment case-insensitively (OR semantics). Start/End
// bound created_at inclusively; End should already be pushed to end-of-day by
// the caller for date-only custom ranges.
type SubmissionFilter struct {
	Query string
	Start *time.Time
	End   *time.Time
}

// SubmissionRepository defines the interface for submission data operations.
// This is the record-store contract the review queue and presentation
// consume.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	ListByStatus(ctx context.Context, projectID, status string, filter SubmissionFilter) ([]models.Submission, error)
	ListApproved(ctx context.Context, projectID string) ([]models.Submission, error)
	CountsByStatus(ctx context.Context, projectID string) (models.StatusCounts, error)
	Update(ctx context.Context, sub *models.Submission) error
	// HardDelete removes the row iff its current status is exactly "deleted".
	// Returns (deleted, error); deleted is false when the guard blocked it.
	HardDelete(ctx context.Context, id string) (bool, error)
}

type submissionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db, log: observability.NewRepoLogger("submissions")}
}

func (r *submissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	// The public form cannot choose a status: every new submission enters the
	// queue as pending.
	sub.Status = models.StatusPending
	if sub.DisplayMode == "" {
		sub.DisplayMode = models.DisplayRepeat
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogMutation(ctx, "create", map[string]interface{}{
		"submission_id": sub.ID,
		"project_id":    sub.ProjectID,
	})
	cache.Invalidate(ctx, cache.ApprovedKey(sub.ProjectID))
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) ListByStatus(ctx context.Context, projectID, status string, filter SubmissionFilter) ([]models.Submission, error) {
	q := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, status)

	if trimmed := strings.TrimSpace(filter.Query); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR LOWER(social_handle) LIKE ? OR LOWER(comment) LIKE ?",
			like, like, like,
		)
	}
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("created_at <= ?", *filter.End)
	}

	var subs []models.Submission
	err := q.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) ListApproved(ctx context.Context, projectID string) ([]models.Submission, error) {
	var subs []models.Submission
	err := cache.Aside(ctx, cache.ApprovedKey(projectID), &subs, cache.ApprovedTTL, func() error {
		return r.db.WithContext(ctx).
			Where("project_id = ? AND status = ?", projectID, models.StatusApproved).
			Order("created_at ASC").
			Find(&subs).Error
	})
	return subs, err
}

// CountsByStatus groups all of the project's submissions in a single pass.
// Every enumerated status is present in the result, zero when empty.
func (r *submissionRepository) CountsByStatus(ctx context.Context, projectID string) (models.StatusCounts, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Select("status, COUNT(*) as n").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := models.NewStatusCounts()
	for _, rw := range rows {
		counts[rw.Status] = rw.N
	}
	return counts, nil
}

func (r *submissionRepository) Update(ctx context.Context, sub *models.Submission) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return err
	}
	r.log.LogMutation(ctx, "update", map[string]interface{}{
		"submission_id": sub.ID,
		"status":        sub.Status,
	})
	cache.Invalidate(ctx, cache.ApprovedKey(sub.ProjectID))
	return nil
}

func (r *submissionRepository) HardDelete(ctx context.Context, id string) (bool, error) {
	sub, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	// The status guard rides in the WHERE clause so a concurrent transition
	// between the read and the delete still cannot erase a non-deleted row.
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.StatusDeleted).
		Delete(&models.Submission{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.log.LogMutation(ctx, "hard_delete", map[string]interface{}{
		"submission_id": id,
		"project_id":    sub.ProjectID,
	})
	cache.Invalidate(ctx, cache.ApprovedKey(sub.ProjectID))
	return true, nil
}
