// Package service holds the business rules between the HTTP handlers and the
// repositories: the submission status engine, project lifecycle, and user
// administration.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"centerstage/internal/featureflags"
	"centerstage/internal/models"
	"centerstage/internal/observability"
	"centerstage/internal/repository"

	"gorm.io/gorm"
)

// Timing bounds for per-slide custom durations, in seconds.
const (
	MinCustomTiming = 1
	MaxCustomTiming = 30
)

// DisplayUpdate carries a partial display settings change. Nil fields are
// left untouched; ClearTiming removes a custom duration explicitly.
type DisplayUpdate struct {
	DisplayMode  *string
	CustomTiming *int
	ClearTiming  bool
}

// SubmissionService applies the review workflow rules on top of the
// submission store.
type SubmissionService struct {
	subs     repository.SubmissionRepository
	projects repository.ProjectRepository
	strict   bool
	flags    *featureflags.Manager
	now      func() time.Time
}

// NewSubmissionService wires the submission rules. strict enables the
// enforced transition graph; the strict_transitions feature flag can switch
// it on at runtime as well.
func NewSubmissionService(subs repository.SubmissionRepository, projects repository.ProjectRepository, strict bool, flags *featureflags.Manager) *SubmissionService {
	return &SubmissionService{
		subs:     subs,
		projects: projects,
		strict:   strict,
		flags:    flags,
		now:      time.Now,
	}
}

// SubmitPublic accepts a public submission against an active project. The
// incoming record always enters the queue as pending.
func (s *SubmissionService) SubmitPublic(ctx context.Context, slug string, sub *models.Submission) (*models.Submission, error) {
	project, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", slug)
		}
		return nil, models.NewInternalError(err)
	}
	if project.Status != models.ProjectActive {
		return nil, models.NewNotFoundError("Project", slug)
	}

	sub.ProjectID = project.ID
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.SubmissionsCreated.WithLabelValues(project.Slug).Inc()
	return sub, nil
}

// ListQueue returns one status tab of the review queue.
func (s *SubmissionService) ListQueue(ctx context.Context, projectID, status string, filter repository.SubmissionFilter) ([]models.Submission, error) {
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError(fmt.Sprintf("invalid status %q", status))
	}
	subs, err := s.subs.ListByStatus(ctx, projectID, status, filter)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

// Counts returns the per-status totals for a project's queue tabs.
func (s *SubmissionService) Counts(ctx context.Context, projectID string) (models.StatusCounts, error) {
	counts, err := s.subs.CountsByStatus(ctx, projectID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return counts, nil
}

// ChangeStatus moves a submission to newStatus and stamps the reviewer.
func (s *SubmissionService) ChangeStatus(ctx context.Context, id, newStatus string, reviewerID uint) (*models.Submission, error) {
	if !models.ValidStatus(newStatus) {
		return nil, models.NewValidationError(fmt.Sprintf("invalid status %q", newStatus))
	}

	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Submission", id)
		}
		return nil, models.NewInternalError(err)
	}

	if s.strictEnabled() && !transitionAllowed(sub.Status, newStatus) {
		return nil, models.NewConflictError(fmt.Sprintf("cannot move submission from %s to %s", sub.Status, newStatus))
	}

	now := s.now()
	sub.Status = newStatus
	sub.ReviewedAt = &now
	sub.ReviewedBy = &reviewerID
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.StatusTransitions.WithLabelValues(newStatus).Inc()
	return sub, nil
}

// UpdateDisplay changes display_mode and/or custom_timing.
func (s *SubmissionService) UpdateDisplay(ctx context.Context, id string, update DisplayUpdate) (*models.Submission, error) {
	if update.DisplayMode != nil && !models.ValidDisplayMode(*update.DisplayMode) {
		return nil, models.NewValidationError(fmt.Sprintf("invalid display mode %q", *update.DisplayMode))
	}
	if update.CustomTiming != nil {
		if *update.CustomTiming < MinCustomTiming || *update.CustomTiming > MaxCustomTiming {
			return nil, models.NewValidationError(fmt.Sprintf("custom timing must be between %d and %d seconds", MinCustomTiming, MaxCustomTiming))
		}
	}

	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Submission", id)
		}
		return nil, models.NewInternalError(err)
	}

	if update.DisplayMode != nil {
		sub.DisplayMode = *update.DisplayMode
	}
	if update.ClearTiming {
		sub.CustomTiming = nil
	} else if update.CustomTiming != nil {
		sub.CustomTiming = update.CustomTiming
	}

	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, models.NewInternalError(err)
	}
	return sub, nil
}

// HardDelete permanently removes a submission. Only records already in the
// deleted status may be erased; anything else conflicts without mutation.
func (s *SubmissionService) HardDelete(ctx context.Context, id string) error {
	deleted, err := s.subs.HardDelete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Submission", id)
		}
		return models.NewInternalError(err)
	}
	if !deleted {
		return models.NewConflictError("submission must be in the deleted status before permanent removal")
	}
	return nil
}

// ListApproved returns the approved slideshow set, oldest first.
func (s *SubmissionService) ListApproved(ctx context.Context, projectID string) ([]models.Submission, error) {
	subs, err := s.subs.ListApproved(ctx, projectID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (s *SubmissionService) strictEnabled() bool {
	return s.strict || s.flags.Enabled(featureflags.StrictTransitions)
}

// transitionAllowed is the enforced status graph: pending is decided into
// approved or declined, anything live can be archived or soft-deleted, and a
// soft-deleted record can only be restored to pending.
func transitionAllowed(from, to string) bool {
	if from == models.StatusDeleted {
		return to == models.StatusPending
	}
	switch to {
	case models.StatusApproved, models.StatusDeclined:
		return from == models.StatusPending
	case models.StatusArchived, models.StatusDeleted:
		return true
	case models.StatusPending:
		return false
	}
	return false
}
