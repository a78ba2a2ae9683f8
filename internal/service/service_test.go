package service

import (
	"context"
	"testing"

	"centerstage/internal/database"
	"centerstage/internal/featureflags"
	"centerstage/internal/models"
	"centerstage/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	users    *UserService
	projects *ProjectService
	subs     *SubmissionService
}

func newFixture(t *testing.T, strict bool, flags string) *fixture {
	t.Helper()
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	subRepo := repository.NewSubmissionRepository(db)

	return &fixture{
		db:       db,
		users:    NewUserService(userRepo),
		projects: NewProjectService(projectRepo, userRepo),
		subs:     NewSubmissionService(subRepo, projectRepo, strict, featureflags.NewManager(flags)),
	}
}

func (f *fixture) admin(t *testing.T) *models.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), "admin", "admin@example.com", "Sup3r-secret-pw!", models.RoleAdmin)
	require.NoError(t, err)
	return user
}

func (f *fixture) project(t *testing.T, creator uint) *models.Project {
	t.Helper()
	project, err := f.projects.Create(context.Background(), "Main Stage", "", creator, nil)
	require.NoError(t, err)
	return project
}

func (f *fixture) submission(t *testing.T, project *models.Project) *models.Submission {
	t.Helper()
	sub, err := f.subs.SubmitPublic(context.Background(), project.Slug, &models.Submission{
		FullName: "Jess", Comment: "hello",
	})
	require.NoError(t, err)
	return sub
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	return appErr.Code
}

func TestSubmitPublic(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	ctx := context.Background()

	sub, err := f.subs.SubmitPublic(ctx, project.Slug, &models.Submission{
		FullName: "Jess", Comment: "great night", Status: models.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, sub.Status)
	assert.Equal(t, project.ID, sub.ProjectID)

	_, err = f.subs.SubmitPublic(ctx, "no-such-project", &models.Submission{FullName: "X", Comment: "y"})
	assert.Equal(t, "NOT_FOUND", appCode(t, err))

	// Archived projects do not accept submissions and read as missing.
	archived := models.ProjectArchived
	_, err = f.projects.Update(ctx, project.ID, ProjectUpdate{Status: &archived})
	require.NoError(t, err)
	_, err = f.subs.SubmitPublic(ctx, project.Slug, &models.Submission{FullName: "X", Comment: "y"})
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}

func TestChangeStatusLooseAcceptsAnyTransition(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	sub := f.submission(t, project)
	ctx := context.Background()

	for _, status := range []string{
		models.StatusDeclined,
		models.StatusApproved,
		models.StatusDeleted,
		models.StatusArchived,
	} {
		updated, err := f.subs.ChangeStatus(ctx, sub.ID, status, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		require.NotNil(t, updated.ReviewedAt)
		require.NotNil(t, updated.ReviewedBy)
		assert.Equal(t, admin.ID, *updated.ReviewedBy)
	}

	_, err := f.subs.ChangeStatus(ctx, sub.ID, "vanished", admin.ID)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestChangeStatusStrictGraph(t *testing.T) {
	f := newFixture(t, true, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	ctx := context.Background()

	tests := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"pending approved", models.StatusPending, models.StatusApproved, true},
		{"pending declined", models.StatusPending, models.StatusDeclined, true},
		{"pending archived", models.StatusPending, models.StatusArchived, true},
		{"approved archived", models.StatusApproved, models.StatusArchived, true},
		{"approved deleted", models.StatusApproved, models.StatusDeleted, true},
		{"declined approved", models.StatusDeclined, models.StatusApproved, false},
		{"archived pending", models.StatusArchived, models.StatusPending, false},
		{"deleted pending restore", models.StatusDeleted, models.StatusPending, true},
		{"deleted approved", models.StatusDeleted, models.StatusApproved, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := f.submission(t, project)
			require.NoError(t, f.db.Model(&models.Submission{}).Where("id = ?", sub.ID).
				Update("status", tt.from).Error)

			_, err := f.subs.ChangeStatus(ctx, sub.ID, tt.to, admin.ID)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, "CONFLICT", appCode(t, err))
			}
		})
	}
}

func TestStrictViaFeatureFlag(t *testing.T) {
	f := newFixture(t, false, "strict_transitions=on")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	sub := f.submission(t, project)
	ctx := context.Background()

	require.NoError(t, f.db.Model(&models.Submission{}).Where("id = ?", sub.ID).
		Update("status", models.StatusDeclined).Error)

	_, err := f.subs.ChangeStatus(ctx, sub.ID, models.StatusApproved, admin.ID)
	assert.Equal(t, "CONFLICT", appCode(t, err))
}

func TestUpdateDisplay(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	sub := f.submission(t, project)
	ctx := context.Background()

	once := models.DisplayOnce
	timing := 12
	updated, err := f.subs.UpdateDisplay(ctx, sub.ID, DisplayUpdate{DisplayMode: &once, CustomTiming: &timing})
	require.NoError(t, err)
	assert.Equal(t, models.DisplayOnce, updated.DisplayMode)
	require.NotNil(t, updated.CustomTiming)
	assert.Equal(t, 12, *updated.CustomTiming)

	updated, err = f.subs.UpdateDisplay(ctx, sub.ID, DisplayUpdate{ClearTiming: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CustomTiming)
	assert.Equal(t, models.DisplayOnce, updated.DisplayMode)

	tooLong := 31
	_, err = f.subs.UpdateDisplay(ctx, sub.ID, DisplayUpdate{CustomTiming: &tooLong})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	bad := "forever"
	_, err = f.subs.UpdateDisplay(ctx, sub.ID, DisplayUpdate{DisplayMode: &bad})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestHardDeleteRequiresDeletedStatus(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	sub := f.submission(t, project)
	ctx := context.Background()

	err := f.subs.HardDelete(ctx, sub.ID)
	assert.Equal(t, "CONFLICT", appCode(t, err))

	_, err = f.subs.ChangeStatus(ctx, sub.ID, models.StatusDeleted, admin.ID)
	require.NoError(t, err)
	require.NoError(t, f.subs.HardDelete(ctx, sub.ID))

	err = f.subs.HardDelete(ctx, sub.ID)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}

func TestProjectCreateSlugs(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	ctx := context.Background()

	first, err := f.projects.Create(ctx, "America 2025!", "", admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "america-2025", first.Slug)

	second, err := f.projects.Create(ctx, "America 2025!", "", admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "america-2025-1", second.Slug)

	custom, err := f.projects.Create(ctx, "Whatever", "vip-lounge", admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "vip-lounge", custom.Slug)

	_, err = f.projects.Create(ctx, "Whatever", "vip-lounge", admin.ID, nil)
	assert.Equal(t, "CONFLICT", appCode(t, err))

	_, err = f.projects.Create(ctx, "Whatever", "Bad Slug!", admin.ID, nil)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	// The creator can moderate their project immediately.
	can, err := f.projects.CanModerate(ctx, admin, first.ID)
	require.NoError(t, err)
	assert.True(t, can)
}

func TestProjectPermanentDeleteConfirmation(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	f.submission(t, project)
	ctx := context.Background()

	err := f.projects.PermanentDelete(ctx, project.ID, "wrong name")
	assert.Equal(t, "CONFIRMATION_MISMATCH", appCode(t, err))

	require.NoError(t, f.projects.PermanentDelete(ctx, project.ID, project.Name))
	_, err = f.projects.Get(ctx, project.ID)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}

func TestUpdatePresentationBounds(t *testing.T) {
	f := newFixture(t, false, "")
	admin := f.admin(t)
	project := f.project(t, admin.ID)
	ctx := context.Background()

	seconds := 15
	randomize := true
	cfg, err := f.projects.UpdatePresentation(ctx, project.ID, PresentationUpdate{
		TransitionSeconds: &seconds,
		RandomizeOrder:    &randomize,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.TransitionSeconds)
	assert.True(t, cfg.RandomizeOrder)

	zero := 0
	_, err = f.projects.UpdatePresentation(ctx, project.ID, PresentationUpdate{TransitionSeconds: &zero})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	long := 61
	_, err = f.projects.UpdatePresentation(ctx, project.ID, PresentationUpdate{TransitionSeconds: &long})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	warp := "warp"
	_, err = f.projects.UpdatePresentation(ctx, project.ID, PresentationUpdate{AnimationStyle: &warp})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestProjectListScopedByMembership(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()

	root, err := f.users.Create(ctx, "root", "root@example.com", "Sup3r-secret-pw!", models.RoleSuperAdmin)
	require.NoError(t, err)
	mod, err := f.users.Create(ctx, "mod", "mod@example.com", "Sup3r-secret-pw!", models.RoleAdmin)
	require.NoError(t, err)

	mine, err := f.projects.Create(ctx, "Mine", "", mod.ID, nil)
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, "Theirs", "", root.ID, nil)
	require.NoError(t, err)

	all, err := f.projects.ListFor(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := f.projects.ListFor(ctx, mod)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, mine.ID, scoped[0].ID)
}

func TestUserLifecycle(t *testing.T) {
	f := newFixture(t, false, "")
	ctx := context.Background()

	_, err := f.users.Create(ctx, "weak", "weak@example.com", "short", models.RoleAdmin)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	user, err := f.users.Create(ctx, "jordan", "jordan@example.com", "Sup3r-secret-pw!", models.RoleAdmin)
	require.NoError(t, err)

	_, err = f.users.Create(ctx, "jordan", "other@example.com", "Sup3r-secret-pw!", models.RoleAdmin)
	assert.Equal(t, "CONFLICT", appCode(t, err))

	authed, err := f.users.Authenticate(ctx, "jordan", "Sup3r-secret-pw!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = f.users.Authenticate(ctx, "jordan", "wrong password")
	assert.Equal(t, "UNAUTHORIZED", appCode(t, err))
	_, err = f.users.Authenticate(ctx, "ghost", "Sup3r-secret-pw!")
	assert.Equal(t, "UNAUTHORIZED", appCode(t, err))

	_, err = f.users.ChangeRole(ctx, user.ID, user.ID, models.RoleSuperAdmin)
	assert.Equal(t, "CONFLICT", appCode(t, err))

	other, err := f.users.Create(ctx, "sam", "sam@example.com", "Sup3r-secret-pw!", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, other.Role)

	promoted, err := f.users.ChangeRole(ctx, user.ID, other.ID, models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.IsSuperAdmin())

	err = f.users.Delete(ctx, user.ID, user.ID)
	assert.Equal(t, "CONFLICT", appCode(t, err))
	require.NoError(t, f.users.Delete(ctx, user.ID, other.ID))
	_, err = f.users.Get(ctx, other.ID)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}
