package repository

import (
	"context"
	"testing"
	"time"

	"centerstage/internal/database"
	"centerstage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, repo ProjectRepository, name, slug string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, Slug: slug, Status: models.ProjectActive, CreatedBy: 1}
	require.NoError(t, repo.Create(context.Background(), project))
	return project
}

func TestProjectCreateAttachesPresentationDefaults(t *testing.T) {
	db := testDB(t)
	repo := NewProjectRepository(db)

	project := createProject(t, repo, "Summer Tour", "summer-tour")

	got, err := repo.GetBySlug(context.Background(), "summer-tour")
	require.NoError(t, err)
	require.NotNil(t, got.Presentation)
	assert.Equal(t, project.ID, got.Presentation.ProjectID)
	assert.Equal(t, 8, got.Presentation.TransitionSeconds)
	assert.Equal(t, "Inter", got.Presentation.FontFamily)
	assert.Equal(t, models.AnimationFade, got.Presentation.AnimationStyle)
}

func TestProjectSlugUnique(t *testing.T) {
	db := testDB(t)
	repo := NewProjectRepository(db)

	createProject(t, repo, "One", "shared-slug")
	dup := &models.Project{Name: "Two", Slug: "shared-slug", Status: models.ProjectActive, CreatedBy: 1}
	err := repo.Create(context.Background(), dup)
	assert.Error(t, err)
}

func TestProjectSlugs(t *testing.T) {
	db := testDB(t)
	repo := NewProjectRepository(db)

	createProject(t, repo, "A", "alpha")
	createProject(t, repo, "B", "beta")

	slugs, err := repo.Slugs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, slugs)
}

func TestProjectHardDeleteCascades(t *testing.T) {
	db := testDB(t)
	projects := NewProjectRepository(db)
	subs := NewSubmissionRepository(db)
	users := NewUserRepository(db)

	project := createProject(t, projects, "Doomed", "doomed")
	keeper := createProject(t, projects, "Keeper", "keeper")
	user := createUser(t, db, "mod")
	require.NoError(t, users.GrantProjectAccess(context.Background(), user.ID, project.ID))

	require.NoError(t, subs.Create(context.Background(), &models.Submission{
		ProjectID: project.ID, FullName: "A", Comment: "hi",
	}))
	require.NoError(t, subs.Create(context.Background(), &models.Submission{
		ProjectID: keeper.ID, FullName: "B", Comment: "hello",
	}))

	require.NoError(t, projects.HardDelete(context.Background(), project.ID))

	_, err := projects.GetByID(context.Background(), project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var subCount, cfgCount, memberCount int64
	db.Model(&models.Submission{}).Where("project_id = ?", project.ID).Count(&subCount)
	db.Model(&models.PresentationConfig{}).Where("project_id = ?", project.ID).Count(&cfgCount)
	db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount)
	assert.Zero(t, subCount)
	assert.Zero(t, cfgCount)
	assert.Zero(t, memberCount)

	// Sibling project untouched.
	left, err := subs.ListByStatus(context.Background(), keeper.ID, models.StatusPending, SubmissionFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestSubmissionCreateForcesPending(t *testing.T) {
	db := testDB(t)
	projects := NewProjectRepository(db)
	subs := NewSubmissionRepository(db)
	project := createProject(t, projects, "P", "p")

	sub := &models.Submission{
		ProjectID: project.ID,
		FullName:  "Sneaky",
		Comment:   "approve me",
		Status:    models.StatusApproved,
	}
	require.NoError(t, subs.Create(context.Background(), sub))

	got, err := subs.GetByID(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, models.DisplayRepeat, got.DisplayMode)
	assert.NotEmpty(t, got.ID)
}

func TestSubmissionListByStatusFilters(t *testing.T) {
	db := testDB(t)
	projects := NewProjectRepository(db)
	subs := NewSubmissionRepository(db)
	project := createProject(t, projects, "P", "p")
	ctx := context.Background()

	seed := func(name, handle, comment string, created time.Time) {
		s := &models.Submission{ProjectID: project.ID, FullName: name, SocialHandle: handle, Comment: comment}
		require.NoError(t, subs.Create(ctx, s))
		require.NoError(t, db.Model(&models.Submission{}).Where("id = ?", s.ID).
			Update("created_at", created).Error)
	}

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seed("Alice Smith", "@alice", "great show", now.Add(-48*time.Hour))
	seed("Bob Jones", "@bobby", "ALICE sent me", now.Add(-24*time.Hour))
	seed("Carol King", "@carol", "loved it", now)

	all, err := subs.ListByStatus(ctx, project.ID, models.StatusPending, SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "Carol King", all[0].FullName)
	assert.Equal(t, "Alice Smith", all[2].FullName)

	// Case-insensitive OR search across name, handle, comment.
	matched, err := subs.ListByStatus(ctx, project.ID, models.StatusPending, SubmissionFilter{Query: "alice"})
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	byHandle, err := subs.ListByStatus(ctx, project.ID, models.StatusPending, SubmissionFilter{Query: "BOBBY"})
	require.NoError(t, err)
	assert.Len(t, byHandle, 1)

	// Inclusive date bounds.
	start := now.Add(-24 * time.Hour)
	end := now
	ranged, err := subs.ListByStatus(ctx, project.ID, models.StatusPending, SubmissionFilter{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}

func TestSubmissionListApprovedOldestFirst(t *testing.T) {
	db := testDB(t)
	projects := NewProjectRepository(db)
	subs := NewSubmissionRepository(db)
	project := createProject(t, projects, "P", "p")
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"First", "Second", "Third"} {
		s := &models.Submission{ProjectID: project.ID, FullName: name, Comment: "x"}
		require.NoError(t, subs.Create(ctx, s))
		require.NoError(t, db.Model(&models.Submission{}).Where("id = ?", s.ID).
			Updates(map[string]any{
				"status":     models.StatusApproved,
				"created_at": now.Add(time.Duration(i) * time.Hour),
			}).Error)
	}
	// A pending one that must not leak into the approved list.
	require.NoError(t, subs.Create(ctx, &models.Submission{ProjectID: project.ID, FullName: "Hidden", Comment: "x"}))

	approved, err := subs.ListApproved(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, approved, 3)
	assert.Equal(t, "First", approved[0].FullName)
	assert.Equal(t, "Third", approved[2].FullName)
}

func TestSubmissionCountsByStatus(t *testing.T) {
	db := testDB(t)
	projects := NewProjectRepository(db)
	subs := NewSubmissionRepository(db)
	project := createProject(t, projects, "P", "p")
	ctx := context.Background()

	for _, status := range []string{models.StatusApproved, models.StatusApproved, models.StatusDeclined} {
		s := &models.Submission{ProjectID: project.ID, FullName: "N", Comment: "x"}
		require.NoError(t, subs.Create(ctx, s))
		require.NoError(t, db.Model(&models.Submission{}).Where("id = ?", s.ID).
			Update("status", status).Error)
	}
	require.NoError(t, subs.Create(ctx, &models.Submission{ProjectID: project.ID, FullName: "N", Comment: "x"}))

	counts, err := subs.CountsByStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusPending])
	assert.Equal(t, int64(2), counts[models.StatusApproved])
	assert.Equal(t, int64(1), counts[models.StatusDeclined])
	assert.Equal(t, int64(0), counts[models.StatusArchived])
	assert.Equal(t, int64(0), counts[models.StatusDeleted])
}

func TestSubmissionHardDeleteGuard(t *testing.T) {
	db := testDB(t)
	projects := NewProjectRepository(db)
	subs := NewSubmissionRepository(db)
	project := createProject(t, projects, "P", "p")
	ctx := context.Background()

	sub := &models.Submission{ProjectID: project.ID, FullName: "N", Comment: "x"}
	require.NoError(t, subs.Create(ctx, sub))

	// Still pending: guard blocks the delete and the row survives.
	deleted, err := subs.HardDelete(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	_, err = subs.GetByID(ctx, sub.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Submission{}).Where("id = ?", sub.ID).
		Update("status", models.StatusDeleted).Error)

	deleted, err = subs.HardDelete(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = subs.GetByID(ctx, sub.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserProjectAccess(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	projects := NewProjectRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "mod")
	a := createProject(t, projects, "A", "a")
	b := createProject(t, projects, "B", "b")

	require.NoError(t, users.GrantProjectAccess(ctx, user.ID, a.ID))
	// Granting twice is a no-op, not an error.
	require.NoError(t, users.GrantProjectAccess(ctx, user.ID, a.ID))

	has, err := users.HasProjectAccess(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = users.HasProjectAccess(ctx, user.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, has)

	ids, err := users.ProjectIDsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids)

	require.NoError(t, users.RevokeProjectAccess(ctx, user.ID, a.ID))
	has, err = users.HasProjectAccess(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestUserUpdateRole(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "promoteme")
	updated, err := users.UpdateRole(ctx, user.ID, models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, updated.Role)
	assert.True(t, updated.IsSuperAdmin())
}
