package seed

import (
	"testing"

	"centerstage/internal/database"
	"centerstage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSeedsAllStatuses(t *testing.T) {
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)

	f := NewFactory(db, Options{ProjectName: "Seed Test", Submissions: 60})
	require.NoError(t, f.Demo())

	var project models.Project
	require.NoError(t, db.Where("slug = ?", "seed-test").First(&project).Error)
	assert.Equal(t, models.ProjectActive, project.Status)

	var cfg models.PresentationConfig
	require.NoError(t, db.Where("project_id = ?", project.ID).First(&cfg).Error)

	var total int64
	require.NoError(t, db.Model(&models.Submission{}).Where("project_id = ?", project.ID).Count(&total).Error)
	assert.Equal(t, int64(60), total)

	// Reviewed rows carry the reviewer stamp; pending rows do not.
	var unstampedReviewed int64
	db.Model(&models.Submission{}).
		Where("project_id = ? AND status <> ? AND reviewed_at IS NULL", project.ID, models.StatusPending).
		Count(&unstampedReviewed)
	assert.Zero(t, unstampedReviewed)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "demo_admin").First(&admin).Error)
	assert.True(t, admin.IsSuperAdmin())
}

func TestDemoIsRerunnable(t *testing.T) {
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)

	require.NoError(t, NewFactory(db, Options{Submissions: 5}).Demo())
	require.NoError(t, NewFactory(db, Options{Submissions: 5}).Demo())

	// Second run probes a fresh slug instead of colliding.
	var slugs []string
	require.NoError(t, db.Model(&models.Project{}).Pluck("slug", &slugs).Error)
	assert.Len(t, slugs, 2)
	assert.Contains(t, slugs, "demo-night")
	assert.Contains(t, slugs, "demo-night-1")
}
