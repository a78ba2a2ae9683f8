// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"centerstage/internal/models"
	"centerstage/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control demo seeding.
type Options struct {
	ProjectName   string
	Submissions   int
	AdminPassword string
	// MaxDays spreads submission timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	if opts.ProjectName == "" {
		opts.ProjectName = "Demo Night"
	}
	if opts.Submissions <= 0 {
		opts.Submissions = 40
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 14
	}
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(seed))}
}

// Demo creates an admin account, a demo project, and a spread of submissions
// across every status so the review queue and presentation have material.
func (f *Factory) Demo() error {
	admin, err := f.createAdmin()
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	project, err := f.createProject(admin)
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	if err := f.createSubmissions(project, admin); err != nil {
		return fmt.Errorf("seed submissions: %w", err)
	}

	log.Printf("seeded project %q (slug %s) with %d submissions", project.Name, project.Slug, f.opts.Submissions)
	return nil
}

func (f *Factory) createAdmin() (*models.User, error) {
	password := f.opts.AdminPassword
	if password == "" {
		password = "Demo-password-1!"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Username: "demo_admin",
		Email:    "demo@centerstage.local",
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
	}
	err = f.db.Where("username = ?", admin.Username).FirstOrCreate(admin).Error
	return admin, err
}

func (f *Factory) createProject(admin *models.User) (*models.Project, error) {
	var existing []string
	if err := f.db.Model(&models.Project{}).Pluck("slug", &existing).Error; err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:      f.opts.ProjectName,
		Slug:      slug.Make(f.opts.ProjectName, existing),
		Status:    models.ProjectActive,
		CreatedBy: admin.ID,
	}
	if err := f.db.Create(project).Error; err != nil {
		return nil, err
	}

	cfg := models.DefaultPresentationConfig(project.ID)
	cfg.RandomizeOrder = true
	if err := f.db.Create(cfg).Error; err != nil {
		return nil, err
	}

	member := &models.ProjectMember{UserID: admin.ID, ProjectID: project.ID}
	if err := f.db.Create(member).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (f *Factory) createSubmissions(project *models.Project, admin *models.User) error {
	// Weighted so the pending tab has work and the presentation has slides.
	statuses := []string{
		models.StatusPending, models.StatusPending, models.StatusPending,
		models.StatusApproved, models.StatusApproved, models.StatusApproved, models.StatusApproved,
		models.StatusDeclined,
		models.StatusArchived,
		models.StatusDeleted,
	}

	subs := make([]*models.Submission, 0, f.opts.Submissions)
	for i := 0; i < f.opts.Submissions; i++ {
		status := statuses[f.rand.Intn(len(statuses))]
		sub := f.BuildSubmission(project, status)
		if status != models.StatusPending {
			now := time.Now()
			sub.ReviewedAt = &now
			sub.ReviewedBy = &admin.ID
		}
		subs = append(subs, sub)
	}
	return f.db.Create(&subs).Error
}

// BuildSubmission constructs a submission without persisting it.
func (f *Factory) BuildSubmission(project *models.Project, status string) *models.Submission {
	sub := &models.Submission{
		ProjectID:    project.ID,
		FullName:     gofakeit.Name(),
		SocialHandle: "@" + gofakeit.Username(),
		Email:        gofakeit.Email(),
		Comment:      gofakeit.Sentence(f.rand.Intn(30) + 4),
		Status:       status,
		DisplayMode:  models.DisplayRepeat,
	}

	// Mix in media: a third carry photos, a few carry videos.
	switch f.rand.Intn(6) {
	case 0, 1:
		sub.PhotoURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	case 2:
		sub.VideoURL = fmt.Sprintf("https://cdn.centerstage.local/videos/%s.mp4", gofakeit.UUID())
	}
	if f.rand.Intn(8) == 0 {
		sub.DisplayMode = models.DisplayOnce
	}
	if f.rand.Intn(10) == 0 {
		timing := f.rand.Intn(25) + 5
		sub.CustomTiming = &timing
	}

	// Realistic created_at spread.
	daysBack := f.rand.Intn(f.opts.MaxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	sub.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
	return sub
}
