package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses. Only active projects serve the public submission form and
// the presentation.
const (
	ProjectActive   = "active"
	ProjectArchived = "archived"
	ProjectDeleted  = "deleted"
)

// Presentation animation styles.
const (
	AnimationFade  = "fade"
	AnimationSlide = "slide"
	AnimationZoom  = "zoom"
)

// Project is a branded collection container for public submissions.
type Project struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	Name         string              `gorm:"not null" json:"name"`
	Slug         string              `gorm:"unique;not null;index" json:"slug"`
	Status       string              `gorm:"not null;default:active;index" json:"status"`
	CreatedBy    uint                `gorm:"not null" json:"created_by"`
	Presentation *PresentationConfig `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"presentation,omitempty"`
	Submissions  []Submission        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// BeforeCreate assigns an opaque id. Generated app-side so sqlite test
// databases behave the same as postgres.
func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ValidProjectStatus reports whether status is one of the enumerated project statuses.
func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectActive, ProjectArchived, ProjectDeleted:
		return true
	}
	return false
}

// PresentationConfig holds the display settings the slideshow sequencer
// consumes, one row per project.
type PresentationConfig struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID         string    `gorm:"size:36;not null;uniqueIndex" json:"project_id"`
	FontFamily        string    `gorm:"not null;default:Inter" json:"font_family"`
	FontSize          int       `gorm:"not null;default:32" json:"font_size"`
	TextColor         string    `gorm:"not null;default:#ffffff" json:"text_color"`
	BackgroundColor   string    `gorm:"not null;default:#111111" json:"background_color"`
	AccentColor       string    `gorm:"not null;default:#f59e0b" json:"accent_color"`
	AnimationStyle    string    `gorm:"not null;default:fade" json:"animation_style"`
	TransitionSeconds int       `gorm:"not null;default:8" json:"transition_seconds"`
	RandomizeOrder    bool      `gorm:"not null;default:false" json:"randomize_order"`
	AllowVideoFinish  bool      `gorm:"not null;default:false" json:"allow_video_finish"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque id.
func (p *PresentationConfig) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DefaultPresentationConfig returns the config a new project starts with.
func DefaultPresentationConfig(projectID string) *PresentationConfig {
	return &PresentationConfig{
		ProjectID:         projectID,
		FontFamily:        "Inter",
		FontSize:          32,
		TextColor:         "#ffffff",
		BackgroundColor:   "#111111",
		AccentColor:       "#f59e0b",
		AnimationStyle:    AnimationFade,
		TransitionSeconds: 8,
	}
}
