package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission statuses. A submission is always in exactly one of these; the
// review UI moves it between them. "deleted" is a soft state the record stays
// queryable in; removal from the table is a separate hard delete.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
	StatusArchived = "archived"
	StatusDeleted  = "deleted"
)

// Display modes, meaningful while a submission is approved.
const (
	DisplayOnce   = "once"
	DisplayRepeat = "repeat"
)

// AllStatuses lists the enumerated submission statuses in tab order.
var AllStatuses = []string{StatusPending, StatusApproved, StatusDeclined, StatusArchived, StatusDeleted}

// Submission is a public comment/photo/video entry against a project.
//
// Note there is no gorm.DeletedAt here: the deleted status is part of the
// review workflow and those rows must remain listable, so soft delete is a
// status value and hard delete is a real row delete.
type Submission struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	ProjectID    string     `gorm:"size:36;not null;index" json:"project_id"`
	FullName     string     `gorm:"not null" json:"full_name"`
	SocialHandle string     `json:"social_handle,omitempty"`
	Email        string     `json:"email,omitempty"`
	Comment      string     `gorm:"type:text;not null" json:"comment"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	VideoURL     string     `json:"video_url,omitempty"`
	Status       string     `gorm:"not null;default:pending;index:idx_submissions_project_status,priority:2" json:"status"`
	DisplayMode  string     `gorm:"not null;default:repeat" json:"display_mode"`
	CustomTiming *int       `json:"custom_timing,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   *uint      `json:"reviewed_by,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an opaque id.
func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// HasVideo reports whether the submission carries a video slide.
func (s *Submission) HasVideo() bool {
	return s.VideoURL != ""
}

// ValidStatus reports whether status is one of the five enumerated values.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusDeclined, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// ValidDisplayMode reports whether mode is one of the enumerated display modes.
func ValidDisplayMode(mode string) bool {
	return mode == DisplayOnce || mode == DisplayRepeat
}

// StatusCounts maps each submission status to its count for one project.
// Every enumerated status is always present, zero when empty.
type StatusCounts map[string]int64

// NewStatusCounts returns a counts map with every status initialized to zero.
func NewStatusCounts() StatusCounts {
	c := make(StatusCounts, len(AllStatuses))
	for _, s := range AllStatuses {
		c[s] = 0
	}
	return c
}
