package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a student has no profile yet.
var ErrNotFound = errors.New("student profile not found")

// StudentProfile captures what a student tells the platform about themselves.
// Every field is optional: matching degrades field-by-field instead of
// rejecting sparse profiles.
type StudentProfile struct {
	UserID            uuid.UUID `json:"userId"`
	StudentNo         string    `json:"studentNo,omitempty"`
	Major             string    `json:"major,omitempty"`
	Grade             string    `json:"grade,omitempty"`
	GPA               string    `json:"gpa,omitempty"` // free-form, e.g. "3.8/4.0"
	Skills            string    `json:"skills,omitempty"` // comma/whitespace separated tags
	ResearchInterests string    `json:"researchInterests,omitempty"`
	ProjectExperience string    `json:"projectExperience,omitempty"`
	AvailableTime     string    `json:"availableTime,omitempty"`
	ResumeID          uuid.UUID `json:"resumeId,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Repository is the persistence port for student profiles.
type Repository interface {
	Upsert(ctx context.Context, p StudentProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (StudentProfile, error)
}
