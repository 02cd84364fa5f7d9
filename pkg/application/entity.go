package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("application not found")
	ErrAlreadyExists = errors.New("student already applied to this project")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Application is a student's submission to one project, with an optional
// cached match score computed at submission time.
type Application struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"projectId"`
	StudentID  uuid.UUID `json:"studentId"`
	Statement  string    `json:"statement"`
	Status     Status    `json:"status"`
	MatchScore *int      `json:"matchScore,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ApplicantSummary is a read-only projection of an application joined with
// the applicant's profile, used by the ranking aggregator. It is never
// persisted as such.
type ApplicantSummary struct {
	ApplicationID     uuid.UUID `json:"applicationId"`
	StudentID         uuid.UUID `json:"studentId"`
	Name              string    `json:"name"`
	MatchScore        *int      `json:"matchScore"`
	GPA               string    `json:"gpa,omitempty"`
	Major             string    `json:"major,omitempty"`
	Skills            string    `json:"skills,omitempty"`
	ResearchInterests string    `json:"researchInterests,omitempty"`
	ProjectExperience string    `json:"projectExperience,omitempty"`
}

// Repository is the persistence port for applications.
type Repository interface {
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// ListApplicantsByProject joins applications with student profiles and
	// user display names into the ranking projection.
	ListApplicantsByProject(ctx context.Context, projectID uuid.UUID) ([]ApplicantSummary, error)
}
