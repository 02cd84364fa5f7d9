package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("project not found")

// Project is a faculty-led research project open for student applications.
// Title and description are mandatory; the rest is advisory matching input.
type Project struct {
	ID             uuid.UUID `json:"id"`
	TeacherID      uuid.UUID `json:"teacherId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ResearchField  string    `json:"researchField,omitempty"`
	RequiredSkills string    `json:"requiredSkills,omitempty"` // same tag format as profile skills
	Requirements   string    `json:"requirements,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Repository is the persistence port for projects.
type Repository interface {
	Create(ctx context.Context, p Project) error
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, limit, offset int) ([]Project, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]Project, error)
}

// UseCase validates and stores projects.
type UseCase interface {
	Create(ctx context.Context, p Project) (Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, limit, offset int) ([]Project, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]Project, error)
}
