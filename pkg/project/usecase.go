package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, p Project) (Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	if p.Title == "" {
		return Project{}, ErrValidation("title is required")
	}
	if p.Description == "" {
		return Project{}, ErrValidation("description is required")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Project, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]Project, error) {
	return s.repo.ListByTeacher(ctx, teacherID, limit, offset)
}

// ErrValidation is a simple validation error for malformed project input.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
