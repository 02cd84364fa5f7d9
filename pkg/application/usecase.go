package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zhiyanlab/research-match/pkg/match"
	"github.com/zhiyanlab/research-match/pkg/notification"
	"github.com/zhiyanlab/research-match/pkg/project"
)

// ErrValidation is a simple validation error for malformed application input.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

// UseCase covers the application lifecycle: submit, list, decide.
type UseCase interface {
	Apply(ctx context.Context, studentID, projectID uuid.UUID, statement string) (Application, error)
	ListByProject(ctx context.Context, teacherID, projectID uuid.UUID, limit, offset int) ([]Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]Application, error)
	Decide(ctx context.Context, teacherID, applicationID uuid.UUID, status Status) error
	Applicants(ctx context.Context, teacherID, projectID uuid.UUID) ([]ApplicantSummary, error)
}

// ErrNotOwner is returned when a teacher touches a project they do not own.
var ErrNotOwner = errors.New("project belongs to another teacher")

type service struct {
	apps     Repository
	projects project.Repository
	matcher  match.UseCase
	engine   match.Engine
	notifier notification.Notifier
}

// NewService wires the application lifecycle. The matcher, engine and
// notifier are optional: without the first two applications are stored with
// no score, without the last decisions go unannounced.
func NewService(apps Repository, projects project.Repository, matcher match.UseCase, engine match.Engine, notifier notification.Notifier) UseCase {
	return &service{apps: apps, projects: projects, matcher: matcher, engine: engine, notifier: notifier}
}

func (s *service) Apply(ctx context.Context, studentID, projectID uuid.UUID, statement string) (Application, error) {
	if statement == "" {
		return Application{}, ErrValidation("statement is required")
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return Application{}, err
	}

	app := Application{
		ID:        uuid.New(),
		ProjectID: projectID,
		StudentID: studentID,
		Statement: statement,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	// Score at submission time so teachers see it immediately. A failed or
	// absent matcher keeps the score empty rather than blocking the apply.
	if s.matcher != nil && s.engine != nil {
		if result, err := s.matcher.Compute(ctx, studentID, projectID, s.engine); err == nil {
			score := result.Score
			app.MatchScore = &score
		}
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *service) ListByProject(ctx context.Context, teacherID, projectID uuid.UUID, limit, offset int) ([]Application, error) {
	if err := s.checkOwner(ctx, teacherID, projectID); err != nil {
		return nil, err
	}
	return s.apps.ListByProject(ctx, projectID, limit, offset)
}

func (s *service) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]Application, error) {
	return s.apps.ListByStudent(ctx, studentID, limit, offset)
}

func (s *service) Decide(ctx context.Context, teacherID, applicationID uuid.UUID, status Status) error {
	if status != StatusAccepted && status != StatusRejected {
		return ErrValidation("status must be accepted or rejected")
	}
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, teacherID, app.ProjectID); err != nil {
		return err
	}
	if err := s.apps.UpdateStatus(ctx, applicationID, status); err != nil {
		return err
	}
	if s.notifier != nil {
		// Best-effort; a lost notification must not fail the decision.
		_ = s.notifier.Notify(ctx, notification.Event{
			UserID:  app.StudentID,
			Kind:    "application." + string(status),
			Message: "your application was " + string(status),
		})
	}
	return nil
}

func (s *service) Applicants(ctx context.Context, teacherID, projectID uuid.UUID) ([]ApplicantSummary, error) {
	if err := s.checkOwner(ctx, teacherID, projectID); err != nil {
		return nil, err
	}
	return s.apps.ListApplicantsByProject(ctx, projectID)
}

func (s *service) checkOwner(ctx context.Context, teacherID, projectID uuid.UUID) error {
	pr, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if pr.TeacherID != teacherID {
		return ErrNotOwner
	}
	return nil
}
