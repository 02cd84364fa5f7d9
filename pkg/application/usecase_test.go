package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyanlab/research-match/pkg/match"
	"github.com/zhiyanlab/research-match/pkg/notification"
	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

type memAppRepo struct {
	byID map[uuid.UUID]Application
}

func newMemAppRepo() *memAppRepo { return &memAppRepo{byID: map[uuid.UUID]Application{}} }

func (r *memAppRepo) Create(_ context.Context, a Application) error {
	for _, existing := range r.byID {
		if existing.ProjectID == a.ProjectID && existing.StudentID == a.StudentID {
			return ErrAlreadyExists
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *memAppRepo) GetByID(_ context.Context, id uuid.UUID) (Application, error) {
	a, ok := r.byID[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return a, nil
}

func (r *memAppRepo) ListByProject(_ context.Context, projectID uuid.UUID, _, _ int) ([]Application, error) {
	out := []Application{}
	for _, a := range r.byID {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAppRepo) ListByStudent(_ context.Context, studentID uuid.UUID, _, _ int) ([]Application, error) {
	out := []Application{}
	for _, a := range r.byID {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	r.byID[id] = a
	return nil
}

func (r *memAppRepo) ListApplicantsByProject(_ context.Context, projectID uuid.UUID) ([]ApplicantSummary, error) {
	out := []ApplicantSummary{}
	for _, a := range r.byID {
		if a.ProjectID == projectID {
			out = append(out, ApplicantSummary{ApplicationID: a.ID, StudentID: a.StudentID, MatchScore: a.MatchScore})
		}
	}
	return out, nil
}

type memProjectRepo struct {
	byID map[uuid.UUID]project.Project
}

func (r *memProjectRepo) Create(_ context.Context, p project.Project) error {
	r.byID[p.ID] = p
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (r *memProjectRepo) List(_ context.Context, _, _ int) ([]project.Project, error) {
	return nil, nil
}

func (r *memProjectRepo) ListByTeacher(_ context.Context, _ uuid.UUID, _, _ int) ([]project.Project, error) {
	return nil, nil
}

type fixedMatcher struct {
	result match.Result
	err    error
}

func (m *fixedMatcher) Compute(_ context.Context, _, _ uuid.UUID, _ match.Engine) (match.Result, error) {
	return m.result, m.err
}

func fixture() (*memAppRepo, *memProjectRepo, uuid.UUID, uuid.UUID) {
	teacherID := uuid.New()
	projectID := uuid.New()
	apps := newMemAppRepo()
	projects := &memProjectRepo{byID: map[uuid.UUID]project.Project{
		projectID: {ID: projectID, TeacherID: teacherID, Title: "X", Description: "d"},
	}}
	return apps, projects, teacherID, projectID
}

func TestApplyStoresScore(t *testing.T) {
	apps, projects, _, projectID := fixture()
	matcher := &fixedMatcher{result: match.Result{Score: 83}}
	svc := NewService(apps, projects, matcher, match.NewLocalEngine(), nil)

	app, err := svc.Apply(context.Background(), uuid.New(), projectID, "please consider me")
	require.NoError(t, err)

	require.NotNil(t, app.MatchScore)
	assert.Equal(t, 83, *app.MatchScore)
	assert.Equal(t, StatusPending, app.Status)
}

func TestApplyWithoutMatcher(t *testing.T) {
	apps, projects, _, projectID := fixture()
	svc := NewService(apps, projects, nil, nil, nil)

	app, err := svc.Apply(context.Background(), uuid.New(), projectID, "statement")
	require.NoError(t, err)
	assert.Nil(t, app.MatchScore)
}

func TestApplyScoringFailureDoesNotBlock(t *testing.T) {
	apps, projects, _, projectID := fixture()
	matcher := &fixedMatcher{err: profile.ErrNotFound}
	svc := NewService(apps, projects, matcher, match.NewLocalEngine(), nil)

	app, err := svc.Apply(context.Background(), uuid.New(), projectID, "statement")
	require.NoError(t, err)
	assert.Nil(t, app.MatchScore)
}

func TestApplyRequiresStatement(t *testing.T) {
	apps, projects, _, projectID := fixture()
	svc := NewService(apps, projects, nil, nil, nil)

	_, err := svc.Apply(context.Background(), uuid.New(), projectID, "")
	var verr ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestApplyDuplicate(t *testing.T) {
	apps, projects, _, projectID := fixture()
	svc := NewService(apps, projects, nil, nil, nil)
	studentID := uuid.New()

	_, err := svc.Apply(context.Background(), studentID, projectID, "first")
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), studentID, projectID, "second")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

type recordingNotifier struct {
	events []notification.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e notification.Event) error {
	n.events = append(n.events, e)
	return nil
}

func TestDecideNotifiesStudent(t *testing.T) {
	apps, projects, teacherID, projectID := fixture()
	notifier := &recordingNotifier{}
	svc := NewService(apps, projects, nil, nil, notifier)

	studentID := uuid.New()
	app, err := svc.Apply(context.Background(), studentID, projectID, "statement")
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), teacherID, app.ID, StatusAccepted))

	require.Len(t, notifier.events, 1)
	assert.Equal(t, studentID, notifier.events[0].UserID)
	assert.Equal(t, "application.accepted", notifier.events[0].Kind)
}

func TestListByProjectOwnerOnly(t *testing.T) {
	apps, projects, teacherID, projectID := fixture()
	svc := NewService(apps, projects, nil, nil, nil)

	_, err := svc.ListByProject(context.Background(), teacherID, projectID, 10, 0)
	assert.NoError(t, err)

	_, err = svc.ListByProject(context.Background(), uuid.New(), projectID, 10, 0)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDecide(t *testing.T) {
	apps, projects, teacherID, projectID := fixture()
	svc := NewService(apps, projects, nil, nil, nil)

	app, err := svc.Apply(context.Background(), uuid.New(), projectID, "statement")
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), teacherID, app.ID, StatusAccepted))
	got, err := apps.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)

	assert.Error(t, svc.Decide(context.Background(), teacherID, app.ID, StatusPending))
	assert.ErrorIs(t, svc.Decide(context.Background(), uuid.New(), app.ID, StatusRejected), ErrNotOwner)
}
