package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

type fakeProfileRepo struct {
	byID map[uuid.UUID]profile.StudentProfile
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p profile.StudentProfile) error {
	f.byID[p.UserID] = p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.StudentProfile, error) {
	p, ok := f.byID[userID]
	if !ok {
		return profile.StudentProfile{}, profile.ErrNotFound
	}
	return p, nil
}

type fakeProjectRepo struct {
	byID map[uuid.UUID]project.Project
}

func (f *fakeProjectRepo) Create(_ context.Context, p project.Project) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectRepo) List(_ context.Context, _, _ int) ([]project.Project, error) {
	return nil, nil
}

func (f *fakeProjectRepo) ListByTeacher(_ context.Context, _ uuid.UUID, _, _ int) ([]project.Project, error) {
	return nil, nil
}

type cacheEntry struct {
	result    Result
	expiresAt time.Time
}

type fakeCache struct {
	entries map[string]cacheEntry
	getErr  error
	putErr  error
	puts    int
}

func cacheKey(studentID, projectID uuid.UUID) string {
	return studentID.String() + "/" + projectID.String()
}

func (f *fakeCache) Get(_ context.Context, studentID, projectID uuid.UUID) (Result, bool, error) {
	if f.getErr != nil {
		return Result{}, false, f.getErr
	}
	e, ok := f.entries[cacheKey(studentID, projectID)]
	if !ok {
		return Result{}, false, nil
	}
	return e.result, true, nil
}

func (f *fakeCache) Put(_ context.Context, studentID, projectID uuid.UUID, r Result, expiresAt time.Time) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.entries[cacheKey(studentID, projectID)] = cacheEntry{result: r, expiresAt: expiresAt}
	return nil
}

type countingEngine struct {
	result Result
	calls  int
}

func (e *countingEngine) Name() string { return "counting" }

func (e *countingEngine) Match(_ context.Context, _ profile.StudentProfile, _ project.Project) Result {
	e.calls++
	return e.result
}

func newFixture(t *testing.T) (*fakeProfileRepo, *fakeProjectRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	studentID := uuid.New()
	projectID := uuid.New()
	profiles := &fakeProfileRepo{byID: map[uuid.UUID]profile.StudentProfile{
		studentID: {UserID: studentID, Major: "cs"},
	}}
	projects := &fakeProjectRepo{byID: map[uuid.UUID]project.Project{
		projectID: {ID: projectID, Title: "X", Description: "d"},
	}}
	return profiles, projects, studentID, projectID
}

func TestComputeCachesAndReuses(t *testing.T) {
	profiles, projects, studentID, projectID := newFixture(t)
	cache := &fakeCache{entries: map[string]cacheEntry{}}
	engine := &countingEngine{result: Result{Score: 77}}
	svc := NewService(profiles, projects, cache, time.Hour, nil)

	first, err := svc.Compute(context.Background(), studentID, projectID, engine)
	require.NoError(t, err)
	assert.Equal(t, 77, first.Score)
	assert.Equal(t, 1, engine.calls)
	require.Equal(t, 1, cache.puts)

	entry := cache.entries[cacheKey(studentID, projectID)]
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), entry.expiresAt, time.Minute)

	second, err := svc.Compute(context.Background(), studentID, projectID, engine)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, engine.calls)
}

func TestComputeWithoutCache(t *testing.T) {
	profiles, projects, studentID, projectID := newFixture(t)
	engine := &countingEngine{result: Result{Score: 42}}
	svc := NewService(profiles, projects, nil, 0, nil)

	got, err := svc.Compute(context.Background(), studentID, projectID, engine)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Score)
}

func TestComputeSurvivesCachePutFailure(t *testing.T) {
	profiles, projects, studentID, projectID := newFixture(t)
	cache := &fakeCache{entries: map[string]cacheEntry{}, putErr: errors.New("db down")}
	engine := &countingEngine{result: Result{Score: 61}}
	svc := NewService(profiles, projects, cache, time.Hour, nil)

	got, err := svc.Compute(context.Background(), studentID, projectID, engine)
	require.NoError(t, err)
	assert.Equal(t, 61, got.Score)
	assert.Equal(t, 1, cache.puts)
}

func TestComputeSurvivesCacheGetFailure(t *testing.T) {
	profiles, projects, studentID, projectID := newFixture(t)
	cache := &fakeCache{entries: map[string]cacheEntry{}, getErr: errors.New("db down")}
	engine := &countingEngine{result: Result{Score: 55}}
	svc := NewService(profiles, projects, cache, time.Hour, nil)

	got, err := svc.Compute(context.Background(), studentID, projectID, engine)
	require.NoError(t, err)
	assert.Equal(t, 55, got.Score)
	assert.Equal(t, 1, engine.calls)
}

func TestComputeMissingProfile(t *testing.T) {
	profiles, projects, _, projectID := newFixture(t)
	svc := NewService(profiles, projects, nil, 0, nil)

	_, err := svc.Compute(context.Background(), uuid.New(), projectID, &countingEngine{})
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestComputeMissingProject(t *testing.T) {
	profiles, projects, studentID, _ := newFixture(t)
	svc := NewService(profiles, projects, nil, 0, nil)

	_, err := svc.Compute(context.Background(), studentID, uuid.New(), &countingEngine{})
	assert.ErrorIs(t, err, project.ErrNotFound)
}
