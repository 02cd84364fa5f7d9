package match

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhiyanlab/research-match/pkg/profile"
	"github.com/zhiyanlab/research-match/pkg/project"
)

// CacheRepository stores computed results keyed by (student, project) with an
// expiry. A nil cache is allowed: computation then always runs fresh.
type CacheRepository interface {
	Get(ctx context.Context, studentID, projectID uuid.UUID) (Result, bool, error)
	Put(ctx context.Context, studentID, projectID uuid.UUID, r Result, expiresAt time.Time) error
}

// UseCase resolves profile and project by id and runs the supplied engine.
type UseCase interface {
	Compute(ctx context.Context, studentID, projectID uuid.UUID, engine Engine) (Result, error)
}

type service struct {
	profiles profile.Repository
	projects project.Repository
	cache    CacheRepository
	ttl      time.Duration
	logger   *zap.Logger
}

func NewService(profiles profile.Repository, projects project.Repository, cache CacheRepository, ttl time.Duration, log *zap.Logger) UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		profiles: profiles,
		projects: projects,
		cache:    cache,
		ttl:      ttl,
		logger:   log,
	}
}

func (s *service) Compute(ctx context.Context, studentID, projectID uuid.UUID, engine Engine) (Result, error) {
	p, err := s.profiles.GetByUserID(ctx, studentID)
	if err != nil {
		return Result{}, err
	}
	pr, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return Result{}, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, studentID, projectID)
		switch {
		case err != nil:
			// Cache reads are best-effort too; fall through to a fresh computation.
			s.logger.Warn("failed to read match cache",
				zap.String("student_id", studentID.String()),
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		case ok:
			return cached, nil
		}
	}

	result := engine.Match(ctx, p, pr)

	if s.cache != nil && s.ttl > 0 {
		expiresAt := time.Now().UTC().Add(s.ttl)
		if err := s.cache.Put(ctx, studentID, projectID, result, expiresAt); err != nil {
			// Cache writes are best-effort; the result itself is already in hand.
			s.logger.Warn("failed to cache match result",
				zap.String("student_id", studentID.String()),
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		}
	}

	return result, nil
}
