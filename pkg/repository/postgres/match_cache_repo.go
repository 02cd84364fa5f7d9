package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhiyanlab/research-match/pkg/match"
)

// MatchCacheRepository implements match.CacheRepository backed by PostgreSQL
// (pgx). The whole result is stored as JSONB; expired rows are filtered on
// read and lazily overwritten on the next Put.
type MatchCacheRepository struct {
	pool *pgxpool.Pool
}

func NewMatchCacheRepository(pool *pgxpool.Pool) (*MatchCacheRepository, error) {
	repo := &MatchCacheRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MatchCacheRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_cache (
			student_id UUID NOT NULL,
			project_id UUID NOT NULL,
			result JSONB NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (student_id, project_id)
		);
	`)
	return err
}

func (r *MatchCacheRepository) Get(ctx context.Context, studentID, projectID uuid.UUID) (match.Result, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT result FROM match_cache
		WHERE student_id = $1 AND project_id = $2 AND expires_at > now()
	`, studentID, projectID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.Result{}, false, nil
		}
		return match.Result{}, false, err
	}
	var result match.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return match.Result{}, false, err
	}
	return result, true, nil
}

func (r *MatchCacheRepository) Put(ctx context.Context, studentID, projectID uuid.UUID, result match.Result, expiresAt time.Time) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO match_cache (student_id, project_id, result, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, project_id) DO UPDATE SET
			result = EXCLUDED.result,
			expires_at = EXCLUDED.expires_at
	`, studentID, projectID, raw, expiresAt)
	return err
}
