package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhiyanlab/research-match/pkg/resume"
)

// ResumeRepository implements resume.Repository backed by PostgreSQL (pgx).
// The extracted text lives in the same row as the metadata; resumes are small
// enough that a separate blob store is not worth the indirection.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) (*ResumeRepository, error) {
	repo := &ResumeRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ResumeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			mime_type TEXT NOT NULL DEFAULT '',
			size BIGINT NOT NULL DEFAULT 0,
			text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_resumes_owner ON resumes(owner_id);
	`)
	return err
}

func (r *ResumeRepository) Create(ctx context.Context, res resume.Resume) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO resumes (id, owner_id, filename, mime_type, size, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, res.ID, res.OwnerID, res.Filename, res.MimeType, res.Size, res.Text, res.CreatedAt)
	return err
}

func (r *ResumeRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Resume, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, filename, mime_type, size, text, created_at
		FROM resumes WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	var res resume.Resume
	var createdAt time.Time
	if err := row.Scan(&res.ID, &res.OwnerID, &res.Filename, &res.MimeType, &res.Size, &res.Text, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	res.CreatedAt = createdAt.UTC()
	return res, nil
}

func (r *ResumeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Resume, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, filename, mime_type, size, created_at
		FROM resumes WHERE owner_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []resume.Resume{}
	for rows.Next() {
		var res resume.Resume
		var createdAt time.Time
		if err := rows.Scan(&res.ID, &res.OwnerID, &res.Filename, &res.MimeType, &res.Size, &createdAt); err != nil {
			return nil, err
		}
		res.CreatedAt = createdAt.UTC()
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ResumeRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	return nil
}
