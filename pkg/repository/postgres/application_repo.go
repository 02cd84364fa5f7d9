package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhiyanlab/research-match/pkg/application"
)

// ApplicationRepository implements application.Repository backed by
// PostgreSQL (pgx).
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	repo := &ApplicationRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ApplicationRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			statement TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			match_score INT,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (project_id, student_id)
		);
		CREATE INDEX IF NOT EXISTS idx_applications_project ON applications(project_id);
		CREATE INDEX IF NOT EXISTS idx_applications_student ON applications(student_id);
	`)
	return err
}

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO applications (id, project_id, student_id, statement, status, match_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.ProjectID, a.StudentID, a.Statement, a.Status, a.MatchScore, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return application.ErrAlreadyExists
		}
		return err
	}
	return nil
}

const applicationColumns = `id, project_id, student_id, statement, status, match_score, created_at`

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *ApplicationRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]application.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE project_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]application.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE student_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) ListApplicantsByProject(ctx context.Context, projectID uuid.UUID) ([]application.ApplicantSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.student_id, u.name, a.match_score,
		       COALESCE(p.gpa, ''), COALESCE(p.major, ''), COALESCE(p.skills, ''),
		       COALESCE(p.research_interests, ''), COALESCE(p.project_experience, '')
		FROM applications a
		JOIN users u ON u.id = a.student_id
		LEFT JOIN student_profiles p ON p.user_id = a.student_id
		WHERE a.project_id = $1
		ORDER BY a.created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []application.ApplicantSummary{}
	for rows.Next() {
		var s application.ApplicantSummary
		if err := rows.Scan(&s.ApplicationID, &s.StudentID, &s.Name, &s.MatchScore,
			&s.GPA, &s.Major, &s.Skills, &s.ResearchInterests, &s.ProjectExperience); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (application.Application, error) {
	var a application.Application
	var createdAt time.Time
	if err := row.Scan(&a.ID, &a.ProjectID, &a.StudentID, &a.Statement, &a.Status, &a.MatchScore, &createdAt); err != nil {
		return application.Application{}, err
	}
	a.CreatedAt = createdAt.UTC()
	return a, nil
}

func collectApplications(rows pgx.Rows) ([]application.Application, error) {
	out := []application.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
