package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhiyanlab/research-match/pkg/project"
)

// ProjectRepository implements project.Repository backed by PostgreSQL (pgx).
type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) (*ProjectRepository, error) {
	repo := &ProjectRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ProjectRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			research_field TEXT NOT NULL DEFAULT '',
			required_skills TEXT NOT NULL DEFAULT '',
			requirements TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_projects_teacher ON projects(teacher_id);
	`)
	return err
}

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO projects (id, teacher_id, title, description, research_field, required_skills, requirements, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.TeacherID, p.Title, p.Description, p.ResearchField, p.RequiredSkills, p.Requirements, p.CreatedAt)
	return err
}

const projectColumns = `id, teacher_id, title, description, research_field, required_skills, requirements, created_at`

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]project.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]project.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE teacher_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, teacherID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	var createdAt time.Time
	if err := row.Scan(&p.ID, &p.TeacherID, &p.Title, &p.Description,
		&p.ResearchField, &p.RequiredSkills, &p.Requirements, &createdAt); err != nil {
		return project.Project{}, err
	}
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

func collectProjects(rows pgx.Rows) ([]project.Project, error) {
	out := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
