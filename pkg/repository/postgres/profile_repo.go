package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhiyanlab/research-match/pkg/profile"
)

// ProfileRepository implements profile.Repository backed by PostgreSQL (pgx).
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) (*ProfileRepository, error) {
	repo := &ProfileRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ProfileRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS student_profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			student_no TEXT NOT NULL DEFAULT '',
			major TEXT NOT NULL DEFAULT '',
			grade TEXT NOT NULL DEFAULT '',
			gpa TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '',
			research_interests TEXT NOT NULL DEFAULT '',
			project_experience TEXT NOT NULL DEFAULT '',
			available_time TEXT NOT NULL DEFAULT '',
			resume_id UUID,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *ProfileRepository) Upsert(ctx context.Context, p profile.StudentProfile) error {
	var resumeID any
	if p.ResumeID != uuid.Nil {
		resumeID = p.ResumeID
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO student_profiles (
			user_id, student_no, major, grade, gpa, skills,
			research_interests, project_experience, available_time, resume_id, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			student_no = EXCLUDED.student_no,
			major = EXCLUDED.major,
			grade = EXCLUDED.grade,
			gpa = EXCLUDED.gpa,
			skills = EXCLUDED.skills,
			research_interests = EXCLUDED.research_interests,
			project_experience = EXCLUDED.project_experience,
			available_time = EXCLUDED.available_time,
			resume_id = EXCLUDED.resume_id,
			updated_at = EXCLUDED.updated_at
	`, p.UserID, p.StudentNo, p.Major, p.Grade, p.GPA, p.Skills,
		p.ResearchInterests, p.ProjectExperience, p.AvailableTime, resumeID, p.UpdatedAt)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.StudentProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, student_no, major, grade, gpa, skills,
		       research_interests, project_experience, available_time, resume_id, updated_at
		FROM student_profiles WHERE user_id = $1
	`, userID)
	var p profile.StudentProfile
	var resumeID *uuid.UUID
	var updatedAt time.Time
	if err := row.Scan(&p.UserID, &p.StudentNo, &p.Major, &p.Grade, &p.GPA, &p.Skills,
		&p.ResearchInterests, &p.ProjectExperience, &p.AvailableTime, &resumeID, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.StudentProfile{}, profile.ErrNotFound
		}
		return profile.StudentProfile{}, err
	}
	if resumeID != nil {
		p.ResumeID = *resumeID
	}
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
