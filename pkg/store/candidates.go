package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// CandidateRepo persists domain.Candidate.
type CandidateRepo struct{ pool *pgxpool.Pool }

func (r *CandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO candidates (id, display_name, email, resume_text, recruiter_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.DisplayName, c.Email, c.ResumeText, c.RecruiterID, c.CreatedAt)
	return err
}

func (r *CandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, email, resume_text, recruiter_id, created_at
		FROM candidates WHERE id = $1`, id)
	var c domain.Candidate
	if err := row.Scan(&c.ID, &c.DisplayName, &c.Email, &c.ResumeText, &c.RecruiterID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
