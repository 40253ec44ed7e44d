package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// ErrNotFound is returned by Get-style repo methods when no row matches.
var ErrNotFound = errors.New("store: not found")

// JobRepo persists domain.Job.
type JobRepo struct{ pool *pgxpool.Pool }

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO jobs (id, title, company, domain, coding_language, description, tech_stack, recruiter_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		j.ID, j.Title, j.Company, j.Domain, j.CodingLanguage, j.Description, j.TechStack, j.RecruiterID, j.CreatedAt)
	return err
}

const selectJobSQL = `SELECT id, title, company, domain, coding_language, description, tech_stack, recruiter_id, created_at FROM jobs`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Domain, &j.CodingLanguage, &j.Description, &j.TechStack, &j.RecruiterID, &j.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, selectJobSQL+` WHERE id = $1`, id))
}

// ListAll supports operator tooling (interviewctl sync-companies-from-jobs)
// that needs to scan every job rather than a single one by id.
func (r *JobRepo) ListAll(ctx context.Context) ([]*domain.Job, error) {
	rows, err := r.pool.Query(ctx, selectJobSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
