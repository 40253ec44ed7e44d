package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// InterviewRepo persists domain.Interview.
type InterviewRepo struct{ pool *pgxpool.Pool }

const selectInterviewSQL = `SELECT id, candidate_id, job_id, round, started_at, ended_at, link_expires_at, status, schedule_id, created_at FROM interviews`

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var iv domain.Interview
	if err := row.Scan(&iv.ID, &iv.CandidateID, &iv.JobID, &iv.Round, &iv.StartedAt, &iv.EndedAt, &iv.LinkExpiresAt, &iv.Status, &iv.ScheduleID, &iv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &iv, nil
}

func (r *InterviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO interviews (id, candidate_id, job_id, round, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		iv.ID, iv.CandidateID, iv.JobID, iv.Round, iv.Status, iv.CreatedAt)
	return err
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	return scanInterview(r.pool.QueryRow(ctx, selectInterviewSQL+` WHERE id = $1`, id))
}

func (r *InterviewRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Interview, error) {
	return scanInterview(tx.QueryRow(ctx, selectInterviewSQL+` WHERE id = $1`, id))
}

// SetScheduleWindow records the UTC window/expiry/status/schedule pointer
// produced by a successful booking, inside the booking transaction.
func (r *InterviewRepo) SetScheduleWindowTx(ctx context.Context, tx pgx.Tx, iv *domain.Interview) error {
	_, err := tx.Exec(ctx, `
		UPDATE interviews
		SET started_at = $2, ended_at = $3, link_expires_at = $4, status = $5, schedule_id = $6
		WHERE id = $1`,
		iv.ID, iv.StartedAt, iv.EndedAt, iv.LinkExpiresAt, iv.Status, iv.ScheduleID)
	return err
}

// ClearScheduleTx clears the schedule pointer on release, per spec.md §4.2
// ("does not clear started_at — history preserved").
func (r *InterviewRepo) ClearScheduleTx(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, `UPDATE interviews SET schedule_id = NULL WHERE id = $1`, id)
	return err
}

// UpdateWindow corrects a previously-computed started_at/ended_at pair
// outside the booking transaction, for the interviewctl
// fix-existing-interview-times operator command.
func (r *InterviewRepo) UpdateWindow(ctx context.Context, id string, startedAt, endedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE interviews SET started_at = $2, ended_at = $3 WHERE id = $1`, id, startedAt, endedAt)
	return err
}

func (r *InterviewRepo) UpdateStatus(ctx context.Context, id string, status domain.InterviewStatus) error {
	_, err := r.pool.Exec(ctx, `UPDATE interviews SET status = $2 WHERE id = $1`, id, status)
	return err
}

// ListByCandidate supports conflict detection across an interview's sibling
// interviews for the same candidate.
func (r *InterviewRepo) ListByCandidate(ctx context.Context, candidateID string) ([]*domain.Interview, error) {
	rows, err := r.pool.Query(ctx, selectInterviewSQL+` WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// ListWithSchedule returns every interview that has a bound schedule,
// supporting the interviewctl fix-existing-interview-times and
// send-interview-emails operator commands.
func (r *InterviewRepo) ListWithSchedule(ctx context.Context) ([]*domain.Interview, error) {
	rows, err := r.pool.Query(ctx, selectInterviewSQL+` WHERE schedule_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
