package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// SessionRepo persists domain.Session.
type SessionRepo struct{ pool *pgxpool.Pool }

const selectSessionSQL = `
	SELECT id, session_key, interview_id, candidate_name, candidate_email, job_description,
	       resume_text, coding_language, status, current_question, total_questions,
	       started_at, ended_at, last_interaction_at, id_verification, id_extracted_name,
	       id_extracted_number, error_message, is_evaluated, deleted_at, created_at
	FROM sessions`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	if err := row.Scan(
		&s.ID, &s.SessionKey, &s.InterviewID, &s.CandidateName, &s.CandidateEmail, &s.JobDescription,
		&s.ResumeText, &s.CodingLanguage, &s.Status, &s.CurrentQuestion, &s.TotalQuestions,
		&s.StartedAt, &s.EndedAt, &s.LastInteractionAt, &s.IDVerification, &s.IDExtractedName,
		&s.IDExtractedNumber, &s.ErrorMessage, &s.IsEvaluated, &s.DeletedAt, &s.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, session_key, interview_id, candidate_name, candidate_email,
		                       job_description, resume_text, coding_language, status, total_questions,
		                       id_verification, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		s.ID, s.SessionKey, s.InterviewID, s.CandidateName, s.CandidateEmail,
		s.JobDescription, s.ResumeText, s.CodingLanguage, s.Status, s.TotalQuestions,
		s.IDVerification, s.CreatedAt)
	return err
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	return scanSession(r.pool.QueryRow(ctx, selectSessionSQL+` WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *SessionRepo) GetByInterviewID(ctx context.Context, interviewID string) (*domain.Session, error) {
	return scanSession(r.pool.QueryRow(ctx, selectSessionSQL+` WHERE interview_id = $1 AND deleted_at IS NULL`, interviewID))
}

func (r *SessionRepo) GetBySessionKey(ctx context.Context, key string) (*domain.Session, error) {
	return scanSession(r.pool.QueryRow(ctx, selectSessionSQL+` WHERE session_key = $1 AND deleted_at IS NULL`, key))
}

// Update persists the full mutable projection of a Session. Orchestrator
// callers hold the per-session lock (pkg/interview) for the duration of
// read-modify-write, so no additional locking happens here.
func (r *SessionRepo) Update(ctx context.Context, s *domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions SET
			status = $2, current_question = $3, total_questions = $4,
			started_at = $5, ended_at = $6, last_interaction_at = $7,
			id_verification = $8, id_extracted_name = $9, id_extracted_number = $10,
			error_message = $11, is_evaluated = $12
		WHERE id = $1`,
		s.ID, s.Status, s.CurrentQuestion, s.TotalQuestions,
		s.StartedAt, s.EndedAt, s.LastInteractionAt,
		s.IDVerification, s.IDExtractedName, s.IDExtractedNumber,
		s.ErrorMessage, s.IsEvaluated)
	return err
}

// ListExpiredCandidates returns ACTIVE sessions past their idle timeout or
// link expiry, for the sweeper (pkg/interview/sweeper.go).
func (r *SessionRepo) ListExpiredCandidates(ctx context.Context, idleCutoff, now time.Time) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, selectSessionSQL+`
		WHERE deleted_at IS NULL AND status = 'ACTIVE'
		  AND (last_interaction_at < $1 OR interview_id IN (
		        SELECT id FROM interviews WHERE link_expires_at < $2
		      ))`, idleCutoff, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
