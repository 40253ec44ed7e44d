package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// CodeSubmissionRepo persists domain.CodeSubmission. Immutable once recorded.
type CodeSubmissionRepo struct{ pool *pgxpool.Pool }

const selectCodeSubmissionSQL = `SELECT id, session_id, question_id, language, source, passed_all_tests, output_log, submitted_at FROM code_submissions`

func (r *CodeSubmissionRepo) Create(ctx context.Context, c *domain.CodeSubmission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO code_submissions (id, session_id, question_id, language, source, passed_all_tests, output_log, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.SessionID, c.QuestionID, c.Language, c.Source, c.PassedAllTests, c.OutputLog, c.SubmittedAt)
	return err
}

func (r *CodeSubmissionRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.CodeSubmission, error) {
	rows, err := r.pool.Query(ctx, selectCodeSubmissionSQL+` WHERE session_id = $1 ORDER BY submitted_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.CodeSubmission
	for rows.Next() {
		var c domain.CodeSubmission
		if err := rows.Scan(&c.ID, &c.SessionID, &c.QuestionID, &c.Language, &c.Source, &c.PassedAllTests, &c.OutputLog, &c.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
