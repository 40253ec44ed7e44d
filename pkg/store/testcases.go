package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// TestCaseRepo persists domain.TestCase.
type TestCaseRepo struct{ pool *pgxpool.Pool }

func (r *TestCaseRepo) Create(ctx context.Context, tc *domain.TestCase) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO test_cases (id, question_id, input, expected, is_hidden)
		VALUES ($1,$2,$3,$4,$5)`,
		tc.ID, tc.QuestionID, tc.Input, tc.Expected, tc.IsHidden)
	return err
}

// ListByQuestion returns non-hidden test cases first (by id), then hidden,
// per spec.md §3/§4.6's "test suite aggregation" ordering rule.
func (r *TestCaseRepo) ListByQuestion(ctx context.Context, questionID string) ([]*domain.TestCase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_id, input, expected, is_hidden
		FROM test_cases WHERE question_id = $1
		ORDER BY is_hidden ASC, id ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.TestCase
	for rows.Next() {
		var tc domain.TestCase
		if err := rows.Scan(&tc.ID, &tc.QuestionID, &tc.Input, &tc.Expected, &tc.IsHidden); err != nil {
			return nil, err
		}
		out = append(out, &tc)
	}
	return out, rows.Err()
}
