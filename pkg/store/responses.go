package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// ResponseRepo persists domain.Response.
type ResponseRepo struct{ pool *pgxpool.Pool }

const selectResponseSQL = `SELECT id, question_id, session_id, kind, text, submitted_at, duration_seconds, filler_word_count, words_per_minute, sentiment_score, created_at FROM responses`

func scanResponse(row pgx.Row) (*domain.Response, error) {
	var resp domain.Response
	if err := row.Scan(&resp.ID, &resp.QuestionID, &resp.SessionID, &resp.Kind, &resp.Text, &resp.SubmittedAt, &resp.DurationSeconds, &resp.FillerWordCount, &resp.WordsPerMinute, &resp.SentimentScore, &resp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepo) Create(ctx context.Context, resp *domain.Response) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO responses (id, question_id, session_id, kind, text, submitted_at, duration_seconds, filler_word_count, words_per_minute, sentiment_score, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		resp.ID, resp.QuestionID, resp.SessionID, resp.Kind, resp.Text, resp.SubmittedAt, resp.DurationSeconds, resp.FillerWordCount, resp.WordsPerMinute, resp.SentimentScore, resp.CreatedAt)
	return err
}

// GetByQuestion returns the existing Response(s) for a question, used to
// enforce "at most one Response per MAIN question" (spec.md §4.3).
func (r *ResponseRepo) GetByQuestion(ctx context.Context, questionID string) ([]*domain.Response, error) {
	rows, err := r.pool.Query(ctx, selectResponseSQL+` WHERE question_id = $1 ORDER BY submitted_at ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

// UpdateMetrics persists the mechanical metrics the Evaluation Engine (C7)
// derives from a response's transcript (filler-word count, WPM, sentiment).
func (r *ResponseRepo) UpdateMetrics(ctx context.Context, responseID string, fillerWordCount int, wordsPerMinute, sentimentScore float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE responses SET filler_word_count = $2, words_per_minute = $3, sentiment_score = $4
		WHERE id = $1`,
		responseID, fillerWordCount, wordsPerMinute, sentimentScore)
	return err
}

func (r *ResponseRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Response, error) {
	rows, err := r.pool.Query(ctx, selectResponseSQL+` WHERE session_id = $1 ORDER BY submitted_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}
