package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// QuestionRepo persists domain.Question.
type QuestionRepo struct{ pool *pgxpool.Pool }

const selectQuestionSQL = `SELECT id, session_id, "order", type, level, parent_id, text, coding_language, audio_url, tts_degraded, created_at FROM questions`

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	if err := row.Scan(&q.ID, &q.SessionID, &q.Order, &q.Type, &q.Level, &q.ParentID, &q.Text, &q.CodingLanguage, &q.AudioURL, &q.TTSDegraded, &q.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepo) Create(ctx context.Context, q *domain.Question) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO questions (id, session_id, "order", type, level, parent_id, text, coding_language, audio_url, tts_degraded, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		q.ID, q.SessionID, q.Order, q.Type, q.Level, q.ParentID, q.Text, q.CodingLanguage, q.AudioURL, q.TTSDegraded, q.CreatedAt)
	return err
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx, selectQuestionSQL+` WHERE id = $1`, id))
}

// ListBySession returns all Questions for a session, MAIN questions ordered
// by "order" then FOLLOW_UPs by creation time, matching spec.md §3.
func (r *QuestionRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Question, error) {
	rows, err := r.pool.Query(ctx, selectQuestionSQL+`
		WHERE session_id = $1
		ORDER BY "order" ASC, (level = 'FOLLOW_UP') ASC, created_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *QuestionRepo) SetTTSDegraded(ctx context.Context, id string, degraded bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE questions SET tts_degraded = $2 WHERE id = $1`, id, degraded)
	return err
}

func (r *QuestionRepo) SetAudioURL(ctx context.Context, id, url string) error {
	_, err := r.pool.Exec(ctx, `UPDATE questions SET audio_url = $2 WHERE id = $1`, id, url)
	return err
}
