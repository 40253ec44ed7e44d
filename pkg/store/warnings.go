package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// WarningRepo persists domain.WarningLog. Append-only per spec.md §3.
type WarningRepo struct{ pool *pgxpool.Pool }

func (r *WarningRepo) Append(ctx context.Context, w *domain.WarningLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO warning_logs (id, session_id, type, occurred_at, screenshot_url)
		VALUES ($1,$2,$3,$4,$5)`,
		w.ID, w.SessionID, w.Type, w.OccurredAt, w.ScreenshotURL)
	return err
}

func (r *WarningRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.WarningLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, type, occurred_at, screenshot_url
		FROM warning_logs WHERE session_id = $1 ORDER BY occurred_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.WarningLog
	for rows.Next() {
		var w domain.WarningLog
		if err := rows.Scan(&w.ID, &w.SessionID, &w.Type, &w.OccurredAt, &w.ScreenshotURL); err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}
