package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// ScheduleRepo persists domain.Schedule.
type ScheduleRepo struct{ pool *pgxpool.Pool }

const selectScheduleSQL = `SELECT id, interview_id, slot_id, status, note, created_at FROM schedules`

func scanSchedule(row pgx.Row) (*domain.Schedule, error) {
	var s domain.Schedule
	if err := row.Scan(&s.ID, &s.InterviewID, &s.SlotID, &s.Status, &s.Note, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateTx inserts the Schedule row in the same transaction that locked and
// updated the Slot, so booking and counter move together per spec.md §4.2.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx pgx.Tx, s *domain.Schedule) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO schedules (id, interview_id, slot_id, status, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.InterviewID, s.SlotID, s.Status, s.Note, s.CreatedAt)
	return err
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, selectScheduleSQL+` WHERE id = $1`, id))
}

func (r *ScheduleRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Schedule, error) {
	return scanSchedule(tx.QueryRow(ctx, selectScheduleSQL+` WHERE id = $1`, id))
}

func (r *ScheduleRepo) CancelTx(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, `UPDATE schedules SET status = 'CANCELLED' WHERE id = $1`, id)
	return err
}

// ListActiveForSlot returns non-cancelled schedules referencing a slot, used
// by conflict detection and by the "forbid delete while referenced" rule.
func (r *ScheduleRepo) ListActiveForSlot(ctx context.Context, slotID string) ([]*domain.Schedule, error) {
	rows, err := r.pool.Query(ctx, selectScheduleSQL+` WHERE slot_id = $1 AND status != 'CANCELLED'`, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
