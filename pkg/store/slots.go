package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// SlotRepo persists domain.Slot.
type SlotRepo struct{ pool *pgxpool.Pool }

func (r *SlotRepo) Create(ctx context.Context, s *domain.Slot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO slots (id, job_id, date, start_time, end_time, capacity, current, status, recurrence, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.JobID, s.Date, s.StartTime, s.EndTime, s.Capacity, s.Current, s.Status, s.Recurrence, s.CreatedAt)
	return err
}

func (r *SlotRepo) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	return scanSlot(r.pool.QueryRow(ctx, selectSlotSQL+` WHERE id = $1`, id))
}

const selectSlotSQL = `SELECT id, job_id, date, start_time, end_time, capacity, current, status, recurrence, created_at FROM slots`

func scanSlot(row pgx.Row) (*domain.Slot, error) {
	var s domain.Slot
	if err := row.Scan(&s.ID, &s.JobID, &s.Date, &s.StartTime, &s.EndTime, &s.Capacity, &s.Current, &s.Status, &s.Recurrence, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// LockForUpdate reads a Slot row with a blocking exclusive row lock, for use
// inside the booking transaction per spec.md §4.2/§5 ("exclusive per-slot
// critical section"). Unlike pkg/queue/worker.go's claim query, this does
// NOT use SKIP LOCKED: a booking request must wait its turn on a contended
// slot rather than move on.
func (r *SlotRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Slot, error) {
	return scanSlot(tx.QueryRow(ctx, selectSlotSQL+` WHERE id = $1 FOR UPDATE`, id))
}

// UpdateCounter writes back the recomputed counter/status inside the same
// transaction that took the lock.
func (r *SlotRepo) UpdateCounter(ctx context.Context, tx pgx.Tx, id string, current int, status domain.SlotStatus) error {
	_, err := tx.Exec(ctx, `UPDATE slots SET current = $2, status = $3 WHERE id = $1`, id, current, status)
	return err
}
