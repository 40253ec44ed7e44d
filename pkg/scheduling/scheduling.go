// Package scheduling implements the Slot Store & Scheduler (C2): slot
// creation, capacity-locked booking, release, and conflict detection.
// Booking takes a blocking row lock the way pkg/queue/worker.go takes a
// SKIP LOCKED one for queue claiming — generalized here to the blocking
// variant since a booking request must wait for a contended slot rather
// than move on to a different one.
package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
)

// Scheduler owns slot/schedule/interview persistence for C2 operations.
type Scheduler struct {
	store    *store.Store
	tz       *time.Location
	lateGrace time.Duration
	log      *slog.Logger
}

// New constructs a Scheduler. tzName is parsed via time.LoadLocation,
// defaulting to Asia/Kolkata per spec.md §6.
func New(st *store.Store, tzName string, lateGrace time.Duration, log *slog.Logger) (*Scheduler, error) {
	if tzName == "" {
		tzName = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load interview timezone %q: %w", tzName, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{store: st, tz: loc, lateGrace: lateGrace, log: log}, nil
}

// CivilToUTC projects a Slot's civil date+time (in the scheduler's
// configured timezone) to a UTC instant. Grounded line-for-line on
// original_source's fix_existing_interview_times.py localize-then-convert
// algorithm.
func (s *Scheduler) CivilToUTC(date, clock string) (time.Time, error) {
	layout := "2006-01-02 15:04"
	t, err := time.ParseInLocation(layout, date+" "+clock, s.tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse civil time %q %q: %w", date, clock, err)
	}
	return t.UTC(), nil
}

// CreateSlot implements spec.md §4.2 create_slot.
func (s *Scheduler) CreateSlot(ctx context.Context, job *domain.Job, date, start, end string, capacity int, recurrence string) (*domain.Slot, error) {
	if job.CodingLanguage == "" {
		return nil, apperr.New(apperr.KindValidation, "JOB_NOT_CONFIGURED", "job has no coding language configured")
	}
	if capacity < 1 {
		return nil, apperr.New(apperr.KindValidation, "INVALID_CAPACITY", "capacity must be >= 1")
	}
	startUTC, err := s.CivilToUTC(date, start)
	if err != nil {
		return nil, apperr.Validation("start", err.Error())
	}
	endUTC, err := s.CivilToUTC(date, end)
	if err != nil {
		return nil, apperr.Validation("end", err.Error())
	}
	if !endUTC.After(startUTC) {
		return nil, apperr.New(apperr.KindValidation, "INVALID_WINDOW", "end must be after start")
	}

	slot := &domain.Slot{
		ID:         uuid.NewString(),
		JobID:      job.ID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Capacity:   capacity,
		Current:    0,
		Status:     domain.SlotAvailable,
		Recurrence: recurrence,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

// Book implements spec.md §4.2 book: atomic, lock-guarded capacity check,
// Schedule insert, and Interview window projection in one transaction.
func (s *Scheduler) Book(ctx context.Context, interviewID, slotID string) (*domain.Schedule, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	iv, err := s.store.Interviews.GetByIDTx(ctx, tx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load interview: %w", err)
	}

	// If already scheduled to a different slot, release the old slot's count first.
	if iv.ScheduleID != nil {
		if err := s.releaseTx(ctx, tx, *iv.ScheduleID); err != nil {
			return nil, fmt.Errorf("release prior schedule: %w", err)
		}
	}

	slot, err := s.store.Slots.LockForUpdate(ctx, tx, slotID)
	if err != nil {
		return nil, fmt.Errorf("lock slot: %w", err)
	}
	if slot.Status == domain.SlotCancelled {
		return nil, apperr.StateConflict("SLOT_CANCELLED", "slot has been cancelled")
	}
	if slot.Current >= slot.Capacity {
		return nil, apperr.StateConflict("SLOT_FULL", "slot has no remaining capacity")
	}

	startUTC, err := s.CivilToUTC(slot.Date, slot.StartTime)
	if err != nil {
		return nil, fmt.Errorf("project start: %w", err)
	}
	endUTC, err := s.CivilToUTC(slot.Date, slot.EndTime)
	if err != nil {
		return nil, fmt.Errorf("project end: %w", err)
	}
	linkExpires := endUTC.Add(s.lateGrace)

	newCurrent := slot.Current + 1
	newStatus := domain.RecomputeSlotStatus(newCurrent, slot.Capacity, false)
	if err := s.store.Slots.UpdateCounter(ctx, tx, slot.ID, newCurrent, newStatus); err != nil {
		return nil, fmt.Errorf("update slot counter: %w", err)
	}

	sched := &domain.Schedule{
		ID:          uuid.NewString(),
		InterviewID: interviewID,
		SlotID:      slotID,
		Status:      domain.ScheduleStatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Schedules.CreateTx(ctx, tx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	iv.StartedAt = &startUTC
	iv.EndedAt = &endUTC
	iv.LinkExpiresAt = &linkExpires
	iv.Status = domain.InterviewScheduled
	iv.ScheduleID = &sched.ID
	if err := s.store.Interviews.SetScheduleWindowTx(ctx, tx, iv); err != nil {
		return nil, fmt.Errorf("update interview window: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	s.log.Info("slot booked", "slot_id", slotID, "interview_id", interviewID, "schedule_id", sched.ID)
	return sched, nil
}

// Release implements spec.md §4.2 release.
func (s *Scheduler) Release(ctx context.Context, scheduleID string) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.releaseTx(ctx, tx, scheduleID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Scheduler) releaseTx(ctx context.Context, tx pgx.Tx, scheduleID string) error {
	sched, err := s.store.Schedules.GetByIDTx(ctx, tx, scheduleID)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	slot, err := s.store.Slots.LockForUpdate(ctx, tx, sched.SlotID)
	if err != nil {
		return fmt.Errorf("lock slot: %w", err)
	}
	newCurrent := slot.Current - 1
	if newCurrent < 0 {
		newCurrent = 0
	}
	newStatus := domain.RecomputeSlotStatus(newCurrent, slot.Capacity, slot.Status == domain.SlotCancelled)
	if err := s.store.Slots.UpdateCounter(ctx, tx, slot.ID, newCurrent, newStatus); err != nil {
		return fmt.Errorf("update slot counter: %w", err)
	}
	if err := s.store.Schedules.CancelTx(ctx, tx, scheduleID); err != nil {
		return fmt.Errorf("cancel schedule: %w", err)
	}
	if err := s.store.Interviews.ClearScheduleTx(ctx, tx, sched.InterviewID); err != nil {
		return fmt.Errorf("clear interview schedule pointer: %w", err)
	}
	return nil
}

// ConflictRecord describes an overlap between two of a candidate's scheduled
// interviews, per spec.md §4.2's conflict model.
type ConflictRecord struct {
	InterviewID      string
	ConflictingWith  string
	OverlapStart     time.Time
	OverlapEnd       time.Time
}

// DetectConflicts implements spec.md §4.2 detect_conflicts: a plain,
// non-locking scan (advisory per §5) for overlapping scheduled windows
// shared by the same candidate.
func (s *Scheduler) DetectConflicts(ctx context.Context, interviewID string) ([]ConflictRecord, error) {
	iv, err := s.store.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load interview: %w", err)
	}
	if iv.StartedAt == nil || iv.EndedAt == nil {
		return nil, nil
	}
	siblings, err := s.store.Interviews.ListByCandidate(ctx, iv.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("list candidate interviews: %w", err)
	}

	var conflicts []ConflictRecord
	for _, other := range siblings {
		if other.ID == iv.ID || other.StartedAt == nil || other.EndedAt == nil {
			continue
		}
		if overlapsHalfOpen(*iv.StartedAt, *iv.EndedAt, *other.StartedAt, *other.EndedAt) {
			start, end := maxTime(*iv.StartedAt, *other.StartedAt), minTime(*iv.EndedAt, *other.EndedAt)
			conflicts = append(conflicts, ConflictRecord{
				InterviewID:     iv.ID,
				ConflictingWith: other.ID,
				OverlapStart:    start,
				OverlapEnd:      end,
			})
		}
	}
	return conflicts, nil
}

func overlapsHalfOpen(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
