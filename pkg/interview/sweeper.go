package interview

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// Sweeper periodically expires ACTIVE sessions that have gone idle past
// session_idle_timeout or whose link has expired, per spec.md §4.3
// heartbeat/expiry rule. Grounded on pkg/queue/orphan.go's
// ticker-driven scan-and-recover shape, generalized from "mark
// in_progress sessions timed_out" to "mark ACTIVE interview sessions
// EXPIRED".
type Sweeper struct {
	orch     *Orchestrator
	interval time.Duration
	log      *slog.Logger
}

// NewSweeper constructs a Sweeper. interval defaults to 1 minute.
func NewSweeper(orch *Orchestrator, interval time.Duration, log *slog.Logger) *Sweeper {
	if interval == 0 {
		interval = time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{orch: orch, interval: interval, log: log}
}

// Start registers the sweep as a robfig/cron job running every interval
// and starts the cron scheduler. Returns a stop function.
func (s *Sweeper) Start(ctx context.Context) (stop func(), err error) {
	c := cron.New()
	spec := "@every " + s.interval.String()
	if _, err := c.AddFunc(spec, func() { s.sweep(ctx) }); err != nil {
		return nil, err
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()
	idleCutoff := now.Add(-s.orch.idleTimeout)

	expired, err := s.orch.store.Sessions.ListExpiredCandidates(ctx, idleCutoff, now)
	if err != nil {
		s.log.Error("sweeper: failed to list expired candidates", "error", err)
		return
	}
	for _, sess := range expired {
		unlock := s.orch.locks.acquire(sess.InterviewID)
		sess.Status = domain.SessionExpired
		sess.EndedAt = &now
		if err := s.orch.store.Sessions.Update(ctx, sess); err != nil {
			s.log.Error("sweeper: failed to expire session", "session_id", sess.ID, "error", err)
		} else {
			s.log.Info("sweeper: session expired", "session_id", sess.ID)
			if s.orch.proctor != nil {
				s.orch.proctor.StopMonitor(sess.ID)
			}
		}
		unlock()
	}
}
