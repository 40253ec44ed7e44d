package aigateway

import "sync/atomic"

// quotaFlag is the process-wide "process-wide degradation state" described
// in DESIGN NOTES §9 ("Global quota flag") — preserved explicitly rather
// than hidden behind a module-level cache, with a documented reset
// procedure (Reset, called by operator action or at process restart).
type quotaFlag struct {
	exhausted atomic.Bool
}

func (q *quotaFlag) Set()           { q.exhausted.Store(true) }
func (q *quotaFlag) Reset()         { q.exhausted.Store(false) }
func (q *quotaFlag) Exhausted() bool { return q.exhausted.Load() }
