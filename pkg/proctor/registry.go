package proctor

import (
	"context"
	"log/slog"
	"sync"
)

// Registry owns one Monitor per ACTIVE session, generalizing
// pkg/mcp/client.go's per-server sync.Map + reinitMu pattern to a
// per-session map guarded by a single mutex (session count is bounded by
// concurrent interviews, not by a large server fleet, so a plain map is
// simpler than sync.Map here without sacrificing the safe-concurrent-
// start/stop property the teacher's pattern provides).
type Registry struct {
	mu       sync.Mutex
	monitors map[string]*Monitor

	cfg       Config
	heavy     HeavyFrameDetector
	audio     AudioDetector
	shots     ScreenshotSink
	warnings  warningStore
	publisher warningPublisher
	log       *slog.Logger
}

// NewRegistry constructs a Registry that builds Monitors sharing the same
// detector set and sinks.
func NewRegistry(cfg Config, heavy HeavyFrameDetector, audio AudioDetector, shots ScreenshotSink, warnings warningStore, publisher warningPublisher, log *slog.Logger) *Registry {
	return &Registry{
		monitors:  make(map[string]*Monitor),
		cfg:       cfg,
		heavy:     heavy,
		audio:     audio,
		shots:     shots,
		warnings:  warnings,
		publisher: publisher,
		log:       log,
	}
}

// StartMonitor creates (if absent) and starts a Monitor for sessionID.
// Calling it again for an already-running session is a no-op that returns
// the existing Monitor, matching the teacher's InitializeServer idempotence.
func (r *Registry) StartMonitor(ctx context.Context, sessionID string) *Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.monitors[sessionID]; ok {
		return m
	}
	m := NewMonitor(sessionID, r.cfg, r.heavy, r.audio, r.shots, r.warnings, r.publisher, r.log)
	m.Start(ctx)
	r.monitors[sessionID] = m
	return m
}

// Get returns the running Monitor for sessionID, or nil if none.
func (r *Registry) Get(sessionID string) *Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.monitors[sessionID]
}

// StopMonitor stops and removes sessionID's Monitor, releasing its camera
// and audio handles per spec.md §5. A no-op if no Monitor is running.
func (r *Registry) StopMonitor(sessionID string) {
	r.mu.Lock()
	m, ok := r.monitors[sessionID]
	if ok {
		delete(r.monitors, sessionID)
	}
	r.mu.Unlock()
	if ok {
		m.Stop()
	}
}
