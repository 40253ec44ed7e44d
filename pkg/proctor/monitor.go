package proctor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/events"
)

// warningStore is the subset of pkg/store the Monitor needs, defined at the
// point of use per the CodeRunner/Evaluator pattern in pkg/interview.
type warningStore interface {
	Append(ctx context.Context, w *domain.WarningLog) error
}

// warningPublisher is the subset of *events.EventPublisher the Monitor
// broadcasts warning activations through.
type warningPublisher interface {
	PublishProctorWarning(ctx context.Context, sessionID string, payload events.ProctorWarningPayload) error
}

// Config tunes the Monitor's decision pipeline, mirroring config.ProctorConfig.
type Config struct {
	HeavyEveryNFrames      int
	NoPersonGrace          time.Duration
	ExcessiveNoiseGrace    time.Duration
	MultipleSpeakersGrace  time.Duration
	LowConcentrationFrames int
	// SuppressedTypes never trigger an evidence screenshot, per spec.md
	// §4.4's "non-suppressed warning types also trigger a screenshot" rule.
	SuppressedTypes map[domain.WarningType]bool
}

func (c Config) withDefaults() Config {
	if c.HeavyEveryNFrames == 0 {
		c.HeavyEveryNFrames = 15
	}
	if c.NoPersonGrace == 0 {
		c.NoPersonGrace = 30 * time.Second
	}
	if c.ExcessiveNoiseGrace == 0 {
		c.ExcessiveNoiseGrace = 3 * time.Second
	}
	if c.MultipleSpeakersGrace == 0 {
		c.MultipleSpeakersGrace = 3 * time.Second
	}
	if c.LowConcentrationFrames == 0 {
		c.LowConcentrationFrames = 8
	}
	return c
}

// Monitor runs the camera-frame loop, the audio loop, and the warning
// activation state machine for one ACTIVE session, per spec.md §4.4/§5.
// Between Monitor and the Orchestrator the only shared mutable state is the
// append-only WarningLog and the Session's id_verification_status — Monitor
// never touches Session directly, and never blocks on the AI Gateway.
type Monitor struct {
	sessionID string
	cfg       Config
	heavy     HeavyFrameDetector
	audio     AudioDetector
	shots     ScreenshotSink // nil disables evidence capture
	warnings  warningStore
	publisher warningPublisher
	log       *slog.Logger

	frameCh chan []byte
	audioCh chan []byte
	stopCh  chan struct{}
	wg      sync.WaitGroup

	mu              sync.Mutex
	frameCount      int
	sustainedSince  map[domain.WarningType]time.Time
	consecutive     map[domain.WarningType]int
	active          map[domain.WarningType]bool
	degradedWarned  bool
}

// NewMonitor constructs a Monitor for sessionID. shots may be nil.
func NewMonitor(sessionID string, cfg Config, heavy HeavyFrameDetector, audio AudioDetector, shots ScreenshotSink, warnings warningStore, publisher warningPublisher, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		sessionID:      sessionID,
		cfg:            cfg.withDefaults(),
		heavy:          heavy,
		audio:          audio,
		shots:          shots,
		warnings:       warnings,
		publisher:      publisher,
		log:            log,
		frameCh:        make(chan []byte, 32),
		audioCh:        make(chan []byte, 32),
		stopCh:         make(chan struct{}),
		sustainedSince: make(map[domain.WarningType]time.Time),
		consecutive:    make(map[domain.WarningType]int),
		active:         make(map[domain.WarningType]bool),
	}
}

// Start launches the frame and audio consumption loops.
func (m *Monitor) Start(ctx context.Context) {
	m.wg.Add(2)
	go m.frameLoop(ctx)
	go m.audioLoop(ctx)
}

// Stop signals both loops to exit and waits up to 2 seconds for them to
// release their handles, per spec.md §5's "Monitor must observe [cancellation]
// within 2 seconds" contract.
func (m *Monitor) Stop() {
	close(m.stopCh)
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		m.log.Warn("proctor monitor did not stop within 2s", "session_id", m.sessionID)
	}
}

// IngestFrame enqueues a camera frame for analysis. Non-blocking: a full
// buffer drops the frame rather than stall the camera producer.
func (m *Monitor) IngestFrame(frame []byte) (accepted bool) {
	select {
	case m.frameCh <- frame:
		return true
	default:
		return false
	}
}

// IngestAudioChunk enqueues a one-second audio chunk for analysis.
func (m *Monitor) IngestAudioChunk(chunk []byte) (accepted bool) {
	select {
	case m.audioCh <- chunk:
		return true
	default:
		return false
	}
}

// ReportTabSwitch records a candidate-client-reported page-visibility event.
// Each report is a discrete occurrence, not a sustained condition, so it
// always activates (subject to WarningLog being append-only — every switch
// is logged, there is no "already active" suppression for this type).
func (m *Monitor) ReportTabSwitch(ctx context.Context) {
	m.activate(ctx, domain.WarningTabSwitched, nil)
}

func (m *Monitor) frameLoop(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case frame := <-m.frameCh:
			m.mu.Lock()
			m.frameCount++
			due := m.frameCount%m.cfg.HeavyEveryNFrames == 0
			m.mu.Unlock()
			if !due {
				continue
			}
			analysis, err := m.heavy.Analyze(ctx, frame)
			if err != nil {
				m.log.Error("proctor: frame analysis failed", "session_id", m.sessionID, "error", err)
				m.warnDegraded(ctx)
				continue
			}
			m.evaluateFrame(ctx, analysis, frame)
		}
	}
}

func (m *Monitor) audioLoop(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case chunk := <-m.audioCh:
			analysis, err := m.audio.Analyze(ctx, chunk)
			if err != nil {
				m.log.Error("proctor: audio analysis failed", "session_id", m.sessionID, "error", err)
				m.warnDegraded(ctx)
				continue
			}
			m.evaluateAudio(ctx, analysis)
		}
	}
}

func (m *Monitor) evaluateFrame(ctx context.Context, a FrameAnalysis, frame []byte) {
	m.trackSustained(ctx, domain.WarningNoPerson, a.FaceCount == 0, m.cfg.NoPersonGrace, frame)
	multiplePeople := a.FaceCount >= 2 && a.LargestFaceAreaRatio > 0 && a.SecondFaceAreaRatio >= 0.35*a.LargestFaceAreaRatio
	m.trackSustained(ctx, domain.WarningMultiplePeople, multiplePeople, 0, frame)
	m.trackSustained(ctx, domain.WarningPhoneDetected, a.PhoneDetected, 0, frame)
	lowConcentration := a.LandmarksMissing || (a.EyeAspectRatio > 0 && a.EyeAspectRatio < 0.25)
	m.trackConsecutive(ctx, domain.WarningLowConcentration, lowConcentration, m.cfg.LowConcentrationFrames, frame)
}

func (m *Monitor) evaluateAudio(ctx context.Context, a AudioAnalysis) {
	m.trackSustained(ctx, domain.WarningExcessiveNoise, a.EnergyAboveThreshold, m.cfg.ExcessiveNoiseGrace, nil)
	m.trackSustained(ctx, domain.WarningMultipleSpeakers, a.SpeakerCount > 1, m.cfg.MultipleSpeakersGrace, nil)
}

// trackSustained activates wtype once observed continuously for at least
// grace, and de-activates (allowing a future re-activation) as soon as
// observed goes false.
func (m *Monitor) trackSustained(ctx context.Context, wtype domain.WarningType, observed bool, grace time.Duration, frame []byte) {
	now := time.Now().UTC()
	m.mu.Lock()
	if !observed {
		delete(m.sustainedSince, wtype)
		m.active[wtype] = false
		m.mu.Unlock()
		return
	}
	since, tracking := m.sustainedSince[wtype]
	if !tracking {
		m.sustainedSince[wtype] = now
		m.mu.Unlock()
		return
	}
	if m.active[wtype] || now.Sub(since) < grace {
		m.mu.Unlock()
		return
	}
	m.active[wtype] = true
	m.mu.Unlock()
	m.activate(ctx, wtype, frame)
}

// trackConsecutive activates wtype once observed true for threshold
// consecutive frames (used only for LOW_CONCENTRATION, which spec.md
// defines by frame count rather than wall-clock duration).
func (m *Monitor) trackConsecutive(ctx context.Context, wtype domain.WarningType, observed bool, threshold int, frame []byte) {
	m.mu.Lock()
	if !observed {
		m.consecutive[wtype] = 0
		m.active[wtype] = false
		m.mu.Unlock()
		return
	}
	m.consecutive[wtype]++
	if m.active[wtype] || m.consecutive[wtype] < threshold {
		m.mu.Unlock()
		return
	}
	m.active[wtype] = true
	m.mu.Unlock()
	m.activate(ctx, wtype, frame)
}

func (m *Monitor) activate(ctx context.Context, wtype domain.WarningType, frame []byte) {
	now := time.Now().UTC()
	w := &domain.WarningLog{ID: uuid.NewString(), SessionID: m.sessionID, Type: wtype, OccurredAt: now}

	if frame != nil && m.shots != nil && !m.cfg.SuppressedTypes[wtype] {
		url, err := m.shots.Capture(ctx, m.sessionID, string(wtype), frame)
		if err != nil {
			m.log.Warn("proctor: screenshot capture failed", "session_id", m.sessionID, "warning_type", wtype, "error", err)
		} else {
			w.ScreenshotURL = url
		}
	}

	if err := m.warnings.Append(ctx, w); err != nil {
		m.log.Error("proctor: failed to persist warning", "session_id", m.sessionID, "warning_type", wtype, "error", err)
		return
	}
	if err := m.publisher.PublishProctorWarning(ctx, m.sessionID, events.ProctorWarningPayload{
		Type: events.EventTypeProctorWarning, SessionID: m.sessionID, WarningType: string(wtype),
		ScreenshotURL: w.ScreenshotURL, Timestamp: now.Format(time.RFC3339Nano),
	}); err != nil {
		m.log.Warn("proctor: failed to broadcast warning", "session_id", m.sessionID, "warning_type", wtype, "error", err)
	}
}

// warnDegraded logs PROCTOR_DEGRADED once per Monitor lifetime, per spec.md
// §4.4: "a detector failure degrades that detector only; the Monitor logs
// and continues" — not once per failing tick.
func (m *Monitor) warnDegraded(ctx context.Context) {
	m.mu.Lock()
	if m.degradedWarned {
		m.mu.Unlock()
		return
	}
	m.degradedWarned = true
	m.mu.Unlock()
	m.activate(ctx, domain.WarningProctorDegraded, nil)
}
