package proctor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/events"
	"github.com/codeready-toolchain/interviewplatform/pkg/proctor"
)

type fakeWarningStore struct {
	mu   sync.Mutex
	logs []*domain.WarningLog
}

func (f *fakeWarningStore) Append(ctx context.Context, w *domain.WarningLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, w)
	return nil
}

func (f *fakeWarningStore) snapshot() []*domain.WarningLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.WarningLog, len(f.logs))
	copy(out, f.logs)
	return out
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []events.ProctorWarningPayload
}

func (f *fakePublisher) PublishProctorWarning(ctx context.Context, sessionID string, payload events.ProctorWarningPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeHeavyDetector struct {
	mu       sync.Mutex
	analysis proctor.FrameAnalysis
	err      error
}

func (f *fakeHeavyDetector) Analyze(ctx context.Context, frame []byte) (proctor.FrameAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analysis, f.err
}

func (f *fakeHeavyDetector) set(a proctor.FrameAnalysis) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis = a
}

type fakeAudioDetector struct {
	mu       sync.Mutex
	analysis proctor.AudioAnalysis
	err      error
}

func (f *fakeAudioDetector) Analyze(ctx context.Context, chunk []byte) (proctor.AudioAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analysis, f.err
}

func (f *fakeAudioDetector) set(a proctor.AudioAnalysis) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis = a
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, cond(), "condition not met within %s", timeout)
}

func TestMonitor_NoPersonActivatesAfterGrace(t *testing.T) {
	heavy := &fakeHeavyDetector{analysis: proctor.FrameAnalysis{FaceCount: 0}}
	audio := &fakeAudioDetector{}
	warnings := &fakeWarningStore{}
	pub := &fakePublisher{}

	m := proctor.NewMonitor("sess-1", proctor.Config{HeavyEveryNFrames: 1, NoPersonGrace: 20 * time.Millisecond}, heavy, audio, nil, warnings, pub, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	for i := 0; i < 5; i++ {
		m.IngestFrame([]byte("frame"))
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return len(warnings.snapshot()) >= 1 })
	logs := warnings.snapshot()
	assert.Equal(t, domain.WarningNoPerson, logs[0].Type)
}

func TestMonitor_NoPersonResetsWhenFaceReturns(t *testing.T) {
	heavy := &fakeHeavyDetector{analysis: proctor.FrameAnalysis{FaceCount: 0}}
	audio := &fakeAudioDetector{}
	warnings := &fakeWarningStore{}
	pub := &fakePublisher{}

	m := proctor.NewMonitor("sess-2", proctor.Config{HeavyEveryNFrames: 1, NoPersonGrace: 200 * time.Millisecond}, heavy, audio, nil, warnings, pub, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	m.IngestFrame([]byte("f1"))
	time.Sleep(20 * time.Millisecond)
	heavy.set(proctor.FrameAnalysis{FaceCount: 1})
	m.IngestFrame([]byte("f2"))
	time.Sleep(250 * time.Millisecond)

	assert.Empty(t, warnings.snapshot(), "no warning should fire once the face returns before the grace period elapses")
}

func TestMonitor_LowConcentrationActivatesAfterConsecutiveFrames(t *testing.T) {
	heavy := &fakeHeavyDetector{analysis: proctor.FrameAnalysis{FaceCount: 1, EyeAspectRatio: 0.1}}
	audio := &fakeAudioDetector{}
	warnings := &fakeWarningStore{}
	pub := &fakePublisher{}

	m := proctor.NewMonitor("sess-3", proctor.Config{HeavyEveryNFrames: 1, LowConcentrationFrames: 3}, heavy, audio, nil, warnings, pub, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	for i := 0; i < 3; i++ {
		m.IngestFrame([]byte("frame"))
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return len(warnings.snapshot()) >= 1 })
	assert.Equal(t, domain.WarningLowConcentration, warnings.snapshot()[0].Type)
}

func TestMonitor_TabSwitchAlwaysLogs(t *testing.T) {
	heavy := &fakeHeavyDetector{}
	audio := &fakeAudioDetector{}
	warnings := &fakeWarningStore{}
	pub := &fakePublisher{}

	m := proctor.NewMonitor("sess-4", proctor.Config{}, heavy, audio, nil, warnings, pub, nil)
	ctx := context.Background()

	m.ReportTabSwitch(ctx)
	m.ReportTabSwitch(ctx)

	logs := warnings.snapshot()
	require.Len(t, logs, 2)
	assert.Equal(t, domain.WarningTabSwitched, logs[0].Type)
	assert.Equal(t, domain.WarningTabSwitched, logs[1].Type)
}

func TestMonitor_DetectorFailureLogsDegradedOnceAndContinues(t *testing.T) {
	heavy := &fakeHeavyDetector{err: assertAnError{}}
	audio := &fakeAudioDetector{}
	warnings := &fakeWarningStore{}
	pub := &fakePublisher{}

	m := proctor.NewMonitor("sess-5", proctor.Config{HeavyEveryNFrames: 1}, heavy, audio, nil, warnings, pub, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	for i := 0; i < 5; i++ {
		m.IngestFrame([]byte("frame"))
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return len(warnings.snapshot()) >= 1 })
	logs := warnings.snapshot()
	degradedCount := 0
	for _, l := range logs {
		if l.Type == domain.WarningProctorDegraded {
			degradedCount++
		}
	}
	assert.Equal(t, 1, degradedCount, "PROCTOR_DEGRADED must log once per lifetime, not once per failing frame")
}

type assertAnError struct{}

func (assertAnError) Error() string { return "assert.AnError general error for testing" }
