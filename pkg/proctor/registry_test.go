package proctor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/interviewplatform/pkg/proctor"
)

func TestRegistry_StartMonitorIsIdempotent(t *testing.T) {
	r := proctor.NewRegistry(proctor.Config{}, &fakeHeavyDetector{}, &fakeAudioDetector{}, nil, &fakeWarningStore{}, &fakePublisher{}, nil)
	ctx := context.Background()

	m1 := r.StartMonitor(ctx, "sess-a")
	m2 := r.StartMonitor(ctx, "sess-a")
	assert.Same(t, m1, m2)

	defer r.StopMonitor("sess-a")
}

func TestRegistry_StopMonitorRemovesIt(t *testing.T) {
	r := proctor.NewRegistry(proctor.Config{}, &fakeHeavyDetector{}, &fakeAudioDetector{}, nil, &fakeWarningStore{}, &fakePublisher{}, nil)
	ctx := context.Background()

	r.StartMonitor(ctx, "sess-b")
	require.NotNil(t, r.Get("sess-b"))

	r.StopMonitor("sess-b")
	assert.Nil(t, r.Get("sess-b"))

	// Stopping twice must not panic.
	r.StopMonitor("sess-b")
}

func TestRegistry_IDFaceDetectorWiring(t *testing.T) {
	heavy := &fakeHeavyDetector{analysis: proctor.FrameAnalysis{FaceCount: 2}}
	fd := proctor.NewIDFaceDetector(heavy)

	count, err := fd.CountFaces(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
