// Package proctor implements the Proctor Pipeline (C4): one Monitor per
// ACTIVE session that consumes camera frames and audio chunks and emits
// WarningLog entries, plus a one-shot ID-verification face count. Grounded
// on pkg/mcp/client.go's per-key mutex registry and pkg/events for
// broadcast.
package proctor

import "context"

// FrameAnalysis is the result of running the heavy per-frame detectors
// (face counting, phone detection, eye-aspect-ratio) on a single camera
// frame, per spec.md §4.4's detector set.
type FrameAnalysis struct {
	FaceCount            int
	LargestFaceAreaRatio float64 // 0-1, area of the largest detected face's bounding box
	SecondFaceAreaRatio  float64 // 0-1, area of the second-largest face, for MULTIPLE_PEOPLE's >=35% test
	PhoneDetected        bool
	EyeAspectRatio       float64
	LandmarksMissing     bool
}

// HeavyFrameDetector runs the compute-heavy, model-backed analysis of a
// single frame. The Monitor invokes it only every HeavyDetectorEveryNFrames
// frames, per spec.md §4.4's "heavy detectors run every N frames" rule.
type HeavyFrameDetector interface {
	Analyze(ctx context.Context, frame []byte) (FrameAnalysis, error)
}

// AudioAnalysis is the result of running noise-energy and speaker
// diarization on a one-second audio chunk.
type AudioAnalysis struct {
	EnergyAboveThreshold bool
	SpeakerCount         int
}

// AudioDetector analyzes one one-second audio chunk.
type AudioDetector interface {
	Analyze(ctx context.Context, chunk []byte) (AudioAnalysis, error)
}

// ScreenshotSink persists an annotated evidence screenshot for a
// non-suppressed warning activation, per spec.md §4.4. Capture returns the
// URL to store on the WarningLog row.
type ScreenshotSink interface {
	Capture(ctx context.Context, sessionID, warningLabel string, frame []byte) (url string, err error)
}

// IDFaceDetector adapts a HeavyFrameDetector to pkg/interview.FaceDetector's
// CountFaces(ctx, image) contract, so the same detector backing the live
// Monitor also serves spec.md §4.4's one-shot ID-verification operation.
type IDFaceDetector struct {
	detector HeavyFrameDetector
}

// NewIDFaceDetector constructs an IDFaceDetector over the given detector.
func NewIDFaceDetector(detector HeavyFrameDetector) *IDFaceDetector {
	return &IDFaceDetector{detector: detector}
}

func (d *IDFaceDetector) CountFaces(ctx context.Context, image []byte) (int, error) {
	analysis, err := d.detector.Analyze(ctx, image)
	if err != nil {
		return 0, err
	}
	return analysis.FaceCount, nil
}
