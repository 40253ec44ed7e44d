package proctor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// HTTPDetectorConfig points HTTPDetector at an external computer-vision /
// audio inference service, mirroring pkg/aigateway.Config's shape (base
// URL + API key + call timeout) for the same reason: the actual model
// lives behind an HTTP boundary this module never needs to know the
// internals of.
type HTTPDetectorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPDetector implements HeavyFrameDetector (and AudioDetector through
// NewHTTPAudioDetector) by POSTing
// raw frame/audio bytes to a configured inference service and decoding its
// JSON verdict, grounded on pkg/aigateway/http_gateway.go's llmCall shape
// (base64-encode the binary payload, POST JSON, decode JSON response).
type HTTPDetector struct {
	cfg    HTTPDetectorConfig
	client *http.Client
}

func NewHTTPDetector(cfg HTTPDetectorConfig) *HTTPDetector {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &HTTPDetector{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type frameAnalysisRequest struct {
	ImageB64 string `json:"image_b64"`
}

type frameAnalysisResponse struct {
	FaceCount            int     `json:"face_count"`
	LargestFaceAreaRatio float64 `json:"largest_face_area_ratio"`
	SecondFaceAreaRatio  float64 `json:"second_face_area_ratio"`
	PhoneDetected        bool    `json:"phone_detected"`
	EyeAspectRatio       float64 `json:"eye_aspect_ratio"`
	LandmarksMissing     bool    `json:"landmarks_missing"`
}

// Analyze implements HeavyFrameDetector by calling POST {BaseURL}/v1/analyze-frame.
func (d *HTTPDetector) Analyze(ctx context.Context, frame []byte) (FrameAnalysis, error) {
	var resp frameAnalysisResponse
	if err := d.post(ctx, "/v1/analyze-frame", frameAnalysisRequest{ImageB64: base64.StdEncoding.EncodeToString(frame)}, &resp); err != nil {
		return FrameAnalysis{}, err
	}
	return FrameAnalysis{
		FaceCount:            resp.FaceCount,
		LargestFaceAreaRatio: resp.LargestFaceAreaRatio,
		SecondFaceAreaRatio:  resp.SecondFaceAreaRatio,
		PhoneDetected:        resp.PhoneDetected,
		EyeAspectRatio:       resp.EyeAspectRatio,
		LandmarksMissing:     resp.LandmarksMissing,
	}, nil
}

type audioAnalysisRequest struct {
	AudioB64 string `json:"audio_b64"`
}

type audioAnalysisResponse struct {
	EnergyAboveThreshold bool `json:"energy_above_threshold"`
	SpeakerCount         int  `json:"speaker_count"`
}

// AnalyzeAudio implements AudioDetector by calling POST {BaseURL}/v1/analyze-audio.
func (d *HTTPDetector) AnalyzeAudio(ctx context.Context, chunk []byte) (AudioAnalysis, error) {
	var resp audioAnalysisResponse
	if err := d.post(ctx, "/v1/analyze-audio", audioAnalysisRequest{AudioB64: base64.StdEncoding.EncodeToString(chunk)}, &resp); err != nil {
		return AudioAnalysis{}, err
	}
	return AudioAnalysis{EnergyAboveThreshold: resp.EnergyAboveThreshold, SpeakerCount: resp.SpeakerCount}, nil
}

func (d *HTTPDetector) post(ctx context.Context, path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("proctor detector call to %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proctor detector call to %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(respBody)
}

// audioDetectorAdapter adapts HTTPDetector's AnalyzeAudio method (named
// distinctly from Analyze to avoid a confusing overload on receiver type)
// to the AudioDetector interface's Analyze(ctx, chunk) signature.
type audioDetectorAdapter struct{ d *HTTPDetector }

// NewHTTPAudioDetector returns an AudioDetector backed by the same
// inference service HTTPDetector talks to for video frames.
func NewHTTPAudioDetector(d *HTTPDetector) AudioDetector { return audioDetectorAdapter{d: d} }

func (a audioDetectorAdapter) Analyze(ctx context.Context, chunk []byte) (AudioAnalysis, error) {
	return a.d.AnalyzeAudio(ctx, chunk)
}

// FileScreenshotSink implements ScreenshotSink by writing annotated warning
// frames to PROCTOR_EVIDENCE_DIR and returning a file:// reference, the
// simplest "URL" a purely local deployment can offer without requiring an
// object-storage dependency the rest of this module never otherwise needs.
type FileScreenshotSink struct {
	Dir string
}

func NewFileScreenshotSink(dir string) *FileScreenshotSink {
	return &FileScreenshotSink{Dir: dir}
}

func (s *FileScreenshotSink) Capture(ctx context.Context, sessionID, warningLabel string, frame []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot sink: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.jpg", sessionID, warningLabel, uuid.NewString())
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, frame, 0o644); err != nil {
		return "", fmt.Errorf("screenshot sink: %w", err)
	}
	return "file://" + path, nil
}
