// Package config loads the interview platform's configuration from
// environment variables, following the env-var contract of SPEC_FULL.md §8.
// It is shaped after the teacher's "umbrella struct of typed sub-configs"
// pattern (upstream pkg/config/config.go, pkg/database/config.go), simplified
// here to env-vars since this spec has no YAML agent/chain registries to load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration object threaded through the daemon.
type Config struct {
	Database   DatabaseConfig
	Token      TokenConfig
	Scheduling SchedulingConfig
	Queue      QueueConfig
	AIGateway  AIGatewayConfig
	CodeRunner CodeRunnerConfig
	Proctor    ProctorConfig
	Notify     NotifyConfig
	BaseURL    string
	Env        string // "development", "staging", "production"
}

// TokenConfig configures the Token Service (C1).
type TokenConfig struct {
	Secret     string        // INTERVIEW_LINK_SECRET
	EarlyGrace time.Duration // LINK_EARLY_GRACE_SECONDS, default 900s
	LateGrace  time.Duration // LINK_LATE_GRACE_SECONDS, default 7200s
}

// SchedulingConfig configures the Slot Store & Scheduler (C2).
type SchedulingConfig struct {
	Timezone string // INTERVIEW_TIMEZONE, default Asia/Kolkata
}

// QueueConfig configures the session-expiry sweeper cadence, generalizing
// the teacher's queue.QueueConfig (orphan detection ticker) to session
// expiry instead of alert-session claiming.
type QueueConfig struct {
	SessionIdleTimeout time.Duration // SESSION_IDLE_TIMEOUT_SECONDS, default 600s
	SweepInterval      time.Duration // sweeper cron cadence
}

// AIGatewayConfig configures the AI Gateway (C5).
type AIGatewayConfig struct {
	RateLimitPerMinute int // AI_RATE_LIMIT_PER_MINUTE, default 10
	QuotaHardFail      bool
	LLMBaseURL         string
	LLMAPIKey          string
	ASRBaseURL         string
	ASRAPIKey          string
	TTSBaseURL         string
	TTSAPIKey          string
	CallTimeout        time.Duration // hard ceiling per call, default 90s
}

// CodeRunnerConfig configures the Code Runner (C6).
type CodeRunnerConfig struct {
	TimeoutSeconds int // CODE_RUNNER_TIMEOUT_SECONDS, default 15
	DockerHost     string
}

// ProctorConfig configures the Proctor Pipeline (C4) per spec.md §4.4.
type ProctorConfig struct {
	HeavyDetectorEveryNFrames int           // default 15
	NoPersonGrace             time.Duration // PROCTOR_NO_PERSON_GRACE_SECONDS, default 30s
	ExcessiveNoiseGrace       time.Duration // PROCTOR_NOISE_GRACE_SECONDS, default 3s
	MultipleSpeakersGrace     time.Duration // PROCTOR_SPEAKER_GRACE_SECONDS, default 3s
	LowConcentrationFrames    int           // consecutive frames, default 8
	EvidenceDir               string        // PROCTOR_EVIDENCE_DIR, annotated screenshot storage
	DetectorBaseURL           string        // PROCTOR_DETECTOR_BASE_URL, CV/audio inference service
	DetectorAPIKey            string        // PROCTOR_DETECTOR_API_KEY
	DetectorTimeout           time.Duration // PROCTOR_DETECTOR_TIMEOUT_SECONDS, default 5s
}

// NotifyConfig configures the notification sink (§4.8).
type NotifyConfig struct {
	Provider     string // "smtp" or "http"
	SMTPAddr     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	HTTPURL      string
}

// DatabaseConfig mirrors the teacher's database.Config shape (same field
// names/env vars, pgx driver), grounded on upstream pkg/database/config.go.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Load reads Config from the process environment. An unset required value
// (INTERVIEW_LINK_SECRET) produces an error; everything else falls back to
// the spec-mandated defaults.
func Load() (*Config, error) {
	secret := os.Getenv("INTERVIEW_LINK_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("INTERVIEW_LINK_SECRET is required")
	}

	earlyGrace, err := envDurationSeconds("LINK_EARLY_GRACE_SECONDS", 900)
	if err != nil {
		return nil, err
	}
	lateGrace, err := envDurationSeconds("LINK_LATE_GRACE_SECONDS", 7200)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := envDurationSeconds("SESSION_IDLE_TIMEOUT_SECONDS", 600)
	if err != nil {
		return nil, err
	}
	rateLimit, err := envInt("AI_RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return nil, err
	}
	codeTimeout, err := envInt("CODE_RUNNER_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	heavyEveryN, err := envInt("PROCTOR_HEAVY_DETECTOR_EVERY_N_FRAMES", 15)
	if err != nil {
		return nil, err
	}
	noPersonGrace, err := envDurationSeconds("PROCTOR_NO_PERSON_GRACE_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	noiseGrace, err := envDurationSeconds("PROCTOR_NOISE_GRACE_SECONDS", 3)
	if err != nil {
		return nil, err
	}
	speakerGrace, err := envDurationSeconds("PROCTOR_SPEAKER_GRACE_SECONDS", 3)
	if err != nil {
		return nil, err
	}
	lowConcentrationFrames, err := envInt("PROCTOR_LOW_CONCENTRATION_FRAMES", 8)
	if err != nil {
		return nil, err
	}
	detectorTimeout, err := envDurationSeconds("PROCTOR_DETECTOR_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	dbCfg, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: dbCfg,
		Token: TokenConfig{
			Secret:     secret,
			EarlyGrace: earlyGrace,
			LateGrace:  lateGrace,
		},
		Scheduling: SchedulingConfig{
			Timezone: getEnvOrDefault("INTERVIEW_TIMEZONE", "Asia/Kolkata"),
		},
		Queue: QueueConfig{
			SessionIdleTimeout: idleTimeout,
			SweepInterval:      30 * time.Second,
		},
		AIGateway: AIGatewayConfig{
			RateLimitPerMinute: rateLimit,
			QuotaHardFail:      envBool("AI_QUOTA_HARD_FAIL", false),
			LLMBaseURL:         os.Getenv("AI_LLM_BASE_URL"),
			LLMAPIKey:          os.Getenv("AI_LLM_API_KEY"),
			ASRBaseURL:         os.Getenv("AI_ASR_BASE_URL"),
			ASRAPIKey:          os.Getenv("AI_ASR_API_KEY"),
			TTSBaseURL:         os.Getenv("AI_TTS_BASE_URL"),
			TTSAPIKey:          os.Getenv("AI_TTS_API_KEY"),
			CallTimeout:        90 * time.Second,
		},
		CodeRunner: CodeRunnerConfig{
			TimeoutSeconds: codeTimeout,
			DockerHost:     getEnvOrDefault("DOCKER_HOST", ""),
		},
		Proctor: ProctorConfig{
			HeavyDetectorEveryNFrames: heavyEveryN,
			NoPersonGrace:             noPersonGrace,
			ExcessiveNoiseGrace:       noiseGrace,
			MultipleSpeakersGrace:     speakerGrace,
			LowConcentrationFrames:    lowConcentrationFrames,
			EvidenceDir:               getEnvOrDefault("PROCTOR_EVIDENCE_DIR", ""),
			DetectorBaseURL:           os.Getenv("PROCTOR_DETECTOR_BASE_URL"),
			DetectorAPIKey:            os.Getenv("PROCTOR_DETECTOR_API_KEY"),
			DetectorTimeout:           detectorTimeout,
		},
		Notify: NotifyConfig{
			Provider:     getEnvOrDefault("NOTIFY_PROVIDER", "smtp"),
			SMTPAddr:     os.Getenv("SMTP_ADDR"),
			SMTPUser:     os.Getenv("SMTP_USER"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			SMTPFrom:     os.Getenv("SMTP_FROM"),
			HTTPURL:      os.Getenv("NOTIFY_HTTP_URL"),
		},
		BaseURL: os.Getenv("BASE_URL"),
		Env:     getEnvOrDefault("APP_ENV", "development"),
	}

	return cfg, nil
}

// LinkBaseURLUsable reports whether BaseURL is configured and, outside
// development, not pointing at localhost — per spec §6's requirement that
// the service refuse to embed a localhost link in outbound mail for
// non-development deployments.
func (c *Config) LinkBaseURLUsable() bool {
	if c.BaseURL == "" {
		return false
	}
	if c.Env == "development" {
		return true
	}
	return !isLocalhost(c.BaseURL)
}

func isLocalhost(base string) bool {
	for _, needle := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		if strings.Contains(base, needle) {
			return true
		}
	}
	return false
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	port, err := envInt("DB_PORT", 5432)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxOpen, _ := envInt("DB_MAX_OPEN_CONNS", 25)
	maxIdle, _ := envInt("DB_MAX_IDLE_CONNS", 10)
	maxLifetime, err := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	maxIdleTime, err := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_IDLE_TIME", "15m"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_CONN_MAX_IDLE_TIME: %w", err)
	}

	cfg := DatabaseConfig{
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("DB_USER", "interview"),
		Password:        os.Getenv("DB_PASSWORD"),
		Database:        getEnvOrDefault("DB_NAME", "interview"),
		SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: maxLifetime,
		ConnMaxIdleTime: maxIdleTime,
	}
	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		return DatabaseConfig{}, fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot exceed DB_MAX_OPEN_CONNS (%d)", cfg.MaxIdleConns, cfg.MaxOpenConns)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envDurationSeconds(key string, defaultSeconds int) (time.Duration, error) {
	v, err := envInt(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}

func envBool(key string, defaultVal bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultVal
	}
	return v
}
