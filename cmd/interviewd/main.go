// interviewd is the proctored AI interview platform's daemon: it wires the
// Token Service, Slot Store & Scheduler, Proctor Pipeline, AI Gateway, Code
// Runner, Evaluation Engine, and External Edge together and serves the HTTP
// API, mirroring cmd/tarsy/main.go's "load config, connect DB, construct
// services, start router" shape.
package main

import (
	"context"
	stdsql "database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/interviewplatform/pkg/aigateway"
	"github.com/codeready-toolchain/interviewplatform/pkg/api"
	"github.com/codeready-toolchain/interviewplatform/pkg/coderunner"
	"github.com/codeready-toolchain/interviewplatform/pkg/config"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/events"
	"github.com/codeready-toolchain/interviewplatform/pkg/evaluation"
	"github.com/codeready-toolchain/interviewplatform/pkg/interview"
	"github.com/codeready-toolchain/interviewplatform/pkg/notify"
	"github.com/codeready-toolchain/interviewplatform/pkg/proctor"
	"github.com/codeready-toolchain/interviewplatform/pkg/scheduling"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
	"github.com/codeready-toolchain/interviewplatform/pkg/token"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// interviewLookup adapts *store.InterviewRepo + *store.CandidateRepo to
// token.InterviewLookup, kept here rather than in pkg/token since that
// package deliberately has no dependency on pkg/store.
type interviewLookup struct {
	st *store.Store
}

// registryAdapter discards proctor.Registry.StartMonitor's *Monitor return
// value to satisfy interview.ProctorRegistry's narrower signature, keeping
// pkg/interview free of a direct pkg/proctor type dependency.
type registryAdapter struct{ r *proctor.Registry }

func (a registryAdapter) StartMonitor(ctx context.Context, sessionID string) {
	a.r.StartMonitor(ctx, sessionID)
}
func (a registryAdapter) StopMonitor(sessionID string) { a.r.StopMonitor(sessionID) }

func (l interviewLookup) GetByID(ctx context.Context, interviewID string) (token.InterviewTimeView, error) {
	iv, err := l.st.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return token.InterviewTimeView{}, err
	}
	if iv.StartedAt == nil || iv.EndedAt == nil {
		return token.InterviewTimeView{}, fmt.Errorf("interview %s has no scheduled window", interviewID)
	}
	cand, err := l.st.Candidates.GetByID(ctx, iv.CandidateID)
	if err != nil {
		return token.InterviewTimeView{}, err
	}
	return token.InterviewTimeView{
		InterviewID:    iv.ID,
		CandidateEmail: cand.Email,
		StartedAt:      *iv.StartedAt,
		EndedAt:        *iv.EndedAt,
	}, nil
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "path to directory holding a .env file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Warn("no .env file loaded, continuing with process environment", "path", envPath, "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, store.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	logger.Info("connected to database")

	minter := token.NewMinter([]byte(cfg.Token.Secret), cfg.Token.EarlyGrace, cfg.Token.LateGrace, interviewLookup{st: st})

	scheduler, err := scheduling.New(st, cfg.Scheduling.Timezone, cfg.Token.LateGrace, logger)
	if err != nil {
		logger.Error("failed to construct scheduler", "error", err)
		os.Exit(1)
	}

	var gw aigateway.Gateway
	if cfg.AIGateway.LLMBaseURL == "" {
		logger.Warn("AI_LLM_BASE_URL not set, running with the deterministic fake AI gateway")
		gw = aigateway.NewFakeGateway()
	} else {
		gw = aigateway.NewHTTPGateway(aigateway.Config{
			LLMBaseURL:         cfg.AIGateway.LLMBaseURL,
			LLMAPIKey:          cfg.AIGateway.LLMAPIKey,
			ASRBaseURL:         cfg.AIGateway.ASRBaseURL,
			ASRAPIKey:          cfg.AIGateway.ASRAPIKey,
			TTSBaseURL:         cfg.AIGateway.TTSBaseURL,
			TTSAPIKey:          cfg.AIGateway.TTSAPIKey,
			RateLimitPerMinute: cfg.AIGateway.RateLimitPerMinute,
			QuotaHardFail:      cfg.AIGateway.QuotaHardFail,
			CallTimeout:        cfg.AIGateway.CallTimeout,
		})
	}

	cr, err := coderunner.New(ctx, cfg.CodeRunner.DockerHost, time.Duration(cfg.CodeRunner.TimeoutSeconds)*time.Second, logger)
	if err != nil {
		logger.Error("failed to construct code runner", "error", err)
		os.Exit(1)
	}

	evaluator := evaluation.New(&evaluation.StoreAdapter{
		Sessions:    st.Sessions,
		Questions:   st.Questions,
		Responses:   st.Responses,
		Code:        st.Code,
		Warnings:    st.Warnings,
		Evaluations: st.Evaluations,
	}, gw, logger)

	var heavy proctor.HeavyFrameDetector
	var audio proctor.AudioDetector
	var shots proctor.ScreenshotSink
	if cfg.Proctor.DetectorBaseURL == "" {
		logger.Warn("PROCTOR_DETECTOR_BASE_URL not set, proctoring will fail detector calls until configured")
	}
	httpDetector := proctor.NewHTTPDetector(proctor.HTTPDetectorConfig{
		BaseURL: cfg.Proctor.DetectorBaseURL,
		APIKey:  cfg.Proctor.DetectorAPIKey,
		Timeout: cfg.Proctor.DetectorTimeout,
	})
	heavy = httpDetector
	audio = proctor.NewHTTPAudioDetector(httpDetector)
	evidenceDir := cfg.Proctor.EvidenceDir
	if evidenceDir == "" {
		evidenceDir = "./evidence"
	}
	shots = proctor.NewFileScreenshotSink(evidenceDir)

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Database, cfg.Database.SSLMode)
	sqlDB, err := stdsql.Open("pgx", dsn)
	if err != nil {
		logger.Error("failed to open sql.DB for event publisher", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	publisher := events.NewEventPublisher(sqlDB)

	// connManager fans NOTIFY payloads (published above via EventPublisher)
	// out to recruiter dashboard WebSocket clients at GET /live. No
	// CatchupQuerier is wired: this domain's event set (session status,
	// proctor warnings) has no persisted log to replay from, so a
	// reconnecting dashboard falls back to GET /sessions/:id/result and the
	// interview detail endpoints instead of a catchup feed.
	connManager := events.NewConnectionManager(nil, 5*time.Second)
	notifyListener := events.NewNotifyListener(dsn, connManager)
	connManager.SetListener(notifyListener)
	if err := notifyListener.Start(ctx); err != nil {
		logger.Error("failed to start event notify listener", "error", err)
		os.Exit(1)
	}
	defer notifyListener.Stop(context.Background())

	registry := proctor.NewRegistry(proctor.Config{
		HeavyEveryNFrames:      cfg.Proctor.HeavyDetectorEveryNFrames,
		NoPersonGrace:          cfg.Proctor.NoPersonGrace,
		ExcessiveNoiseGrace:    cfg.Proctor.ExcessiveNoiseGrace,
		MultipleSpeakersGrace:  cfg.Proctor.MultipleSpeakersGrace,
		LowConcentrationFrames: cfg.Proctor.LowConcentrationFrames,
		SuppressedTypes:        map[domain.WarningType]bool{domain.WarningProctorDegraded: true},
	}, heavy, audio, shots, st.Warnings, publisher, logger)

	faceDetector := proctor.NewIDFaceDetector(heavy)

	orch := interview.New(st, minter, gw, cr, evaluator, faceDetector, cfg.Queue.SessionIdleTimeout, logger)
	orch.SetProctorRegistry(registryAdapter{r: registry})

	sweeper := interview.NewSweeper(orch, cfg.Queue.SweepInterval, logger)
	stopSweeper, err := sweeper.Start(ctx)
	if err != nil {
		logger.Error("failed to start session-expiry sweeper", "error", err)
		os.Exit(1)
	}
	defer stopSweeper()

	notifySink, err := notify.NewFromConfig(cfg.Notify.Provider, notify.SMTPConfig{
		Addr:     cfg.Notify.SMTPAddr,
		User:     cfg.Notify.SMTPUser,
		Password: cfg.Notify.SMTPPassword,
		From:     cfg.Notify.SMTPFrom,
	}, cfg.Notify.HTTPURL, logger)
	if err != nil {
		logger.Error("failed to construct notify sink", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg, st, scheduler, orch, minter, notifySink, connManager, logger)
	if err := server.ValidateWiring(); err != nil {
		logger.Error("server wiring incomplete", "error", err)
		os.Exit(1)
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	addr := ":" + httpPort

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server exited unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
