// Package api is the External Edge (C8): the recruiter-authenticated HTTP
// API and the public candidate-facing interview endpoints, built on the same
// echo/v5 "Server struct + ValidateWiring + setupRoutes" shape as the
// teacher's pkg/api/server.go, with every dependency passed to NewServer.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v5"
	mw "github.com/labstack/echo/v5/middleware"

	"github.com/codeready-toolchain/interviewplatform/pkg/config"
	"github.com/codeready-toolchain/interviewplatform/pkg/events"
	"github.com/codeready-toolchain/interviewplatform/pkg/interview"
	"github.com/codeready-toolchain/interviewplatform/pkg/notify"
	"github.com/codeready-toolchain/interviewplatform/pkg/scheduling"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
	"github.com/codeready-toolchain/interviewplatform/pkg/token"
	"github.com/codeready-toolchain/interviewplatform/pkg/version"
)

// validate is shared across handlers the way a single *echo.Echo instance
// is: one validator.New() per process, never per-request.
var validate = validator.New()

// Server is the HTTP API server for the interview platform.
type Server struct {
	echo         *echo.Echo
	httpServer   *http.Server
	cfg          *config.Config
	store        *store.Store
	scheduler    *scheduling.Scheduler
	orchestrator *interview.Orchestrator
	minter       *token.Minter
	notifySink   notify.Sink
	connManager  *events.ConnectionManager
	log          *slog.Logger
}

// NewServer creates a new API server with Echo v5. connManager may be nil —
// ValidateWiring does not require it — since the recruiter live-feed
// websocket is an enhancement over the REST result/status endpoints, not a
// load-bearing path for booking or evaluation.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	sched *scheduling.Scheduler,
	orch *interview.Orchestrator,
	minter *token.Minter,
	notifySink notify.Sink,
	connManager *events.ConnectionManager,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	e := echo.New()

	s := &Server{
		echo:         e,
		cfg:          cfg,
		store:        st,
		scheduler:    sched,
		orchestrator: orch,
		minter:       minter,
		notifySink:   notifySink,
		connManager:  connManager,
		log:          log,
	}

	s.setupRoutes()
	return s
}

// ValidateWiring checks that all required dependencies were supplied to
// NewServer, mirroring the teacher's ValidateWiring's fail-fast-at-startup
// intent (aggregate every missing dependency into one error).
func (s *Server) ValidateWiring() error {
	var errs []error
	if s.store == nil {
		errs = append(errs, fmt.Errorf("store not set"))
	}
	if s.scheduler == nil {
		errs = append(errs, fmt.Errorf("scheduler not set"))
	}
	if s.orchestrator == nil {
		errs = append(errs, fmt.Errorf("orchestrator not set"))
	}
	if s.minter == nil {
		errs = append(errs, fmt.Errorf("token minter not set"))
	}
	if s.notifySink == nil {
		errs = append(errs, fmt.Errorf("notify sink not set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("server wiring incomplete: %w", errors.Join(errs...))
	}
	return nil
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.echo.Use(mw.BodyLimit(2 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)

	// Recruiter API — bearer-authenticated per spec.md §6.
	recruiter := s.echo.Group("", requireRecruiterAuth())
	recruiter.POST("/jobs", s.createJobHandler)
	recruiter.POST("/candidates", s.createCandidateHandler)
	recruiter.POST("/slots", s.createSlotHandler)
	recruiter.POST("/interviews", s.createInterviewHandler)
	recruiter.POST("/interviews/:id/book", s.bookInterviewHandler)
	recruiter.POST("/interviews/:id/reschedule", s.rescheduleInterviewHandler)
	recruiter.POST("/interviews/:id/cancel", s.cancelInterviewHandler)
	recruiter.GET("/interviews/:id", s.getInterviewHandler)
	recruiter.GET("/sessions/:id/result", s.getSessionResultHandler)
	recruiter.GET("/live", s.wsHandler)

	// Public candidate endpoints — per-request link-token verification only.
	public := s.echo.Group("/public/ai-interview")
	public.POST("/start", s.startInterviewHandler)
	public.POST("/submit-response", s.submitResponseHandler)
	public.POST("/complete", s.completeInterviewHandler)
	public.POST("/verify-id", s.verifyIDHandler)

	s.echo.GET("/public/interview/", s.interviewPortalHandler)
}

// Start starts the HTTP server on the given address and blocks until the
// server stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener. Used
// by tests to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Pool().Ping(reqCtx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, &HealthResponse{Status: "unhealthy", Version: version.Full()})
	}
	return c.JSON(http.StatusOK, &HealthResponse{Status: "healthy", Version: version.Full()})
}

// bindAndValidate decodes the request body into req and runs struct-tag
// validation, matching go-playground/validator's standard echo wiring.
func bindAndValidate(c *echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
