package api

import (
	"github.com/coder/websocket"
	echo "github.com/labstack/echo/v5"
)

// wsHandler upgrades a recruiter's authenticated HTTP request to a
// WebSocket and delegates it to the ConnectionManager, which streams
// proctor.warning events (published by pkg/proctor via
// pkg/events.EventPublisher) to the recruiter dashboard. pkg/interview
// publishes no events, so no session.status events reach this feed.
// Origin is not restricted beyond requireRecruiterAuth's bearer check —
// unlike the teacher's own /ws route this one already sits behind auth, so
// there is no separate origin allowlist to defer.
func (s *Server) wsHandler(c *echo.Context) error {
	if s.connManager == nil {
		return echo.NewHTTPError(503, "live feed not available")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return err
	}

	s.connManager.HandleConnection(c.Request().Context(), conn)
	return nil
}
