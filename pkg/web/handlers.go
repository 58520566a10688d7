package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/gazekit/gazescroll/pkg/gesture"
	"github.com/gazekit/gazescroll/pkg/hub"
)

// handleStatus returns the current pipeline snapshot plus viewer counts.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"pipeline": s.pipeline.Status(),
		"viewers": fiber.Map{
			"score":  s.scoreHub.ClientCount(),
			"events": s.eventHub.ClientCount(),
			"camera": s.cameraHub.ClientCount(),
		},
	})
}

// handleGetTuning returns the current tuning parameters.
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.pipeline.GetTuningParams())
}

// handleSetTuning applies tuning parameters at runtime. Zero-valued fields
// are left unchanged.
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var params gesture.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid tuning payload: " + err.Error(),
		})
	}

	s.pipeline.SetTuningParams(params)
	return c.JSON(s.pipeline.GetTuningParams())
}

// handleGetEvents returns recent trigger events.
func (s *Server) handleGetEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return c.JSON(s.events)
}

// handleGetLogs returns recent log entries.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleScoreWS streams per-frame scores.
func (s *Server) handleScoreWS(c *websocket.Conn) {
	hub.NewClient(s.scoreHub, c).Run()
}

// handleEventsWS streams trigger events and log lines.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.eventHub, c).Run()
}

// handleCameraWS streams JPEG camera frames.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}
