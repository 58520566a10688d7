// Package web provides a real-time dashboard for gazescroll
package web

import (
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/gazekit/gazescroll/internal/log"
	"github.com/gazekit/gazescroll/pkg/gesture"
	"github.com/gazekit/gazescroll/pkg/hub"
)

// Pipeline is the slice of the gesture pipeline the dashboard needs.
type Pipeline interface {
	Status() gesture.Status
	GetTuningParams() gesture.TuningParams
	SetTuningParams(gesture.TuningParams)
}

// ScoreSample is one per-frame score update pushed to score stream clients.
type ScoreSample struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	Score float64 `json:"score"`
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, trigger, face, error
	Message string `json:"message"`
}

// Server is the web dashboard server
type Server struct {
	app      *fiber.App
	port     string
	pipeline Pipeline

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Recent trigger events (last 100)
	events   []gesture.TriggerEvent
	eventsMu sync.RWMutex

	// Hubs for websocket broadcast (thread-safe!)
	scoreHub  *hub.Hub
	eventHub  *hub.Hub
	cameraHub *hub.Hub
}

// NewServer creates a new web dashboard server
func NewServer(port string, pipeline Pipeline) *Server {
	s := &Server{
		port:      port,
		pipeline:  pipeline,
		logs:      make([]LogEntry, 0, 500),
		events:    make([]gesture.TriggerEvent, 0, 100),
		scoreHub:  hub.New("score"),
		eventHub:  hub.New("events"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "gazescroll dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)
	api.Get("/events", s.handleGetEvents)
	api.Get("/logs", s.handleGetLogs)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/score", websocket.New(s.handleScoreWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start starts the web server on the configured port.
func (s *Server) Start() error {
	log.Info("web dashboard listening", "url", "http://localhost:"+s.port)
	s.runHubs()
	return s.app.Listen(":" + s.port)
}

// Serve starts the web server on an existing listener (used by tests).
func (s *Server) Serve(ln net.Listener) error {
	s.runHubs()
	return s.app.Listener(ln)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "err", err)
		}
	}()
}

func (s *Server) runHubs() {
	go s.scoreHub.Run()
	go s.eventHub.Run()
	go s.cameraHub.Run()
}

// UpdateScore implements gesture.StateUpdater: pushes per-frame scores to
// stream clients.
func (s *Server) UpdateScore(left, right, combined float64) {
	s.scoreHub.BroadcastJSON(ScoreSample{Left: left, Right: right, Score: combined})
}

// AddLog implements gesture.StateUpdater: records and broadcasts a log line.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.eventHub.BroadcastJSON(entry)
}

// PublishTrigger records a fire and broadcasts it to event stream clients.
func (s *Server) PublishTrigger(ev gesture.TriggerEvent) {
	s.eventsMu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > 100 {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	s.eventHub.BroadcastJSON(ev)
}

// SendCameraFrame pushes a JPEG frame to camera feed clients.
func (s *Server) SendCameraFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
