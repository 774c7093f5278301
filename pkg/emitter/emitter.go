// Package emitter provides a small demo stream server for exercising the
// wiretap client locally. It emits strict `data: <payload>\n\n` frames at a
// fixed interval, the exact wire format pkg/sse decodes.
package emitter

import (
	"bufio"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Config holds the emitter's settings.
type Config struct {
	// ListenAddr is the address to listen on (e.g. ":8089").
	ListenAddr string

	// Interval is the pause between emitted frames.
	Interval time.Duration

	// Count is the number of frames per stream. 0 streams until the client
	// disconnects.
	Count uint
}

// Server is the demo stream server.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a stream emitter server.
func NewServer(config Config, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/stream", s.handleStream)

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting stream emitter",
		"listen", s.config.ListenAddr,
		"interval", s.config.Interval,
		"count", s.config.Count,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleStream emits frames until the configured count is reached or the
// client goes away. ?count= overrides the configured frame count per request.
func (s *Server) handleStream(c *fiber.Ctx) error {
	count := s.config.Count
	if q := c.QueryInt("count", -1); q >= 0 {
		count = uint(q)
	}
	interval := s.config.Interval

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	s.logger.Debug("stream opened", "count", count)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for i := uint(0); count == 0 || i < count; i++ {
			if i > 0 && interval > 0 {
				time.Sleep(interval)
			}

			payload := fmt.Sprintf(`{"seq":%d,"emitted_at":%q}`, i, time.Now().UTC().Format(time.RFC3339Nano))
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			// Flush failure means the client disconnected.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}
