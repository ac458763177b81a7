// Package web exposes the review service over HTTP.
package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/schemalens/schemalens/internal/prompt"
	"github.com/schemalens/schemalens/internal/review"
	"github.com/schemalens/schemalens/internal/store"
)

// EventSource reads back the review event log.
type EventSource interface {
	RecentEvents(limit int) ([]store.ReviewEvent, error)
}

// Server is the HTTP front end. All request handling delegates to the review
// pipeline and the prompt store.
type Server struct {
	echo     *echo.Echo
	pipeline *review.Pipeline
	prompts  *prompt.Store
	events   EventSource
}

// NewServer creates a Server. events may be nil; the events endpoint then
// returns an empty list.
func NewServer(pipeline *review.Pipeline, prompts *prompt.Store, events EventSource) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		pipeline: pipeline,
		prompts:  prompts,
		events:   events,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/review", s.handleReview)
	api.POST("/diff", s.handleDiff)
	api.GET("/prompts", s.handlePromptList)
	api.GET("/prompts/:key", s.handlePromptShow)
	api.PUT("/prompts/:key", s.handlePromptSet)
	api.DELETE("/prompts/:key", s.handlePromptDelete)
	api.GET("/events", s.handleEvents)
}

// Start begins serving on addr. Blocks until the server stops.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Handler returns the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
