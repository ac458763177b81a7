package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schemalens/schemalens/internal/extract"
	"github.com/schemalens/schemalens/internal/provider"
	"github.com/schemalens/schemalens/internal/schemadiff"
	"github.com/schemalens/schemalens/internal/store"
	"github.com/schemalens/schemalens/internal/validate"
)

// failure is the body returned for any unsuccessful review.
type failure struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleReview(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, failure{Error: "request body must be a JSON object"})
	}

	result, err := s.pipeline.Review(c.Request().Context(), payload)
	if err != nil {
		return s.reviewError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// reviewError maps the pipeline's typed errors onto HTTP statuses: invalid
// input is the client's fault, a failed provider call is an upstream fault,
// and an unparseable reply is ours.
func (s *Server) reviewError(c echo.Context, err error) error {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusUnprocessableEntity, failure{
			Error:    vErr.Error(),
			Warnings: vErr.Warnings,
		})
	}
	var pErr *provider.Error
	if errors.As(err, &pErr) {
		return c.JSON(http.StatusBadGateway, failure{Error: pErr.Error()})
	}
	var eErr *extract.Error
	if errors.As(err, &eErr) {
		return c.JSON(http.StatusInternalServerError, failure{Error: eErr.Error()})
	}
	return c.JSON(http.StatusInternalServerError, failure{Error: err.Error()})
}

type diffRequest struct {
	CurrentSchema  []string `json:"current_schema"`
	ProposedSchema []string `json:"proposed_schema"`
}

type diffResponse struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Unchanged []string `json:"unchanged"`
	Breaking  []string `json:"breaking"`
	Report    string   `json:"report"`
}

func (s *Server) handleDiff(c echo.Context) error {
	var req diffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failure{Error: "request body must be a JSON object"})
	}

	diff := schemadiff.Compare(req.CurrentSchema, req.ProposedSchema)
	return c.JSON(http.StatusOK, diffResponse{
		Added:     diff.Added,
		Removed:   diff.Removed,
		Unchanged: diff.Unchanged,
		Breaking:  diff.Breaking,
		Report:    diff.Report(),
	})
}

func (s *Server) handlePromptList(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"keys": s.prompts.Keys()})
}

func (s *Server) handlePromptShow(c echo.Context) error {
	key := c.Param("key")
	content, err := s.prompts.Get(key)
	if err != nil {
		return c.JSON(http.StatusNotFound, failure{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"key": key, "content": content})
}

type promptUpdate struct {
	Content string `json:"content"`
}

func (s *Server) handlePromptSet(c echo.Context) error {
	key := c.Param("key")
	var req promptUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failure{Error: "request body must be a JSON object"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, failure{Error: "content must not be empty"})
	}
	if err := s.prompts.Set(key, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, failure{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"key": key})
}

func (s *Server) handlePromptDelete(c echo.Context) error {
	key := c.Param("key")
	if err := s.prompts.Delete(key); err != nil {
		return c.JSON(http.StatusInternalServerError, failure{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleEvents(c echo.Context) error {
	if s.events == nil {
		return c.JSON(http.StatusOK, []store.ReviewEvent{})
	}
	limit := 50
	events, err := s.events.RecentEvents(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, failure{Error: err.Error()})
	}
	if events == nil {
		events = []store.ReviewEvent{}
	}
	return c.JSON(http.StatusOK, events)
}
