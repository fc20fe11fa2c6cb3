package main

import (
	"errors"
	"net/http"

	"github.com/steemflagrewards/sfrbot/engine"
	"github.com/steemflagrewards/sfrbot/sdl"
	"github.com/steemflagrewards/sfrbot/steem"

	"github.com/labstack/echo/v4"
)

type submitReportRequest struct {
	Link string `json:"link"`
}

type submitReportResponse struct {
	Accepted bool            `json:"accepted"`
	Kind     string          `json:"kind,omitempty"`
	Message  string          `json:"message,omitempty"`
	Outcome  *engine.Outcome `json:"outcome,omitempty"`
}

func (s *Server) handleSubmitReport(c echo.Context) error {
	ctx := c.Request().Context()

	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, submitReportResponse{Kind: "bad_request", Message: "invalid request body"})
	}
	if req.Link == "" {
		return c.JSON(http.StatusBadRequest, submitReportResponse{Kind: "bad_request", Message: "link is required"})
	}

	out, err := s.engine.ProcessReport(ctx, req.Link)
	if err != nil {
		if engine.IsExpectedRejection(err) {
			return c.JSON(http.StatusOK, submitReportResponse{
				Accepted: false,
				Kind:     engine.RejectKind(err),
				Message:  err.Error(),
			})
		}
		// accepted but a post-approval step failed: surface loudly, keep
		// the outcome in the response
		s.logger.Error("report processing failed", "link", req.Link, "kind", engine.RejectKind(err), "err", err)
		return c.JSON(http.StatusInternalServerError, submitReportResponse{
			Accepted: out != nil,
			Kind:     engine.RejectKind(err),
			Message:  err.Error(),
			Outcome:  out,
		})
	}

	return c.JSON(http.StatusOK, submitReportResponse{Accepted: true, Outcome: out})
}

func (s *Server) handleStatus(c echo.Context) error {
	st, err := s.engine.Status(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "status query failed"})
	}
	return c.JSON(http.StatusOK, st)
}

type rosterAddRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRosterAdd(c echo.Context) error {
	var req rosterAddRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	entry, err := s.roster.Add(c.Request().Context(), req.Name)
	switch {
	case errors.Is(err, steem.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "account does not exist on chain"})
	case errors.Is(err, sdl.ErrAlreadyListed):
		return c.JSON(http.StatusConflict, map[string]string{"error": "account already listed"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "roster insert failed"})
	}
	return c.JSON(http.StatusOK, entry)
}

func (s *Server) handleRosterRemove(c echo.Context) error {
	err := s.roster.Remove(c.Request().Context(), c.Param("name"))
	switch {
	case errors.Is(err, sdl.ErrNotListed):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "account not listed"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "roster delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRosterList(c echo.Context) error {
	entries, err := s.roster.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "roster query failed"})
	}
	if entries == nil {
		entries = []sdl.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleRosterExport(c echo.Context) error {
	out, err := s.roster.Export(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "roster export failed"})
	}
	return c.String(http.StatusOK, out)
}

func (s *Server) handleRosterRefresh(c echo.Context) error {
	cleared, err := s.roster.RefreshDelegations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delegation refresh failed"})
	}
	if cleared == nil {
		cleared = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"cleared": cleared})
}
