package api

import (
	"fmt"
	"net/http"

	"github.com/nerrad567/fleet-gps-core/internal/position"
)

// handleListPositions returns every report ordered by id.
func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	reports, err := s.fleet.ListPositions(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "list positions")
		return
	}
	writePositions(w, reports)
}

// handleRecordPosition appends a report for a registered device.
func (s *Server) handleRecordPosition(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := position.DecodeInput(body)
	if err != nil {
		s.writeServiceError(w, r, err, "decode position")
		return
	}

	report, err := s.fleet.RecordPosition(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "record position")
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// handleDeletePosition removes one report.
func (s *Server) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "position")
	if !ok {
		return
	}

	if err := s.fleet.DeletePosition(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "delete position")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("position %d deleted", id),
		"id":      id,
	})
}

// handleGetLatestPosition returns the newest report of a device.
func (s *Server) handleGetLatestPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "device")
	if !ok {
		return
	}

	report, err := s.fleet.GetLatestPosition(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "get latest position")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleGetPositionHistory returns a device's reports, newest first.
//
// Query parameters:
//   - from, to: ISO-8601 bounds on reported_at (inclusive)
//   - limit: maximum number of reports (capped at 1000)
func (s *Server) handleGetPositionHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "device")
	if !ok {
		return
	}

	q := r.URL.Query()
	window, err := position.ParseWindow(q.Get("from"), q.Get("to"), q.Get("limit"))
	if err != nil {
		s.writeServiceError(w, r, err, "get position history")
		return
	}

	reports, err := s.fleet.GetPositionHistory(r.Context(), id, window)
	if err != nil {
		s.writeServiceError(w, r, err, "get position history")
		return
	}
	writePositions(w, reports)
}

func writePositions(w http.ResponseWriter, reports []position.Report) {
	if reports == nil {
		reports = []position.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": reports, "count": len(reports)})
}
