package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

// handleListAuditLogs serves GET /audit.
//
// Query parameters: action (create, update, delete), entity_type (device,
// position), entity_id, limit (default 50, max 200) and offset.
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeInternalError(w, "audit logging not configured")
		return
	}

	filter, err := parseAuditFilter(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, err, "list audit logs")
		return
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, "list audit logs")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseAuditFilter reads the audit query string. Paging values must be
// non-negative integers; clamping to the maximum happens in the repository.
func parseAuditFilter(q url.Values) (audit.Filter, error) {
	c := validation.NewCollector(validation.Update)
	f := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}

	paging := func(field string, dst *int) {
		raw := q.Get(field)
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.Add(field, "must be a non-negative integer")
			return
		}
		*dst = n
	}
	paging("limit", &f.Limit)
	paging("offset", &f.Offset)

	return f, c.Err()
}
