// Package api implements the HTTP REST API of Fleet GPS Core.
//
// All routes live under /api/v1 and are served by a chi router:
//   - device registry CRUD, including listing by provider
//   - position reports: record, list, delete, latest and history per device
//   - the audit trail of mutations
//   - health and runtime metrics
//
// Handlers decode bodies through the validation layer and delegate to the
// fleet service. Errors are rendered as
//
//	{"status": 422, "code": "validation_error", "message": "...", "violations": [...]}
//
// with codes validation_error, not_found, conflict, bad_request and
// internal_error. Infrastructure failures never leak their detail.
//
// The middleware stack assigns request IDs, logs every request, recovers
// panics, answers CORS preflights and caps body size.
package api
