// Package audit records every successful registry and position-log mutation
// in the audit_logs table and serves the filtered trail back.
package audit

import (
	"context"
	"time"
)

// Actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entity types.
const (
	EntityDevice   = "device"
	EntityPosition = "position"
)

// Sources identify the surface a mutation arrived through.
const (
	SourceAPI  = "api"
	SourceMQTT = "mqtt"
	SourceSeed = "seed"
)

// Entry is a single audit trail record.
type Entry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	Source     string         `json:"source"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Filter controls which entries List returns.
type Filter struct {
	Action     string // optional: create, update, delete
	EntityType string // optional: device, position
	EntityID   string // optional: a specific entity
	Limit      int    // default 50, max 200
	Offset     int    // pagination offset
}

// ListResult is one page of entries plus the unpaginated total.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

type sourceKey struct{}

// WithSource tags ctx with the surface the current request arrived through.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the source stored by WithSource, or SourceAPI.
func SourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return SourceAPI
}
