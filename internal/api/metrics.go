package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/ingest"
)

// SystemMetrics is the /metrics response body.
type SystemMetrics struct {
	Timestamp     time.Time        `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeMetrics   `json:"runtime"`
	Devices       DeviceMetrics    `json:"devices"`
	Ingest        *ingest.Stats    `json:"ingest,omitempty"`
	Database      *DatabaseMetrics `json:"database,omitempty"`
}

type RuntimeMetrics struct {
	Goroutines     int    `json:"goroutines"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	GCCycles       uint32 `json:"gc_cycles"`
}

// DeviceMetrics counts registered devices.
type DeviceMetrics struct {
	Total      int            `json:"total"`
	ByProvider map[string]int `json:"by_provider"`
	ByStatus   map[string]int `json:"by_status"`
}

// DatabaseMetrics is a subset of sql.DBStats.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
	WaitMillis      int64 `json:"wait_ms"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	devices, err := s.deviceMetrics(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "collect metrics")
		return
	}

	out := SystemMetrics{
		Timestamp:     time.Now().UTC().Truncate(time.Second),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime) / time.Second),
		Runtime:       runtimeMetrics(),
		Devices:       devices,
	}
	if s.ingest != nil {
		stats := s.ingest.Stats()
		out.Ingest = &stats
	}
	if s.dbStats != nil {
		st := s.dbStats()
		out.Database = &DatabaseMetrics{
			OpenConnections: st.OpenConnections,
			InUse:           st.InUse,
			Idle:            st.Idle,
			WaitCount:       st.WaitCount,
			WaitMillis:      st.WaitDuration.Milliseconds(),
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func runtimeMetrics() RuntimeMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return RuntimeMetrics{
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
		SysBytes:       ms.Sys,
		GCCycles:       ms.NumGC,
	}
}

func (s *Server) deviceMetrics(ctx context.Context) (DeviceMetrics, error) {
	devices, err := s.fleet.ListDevices(ctx, device.Filter{})
	if err != nil {
		return DeviceMetrics{}, err
	}
	m := DeviceMetrics{
		Total:      len(devices),
		ByProvider: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for _, d := range devices {
		m.ByProvider[string(d.Provider)]++
		m.ByStatus[string(d.Status)]++
	}
	return m, nil
}
