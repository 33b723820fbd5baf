package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/config"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/logging"
	"github.com/nerrad567/fleet-gps-core/internal/ingest"
	"github.com/nerrad567/fleet-gps-core/internal/position"
)

// defaultShutdownGrace bounds Close when Deps.ShutdownGrace is zero.
const defaultShutdownGrace = 10 * time.Second

// FleetService is the set of fleet operations the handlers call.
// Implemented by *fleet.Service.
type FleetService interface {
	ListDevices(ctx context.Context, filter device.Filter) ([]device.Device, error)
	GetDevice(ctx context.Context, id int64) (*device.Device, error)
	CreateDevice(ctx context.Context, in device.Input) (*device.Device, error)
	UpdateDevice(ctx context.Context, id int64, in device.Input) (*device.Device, error)
	DeleteDevice(ctx context.Context, id int64) (device.DeleteResult, error)

	ListPositions(ctx context.Context) ([]position.Report, error)
	GetLatestPosition(ctx context.Context, deviceID int64) (*position.Report, error)
	GetPositionHistory(ctx context.Context, deviceID int64, window position.Window) ([]position.Report, error)
	RecordPosition(ctx context.Context, in position.Input) (*position.Report, error)
	DeletePosition(ctx context.Context, id int64) error
}

// AuditReader lists audit entries.
type AuditReader interface {
	List(ctx context.Context, filter audit.Filter) (*audit.ListResult, error)
}

// HealthChecker is implemented by every infrastructure client.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// IngestStats exposes MQTT ingest counters.
type IngestStats interface {
	Stats() ingest.Stats
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config config.APIConfig
	Logger *logging.Logger
	Fleet  FleetService
	Audit  AuditReader // optional

	// Database is required for /health. Optional components are reported
	// but do not fail the check.
	Database HealthChecker
	Optional map[string]HealthChecker

	DBStats func() sql.DBStats // optional, for /metrics
	Ingest  IngestStats        // optional, for /metrics
	Version string

	// ShutdownGrace is how long Close waits for in-flight requests.
	ShutdownGrace time.Duration
}

// Server is the HTTP API server.
//
// It is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	fleet     FleetService
	audit     AuditReader
	database  HealthChecker
	optional  map[string]HealthChecker
	dbStats   func() sql.DBStats
	ingest    IngestStats
	version   string
	grace     time.Duration
	startTime time.Time
	server    *http.Server
}

// New checks the required dependencies and returns an unstarted server.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Fleet == nil {
		return nil, fmt.Errorf("fleet service is required")
	}
	if deps.Database == nil {
		return nil, fmt.Errorf("database health checker is required")
	}

	grace := deps.ShutdownGrace
	if grace <= 0 {
		grace = defaultShutdownGrace
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		fleet:     deps.Fleet,
		audit:     deps.Audit,
		database:  deps.Database,
		optional:  deps.Optional,
		dbStats:   deps.DBStats,
		ingest:    deps.Ingest,
		version:   deps.Version,
		grace:     grace,
		startTime: time.Now(),
	}, nil
}

// Handler returns the routed HTTP handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	if s.server != nil {
		return fmt.Errorf("api server already started")
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.Timeouts.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.Timeouts.ReadTimeout(),
		WriteTimeout:      s.cfg.Timeouts.WriteTimeout(),
		IdleTimeout:       s.cfg.Timeouts.IdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close stops accepting connections and waits up to the shutdown grace for
// in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
