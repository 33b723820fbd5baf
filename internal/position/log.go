package position

import (
	"context"
)

// Logger defines the logging interface used by the Log.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Log validates reports and keeps them in a Repository.
// It holds no state between calls.
type Log struct {
	repo   Repository
	logger Logger
}

// NewLog creates a position log over repo.
func NewLog(repo Repository) *Log {
	return &Log{repo: repo, logger: noopLogger{}}
}

// SetLogger sets the logger for the log.
func (l *Log) SetLogger(logger Logger) {
	l.logger = logger
}

// Append validates in and stores it as a new report.
//
// Returns *validation.Error for invalid input and ErrDeviceNotFound when
// device_id does not reference a registered device.
func (l *Log) Append(ctx context.Context, in Input) (*Report, error) {
	draft, err := ParseCreate(in)
	if err != nil {
		return nil, err
	}

	report := draft.Report()
	if err := l.repo.Insert(ctx, report); err != nil {
		return nil, err
	}

	l.logger.Debug("position recorded",
		"position_id", report.ID,
		"device_id", report.DeviceID,
		"reported_at", report.ReportedAt,
	)
	return report, nil
}

// LatestFor returns the most recent report for deviceID, or ErrNoReports.
// Whether the device exists is not checked here.
func (l *Log) LatestFor(ctx context.Context, deviceID int64) (*Report, error) {
	return l.repo.Latest(ctx, deviceID)
}

// HistoryFor returns the reports for deviceID inside window, newest first.
// A device without reports, registered or not, yields an empty slice.
func (l *Log) HistoryFor(ctx context.Context, deviceID int64, window Window) ([]Report, error) {
	return l.repo.History(ctx, deviceID, window)
}

// ListAll returns every report ordered by id.
func (l *Log) ListAll(ctx context.Context) ([]Report, error) {
	return l.repo.List(ctx)
}

// Delete removes report id, or returns ErrPositionNotFound.
func (l *Log) Delete(ctx context.Context, id int64) error {
	if err := l.repo.Delete(ctx, id); err != nil {
		return err
	}
	l.logger.Info("position deleted", "position_id", id)
	return nil
}
