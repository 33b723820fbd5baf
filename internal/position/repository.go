package position

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/database"
)

// Repository stores and retrieves position reports.
//
// Implementations must be thread-safe and keep timestamps in UTC.
type Repository interface {
	// Insert stores report and fills in its ID and CreatedAt.
	// Returns ErrDeviceNotFound if report.DeviceID is not registered.
	Insert(ctx context.Context, report *Report) error

	// Latest returns the newest report for a device, or ErrNoReports.
	Latest(ctx context.Context, deviceID int64) (*Report, error)

	// History returns a device's reports inside window, newest first.
	// An empty slice is returned when there are none.
	History(ctx context.Context, deviceID int64, window Window) ([]Report, error)

	// List returns every report ordered by id.
	List(ctx context.Context) ([]Report, error)

	// Delete removes one report, or returns ErrPositionNotFound.
	Delete(ctx context.Context, id int64) error
}

const selectReportColumns = `
	SELECT id, device_id, latitude, longitude, speed, heading,
		reported_at, location_label, engine_state, created_at
	FROM positions`

// newestFirst is the ordering shared by Latest and History.
const newestFirst = " ORDER BY reported_at DESC, id DESC"

// SQLiteRepository implements Repository using the positions table.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new SQLite position repository.
//
// Parameters:
//   - db: Open, migrated SQLite connection with foreign keys enabled
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Insert stores a report. The existence of the device is checked by the
// foreign key in the same statement.
func (r *SQLiteRepository) Insert(ctx context.Context, report *Report) error {
	now := r.now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO positions (
			device_id, latitude, longitude, speed, heading,
			reported_at, location_label, engine_state, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.DeviceID,
		report.Latitude,
		report.Longitude,
		report.Speed,
		report.Heading,
		database.FormatTime(report.ReportedAt),
		report.LocationLabel,
		string(report.EngineState),
		database.FormatTime(now),
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("inserting position: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading position id: %w", err)
	}

	report.ID = id
	report.ReportedAt = report.ReportedAt.UTC()
	report.CreatedAt = now
	return nil
}

// Latest returns the report with the greatest reported_at for deviceID.
func (r *SQLiteRepository) Latest(ctx context.Context, deviceID int64) (*Report, error) {
	row := r.db.QueryRowContext(ctx,
		selectReportColumns+" WHERE device_id = ?"+newestFirst+" LIMIT 1",
		deviceID,
	)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoReports
		}
		return nil, fmt.Errorf("querying latest position: %w", err)
	}
	return report, nil
}

// History returns reports for deviceID newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - deviceID: Device whose reports are returned
//   - window: Optional inclusive time bounds and row limit
//
// Returns:
//   - []Report: Reports ordered by reported_at DESC, id DESC (may be empty)
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteRepository) History(ctx context.Context, deviceID int64, window Window) ([]Report, error) {
	var (
		where = []string{"device_id = ?"}
		args  = []any{deviceID}
	)
	if window.From != nil {
		where = append(where, "reported_at >= ?")
		args = append(args, database.FormatTime(*window.From))
	}
	if window.To != nil {
		where = append(where, "reported_at <= ?")
		args = append(args, database.FormatTime(*window.To))
	}

	query := selectReportColumns + " WHERE " + strings.Join(where, " AND ") + newestFirst
	if window.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, window.Limit)
	}

	return r.queryReports(ctx, "position history", query, args...)
}

// List returns every stored report ordered by id.
func (r *SQLiteRepository) List(ctx context.Context) ([]Report, error) {
	return r.queryReports(ctx, "positions", selectReportColumns+" ORDER BY id")
}

// Delete removes a single report. The owning device is not touched.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM positions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting position: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPositionNotFound
	}
	return nil
}

func (r *SQLiteRepository) queryReports(ctx context.Context, what, query string, args ...any) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}
	return reports, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(scanner rowScanner) (*Report, error) {
	var (
		rep                   Report
		engineState           string
		reportedAt, createdAt string
	)
	err := scanner.Scan(
		&rep.ID,
		&rep.DeviceID,
		&rep.Latitude,
		&rep.Longitude,
		&rep.Speed,
		&rep.Heading,
		&reportedAt,
		&rep.LocationLabel,
		&engineState,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	rep.EngineState = EngineState(engineState)

	if rep.ReportedAt, err = database.ParseTime(reportedAt); err != nil {
		return nil, err
	}
	if rep.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return &rep, nil
}
