package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/database"
)

// Repository defines the persistence operations behind the Registry.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without a database.
type Repository interface {
	// GetByID retrieves a device by its identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id int64) (*Device, error)

	// List retrieves the devices matching filter, ordered by id.
	List(ctx context.Context, filter Filter) ([]Device, error)

	// Create inserts a new device and fills in its ID and timestamps.
	// Returns ErrExternalCodeExists if the external code is taken.
	Create(ctx context.Context, device *Device) error

	// Update applies patch to the device atomically and returns the result.
	// Returns ErrDeviceNotFound or ErrExternalCodeExists.
	Update(ctx context.Context, id int64, patch Patch) (*Device, error)

	// Delete removes a device and its position reports atomically and
	// returns how many reports went with it.
	// Returns ErrDeviceNotFound if the device does not exist.
	Delete(ctx context.Context, id int64) (int64, error)

	// Exists reports whether a device with id is stored.
	Exists(ctx context.Context, id int64) (bool, error)
}

const selectDeviceColumns = `
	SELECT id, external_code, vehicle_label, vehicle_kind, provider, status,
		last_reported_at, created_at, updated_at
	FROM devices`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open, migrated SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// GetByID retrieves a device by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Device, error) {
	device, err := scanDevice(r.db.QueryRowContext(ctx, selectDeviceColumns+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return device, nil
}

// List retrieves the devices matching filter, ordered by id.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]Device, error) {
	query := selectDeviceColumns
	var args []any
	if filter.Provider != nil {
		query += " WHERE provider = ?"
		args = append(args, string(*filter.Provider))
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	devices := make([]Device, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// Create inserts a new device and fills in its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, device *Device) error {
	now := r.now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (
			external_code, vehicle_label, vehicle_kind, provider, status,
			last_reported_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		device.ExternalCode,
		device.VehicleLabel,
		device.VehicleKind,
		string(device.Provider),
		string(device.Status),
		database.FormatTime(device.LastReportedAt),
		database.FormatTime(now),
		database.FormatTime(now),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrExternalCodeExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading device id: %w", err)
	}

	device.ID = id
	device.LastReportedAt = device.LastReportedAt.UTC()
	device.CreatedAt = now
	device.UpdatedAt = now
	return nil
}

// Update loads the device, applies patch and writes it back in one
// transaction.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch Patch) (*Device, error) {
	var updated *Device
	err := database.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := scanDevice(tx.QueryRowContext(ctx, selectDeviceColumns+" WHERE id = ?", id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDeviceNotFound
			}
			return fmt.Errorf("loading device for update: %w", err)
		}

		patch.Apply(current)
		current.UpdatedAt = r.now().UTC()

		_, err = tx.ExecContext(ctx, `
			UPDATE devices SET
				external_code = ?, vehicle_label = ?, vehicle_kind = ?,
				provider = ?, status = ?, last_reported_at = ?, updated_at = ?
			WHERE id = ?`,
			current.ExternalCode,
			current.VehicleLabel,
			current.VehicleKind,
			string(current.Provider),
			string(current.Status),
			database.FormatTime(current.LastReportedAt),
			database.FormatTime(current.UpdatedAt),
			id,
		)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrExternalCodeExists
			}
			return fmt.Errorf("updating device: %w", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a device. The foreign key cascade removes its positions in
// the same transaction.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := database.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM positions WHERE device_id = ?", id,
		).Scan(&removed); err != nil {
			return fmt.Errorf("counting device positions: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting device: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrDeviceNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Exists reports whether a device with id is stored.
func (r *SQLiteRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM devices WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking device existence: %w", err)
	}
	return true, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(scanner rowScanner) (*Device, error) {
	var (
		d                                    Device
		provider, status                     string
		lastReportedAt, createdAt, updatedAt string
	)
	err := scanner.Scan(
		&d.ID,
		&d.ExternalCode,
		&d.VehicleLabel,
		&d.VehicleKind,
		&provider,
		&status,
		&lastReportedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Provider = Provider(provider)
	d.Status = Status(status)

	if d.LastReportedAt, err = database.ParseTime(lastReportedAt); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
