// Package database provides the SQLite store behind the device registry and
// the position log.
//
// It manages:
//   - The connection (WAL mode, busy timeout, foreign keys enforced)
//   - Embedded schema migrations tracked in schema_migrations
//   - Transaction helpers and constraint-violation classification
//   - The fixed-width UTC text format used for every stored timestamp
//
// Foreign keys are switched on for every connection. The positions table
// relies on them twice: an insert against a missing device fails atomically,
// and deleting a device cascades to its positions.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.{up,down}.sql and
// are registered by importing the migrations package for its side effect.
package database
