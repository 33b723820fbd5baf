// Package migrations holds the schema as timestamped .sql pairs.
// A blank import hands them to database.Migrate.
package migrations

import (
	"embed"

	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS, database.MigrationsDir = files, "."
}
