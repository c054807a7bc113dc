// Package repomanager wires the database connection, migrations, and the
// per-aggregate repositories together.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/storyatlas/storyatlas/internal/server/repositories/entries"
	"github.com/storyatlas/storyatlas/internal/server/repositories/pins"
)

// RepositoryManager owns the DB handle and hands out repositories.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Close() error
	Entries() entries.Repository
	Pins() pins.Repository
}
