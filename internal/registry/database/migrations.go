package database

import (
	"embed"

	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockKey is the advisory lock held while migrations run ("abmg").
const migrationLockKey int64 = 0x61626d67

// DefaultMigratorConfig returns the migrator configuration for the bundled schema.
func DefaultMigratorConfig() database.MigratorConfig {
	return database.MigratorConfig{
		FS:      migrationFiles,
		Dir:     "migrations",
		Table:   "schema_migrations",
		LockKey: migrationLockKey,
	}
}

// compile-time check
var _ database.Database = (*PostgreSQL)(nil)
