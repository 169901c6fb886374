package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// MigratorConfig describes where migrations live and where their state is recorded.
type MigratorConfig struct {
	// FS holds the migration files, named "<version>_<name>.sql".
	FS fs.FS
	// Dir is the directory inside FS that holds the files.
	Dir string
	// Table records applied versions.
	Table string
	// LockKey serializes concurrent migrators through a Postgres advisory lock.
	LockKey int64
}

// Migration is a single versioned SQL script.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator applies pending migrations in version order.
type Migrator struct {
	conn *pgx.Conn
	cfg  MigratorConfig
}

// NewMigrator creates a migrator that runs on a single connection.
func NewMigrator(conn *pgx.Conn, cfg MigratorConfig) *Migrator {
	if cfg.Table == "" {
		cfg.Table = "schema_migrations"
	}
	return &Migrator{conn: conn, cfg: cfg}
}

// LoadMigrations reads and orders the migration files of cfg.
func LoadMigrations(cfg MigratorConfig) ([]Migration, error) {
	entries, err := fs.ReadDir(cfg.FS, cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var migrations []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, name, ok := strings.Cut(strings.TrimSuffix(entry.Name(), ".sql"), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected <version>_<name>.sql", entry.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version: %w", entry.Name(), err)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration %s: version %d already used by %s", entry.Name(), version, other)
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(cfg.FS, path.Join(cfg.Dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Migrate applies every migration that has not been recorded yet.
func (m *Migrator) Migrate(ctx context.Context) error {
	migrations, err := LoadMigrations(m.cfg)
	if err != nil {
		return err
	}

	if m.cfg.LockKey != 0 {
		if _, err := m.conn.Exec(ctx, "SELECT pg_advisory_lock($1)", m.cfg.LockKey); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		defer func() {
			_, _ = m.conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", m.cfg.LockKey)
		}()
	}

	table := pgx.Identifier{m.cfg.Table}.Sanitize()
	createTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, table)
	if _, err := m.conn.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := m.conn.Query(ctx, fmt.Sprintf("SELECT version FROM %s", table))
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}
		if err := m.apply(ctx, table, mig); err != nil {
			return err
		}
		log.Printf("Applied migration %03d_%s", mig.Version, mig.Name)
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, table string, mig Migration) error {
	tx, err := m.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migration %d: failed to begin transaction: %w", mig.Version, err)
	}
	defer func() {
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Printf("failed to rollback migration %d: %v", mig.Version, rbErr)
		}
	}()

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", table), mig.Version, mig.Name); err != nil {
		return fmt.Errorf("migration %d: failed to record version: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("migration %d: failed to commit: %w", mig.Version, err)
	}
	return nil
}
