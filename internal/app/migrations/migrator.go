package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/campusleave/leavedesk/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migrator applies the ordered .sql files of a directory, each exactly once
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(pool *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     pool,
		logger: logger,
	}
}

// Migration is one versioned SQL file
type Migration struct {
	Version string
	Path    string
}

// versionOf extracts the version prefix: "001_init.sql" => "001"
func versionOf(filename string) string {
	return strings.SplitN(filename, "_", 2)[0]
}

// Discover lists the .sql files in dirPath ordered by name. Two files
// sharing a version prefix are rejected.
func Discover(dirPath string) ([]Migration, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	out := make([]Migration, 0, len(names))
	for _, name := range names {
		version := versionOf(name)
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %s", prev, name, version)
		}
		seen[version] = name
		out = append(out, Migration{Version: version, Path: filepath.Join(dirPath, name)})
	}
	return out, nil
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// apply runs one migration and records it in the same transaction
func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	applied, err := m.isMigrationApplied(ctx, mig.Version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("version", mig.Version).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(mig.Path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = db.RunInTx(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", mig.Version, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("version", mig.Version).Str("file", filepath.Base(mig.Path)).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory applies all pending migrations in dirPath in order
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	migrations, err := Discover(dirPath)
	if err != nil {
		return err
	}

	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	for _, mig := range migrations {
		if err := m.apply(ctx, mig); err != nil {
			return err
		}
	}
	return nil
}
