package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"studysmart/internal/log"
)

// SchemaVersion is the version the embedded migrations bring a database to.
const SchemaVersion uint = 2

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the database at dbPath to SchemaVersion. A database
// left dirty by a failed migration is deleted and rebuilt only when
// destructiveFallback is set; its rows are lost.
func RunMigrations(dbPath string, destructiveFallback bool) error {
	err := withMigrator(dbPath, func(m *migrate.Migrate) error {
		return m.Up()
	})
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	var dirty migrate.ErrDirty
	if !errors.As(err, &dirty) || !destructiveFallback {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Component(nil, log.ComponentStorage).Warn("Schema is dirty, rebuilding from scratch",
		"path", dbPath,
		"dirty_version", dirty.Version)

	if err := removeDatabase(dbPath); err != nil {
		return fmt.Errorf("drop dirty schema: %w", err)
	}
	err = withMigrator(dbPath, func(m *migrate.Migrate) error { return m.Up() })
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rebuild schema: %w", err)
	}
	return nil
}

// AppliedVersion reports the schema version recorded in the database and
// whether it is dirty. A fresh database reports version 0.
func AppliedVersion(dbPath string) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := withMigrator(dbPath, func(m *migrate.Migrate) error {
		v, d, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		version, dirty = v, d
		return err
	})
	return version, dirty, err
}

func removeDatabase(dbPath string) error {
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func migrateTo(dbPath string, version uint) error {
	err := withMigrator(dbPath, func(m *migrate.Migrate) error {
		return m.Migrate(version)
	})
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// withMigrator runs fn on a dedicated connection so migrations never share
// the repository's pool.
func withMigrator(dbPath string, fn func(m *migrate.Migrate) error) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	return fn(m)
}
