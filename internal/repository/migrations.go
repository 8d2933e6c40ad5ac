package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationLogger receives progress lines from the migrator.
type MigrationLogger interface {
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// migrateLog adapts MigrationLogger to migrate.Logger.
type migrateLog struct {
	log MigrationLogger
}

func (l migrateLog) Printf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimRight(format, "\n"), v...)
}

func (l migrateLog) Verbose() bool { return false }

// RunMigrations applies every pending migration found under dir in fsys
// and returns the resulting schema version. A dirty schema is refused
// before anything runs.
func RunMigrations(db *sql.DB, fsys fs.FS, dir string, log MigrationLogger) (uint, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("could not create database driver: %w", err)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("could not open migrations %q: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("could not create migrate instance: %w", err)
	}
	if log != nil {
		m.Log = migrateLog{log: log}
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return 0, fmt.Errorf("could not read schema version: %w", err)
	case dirty:
		return version, fmt.Errorf("schema version %d is dirty, fix it manually before restarting", version)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("could not run up migrations: %w", err)
	}

	version, _, err = m.Version()
	if err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}
	if log != nil {
		log.Info("schema at version %d", version)
	}
	return version, nil
}
