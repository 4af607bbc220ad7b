package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	// Register the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/store"
	"github.com/Davidnet/BookWise/internal/version"
)

type DB struct {
	*sql.DB
	writeLock sync.Mutex // writeLock serializes writers
}

// NewDB opens the SQLite database at dsn. Busy timeout and WAL journaling
// are appended unless the DSN already sets pragmas.
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("Database URL is required")
	}

	d, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") {
		// Every connection would open its own in-memory database.
		d.SetMaxOpenConns(1)
	}

	return &DB{DB: d}, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (d *DB) Close() error {
	return d.DB.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST_SCHEMA.sql"

// Migrate applies the latest schema to a fresh database, or the pending
// minor version migrations to an existing one.
func (d *DB) Migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()
	exist, err := d.CheckTableExists(ctx, "document")
	if err != nil {
		return errors.Wrap(err, "failed to check database table")
	}
	if !exist {
		log.Info("Apply latest schema", zap.String("version", currentVersion))
		if err := d.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		// Upsert the newest version to migration_history.
		if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
			Version: currentVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	migrationHistoryList, err := d.FindMigrationHistoryList(ctx, &store.FindMigrationHistory{})
	if err != nil {
		return errors.Wrap(err, "failed to find migration history list")
	}
	if len(migrationHistoryList) == 0 {
		if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
			Version: currentVersion,
		}); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	migrationHistoryVersionList := []string{}
	for _, migrationHistory := range migrationHistoryList {
		migrationHistoryVersionList = append(migrationHistoryVersionList, migrationHistory.Version)
	}
	sort.Sort(version.SortVersion(migrationHistoryVersionList))
	latestMigrationHistoryVersion := migrationHistoryVersionList[len(migrationHistoryVersionList)-1]

	if !version.IsVersionGreaterThan(version.GetSchemaVersion(currentVersion), latestMigrationHistoryVersion) {
		return nil
	}
	log.Info("Start migration",
		zap.String("from", latestMigrationHistoryVersion),
		zap.String("to", currentVersion))
	for _, minorVersion := range getMinorVersionList() {
		// Patches never change the schema.
		normalizedVersion := minorVersion + ".0"
		if version.IsVersionGreaterThan(normalizedVersion, latestMigrationHistoryVersion) && version.IsVersionGreaterOrEqualThan(currentVersion, normalizedVersion) {
			log.Info("Applying migration", zap.String("version", normalizedVersion))
			if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
				return errors.Wrap(err, "failed to apply minor version migration")
			}
		}
	}
	log.Info("End migration")
	return nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	stmt := string(buf)
	if err := d.execute(ctx, stmt); err != nil {
		return errors.Wrapf(err, "failed to apply latest schema: %s", stmt)
	}
	return nil
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("migration/%s/*.sql", minorVersion))
	if err != nil {
		return errors.Wrapf(err, "Failed to find migration files for version %s", minorVersion)
	}

	// The filename files are sorted by name, so that they are applied in order.
	// 10001_example.sql, 10002_example.sql, 10003_example.sql, ...
	slices.Sort(filenames)
	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "Failed to read migration file: %q", filename)
		}
		stmt := string(buf)
		if err := d.execute(ctx, stmt); err != nil {
			return errors.Wrapf(err, "Failed to apply migration: %s", stmt)
		}
	}

	version := minorVersion + ".0"
	if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
		Version: version,
	}); err != nil {
		return errors.Wrapf(err, "Failed to upsert migration history for version %s", version)
	}

	return nil
}

// execute runs a single SQL statement within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp is a regular expression for minor version directory.
var minorDirRegexp = regexp.MustCompile(`^migration/[0-9]+\.[0-9]+$`)

func getMinorVersionList() []string {
	minorVersionList := []string{}

	if err := fs.WalkDir(migrationFS, "migration", func(path string, file fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file.IsDir() && minorDirRegexp.MatchString(path) {
			minorVersionList = append(minorVersionList, file.Name())
		}

		return nil
	}); err != nil {
		panic(err)
	}

	sort.Sort(version.SortVersion(minorVersionList))

	return minorVersionList
}
