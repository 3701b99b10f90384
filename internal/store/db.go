package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Store is the Entity Store. Every method runs a single statement, so
// readers may observe a product whose category was just deleted.
type Store struct {
	DB     *sql.DB
	driver string
}

func NewStore(ctx context.Context, driver, dataSourceName string) (*Store, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		sqlDriver = "sqlite"
		if !strings.Contains(dataSourceName, "_pragma=") {
			sep := "?"
			if strings.Contains(dataSourceName, "?") {
				sep = "&"
			}
			dataSourceName += sep + "_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{DB: db, driver: driver}, nil
}

// NewWithDB wraps an already opened handle; used by tests with sqlmock.
func NewWithDB(db *sql.DB, driver string) *Store {
	return &Store{DB: db, driver: driver}
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate applies the embedded migrations for the store's dialect.
// Existing tables created by earlier deployments are adopted as-is.
func (s *Store) Migrate(ctx context.Context) error {
	dialect := goose.DialectSQLite3
	dir := "migrations/sqlite"
	if s.driver == DriverPostgres {
		dialect = goose.DialectPostgres
		dir = "migrations/postgres"
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, s.DB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("Applied migration", "file", r.Source.Path, "duration", r.Duration)
	}
	return nil
}
