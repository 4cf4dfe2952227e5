package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"accountapp/db/migrations"
)

const driverName = "sqlite3"

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	// Path is handed to go-sqlite3 as the DSN, query parameters included.
	Path       string
	LogQueries bool
}

// NewDB migrates the database at opts.Path and returns a traced pool over it.
func NewDB(opts Options) (*DB, error) {
	migrationDB, err := sql.Open(driverName, opts.Path)

	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := RunMigrations(migrationDB); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open(driverName, opts.Path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("accountapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("sqlite: opening traced database: %w", err)
	}

	if opts.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sqlite").Logger()
		traced := sqlDB
		sqlDB = sqldblogger.OpenDriver(opts.Path, traced.Driver(), zerologadapter.New(logger))

		// the logging pool opens its own connections through the traced driver
		if err := traced.Close(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("sqlite: closing traced pool: %w", err)
		}
	}

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	return Wrap(sqlDB), nil
}

// Wrap attaches the sqlite query builder to an already open pool.
func Wrap(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

// RunMigrations applies the embedded sqlite schema. The migrate instance is
// not closed since that would close db as well.
func RunMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("sqlite: creating migration driver: %w", err)
	}

	source, err := iofs.New(migrations.SQLite, "sqlite")

	if err != nil {
		return fmt.Errorf("sqlite: reading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("sqlite: creating migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return nil
}
