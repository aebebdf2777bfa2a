package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

const (
	pgUniqueViolation = "23505"

	// sqliteDriver is go-sqlite3 with unicodeUpper registered on every
	// connection. The built-in UPPER only folds ASCII.
	sqliteDriver = "sqlite3_shareit"
	unicodeUpper = "utf8_upper"
)

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(unicodeUpper, strings.ToUpper, true)
		},
	})
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

// DB implements domain.Repository on top of SQLite or PostgreSQL.
type DB struct {
	db     *sqlx.DB
	driver string
	path   string
}

// NewDB opens the configured store and applies pending migrations.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = sqlx.Open("pgx", cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxConnections)
	default:
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = sqlx.Open(sqliteDriver, cfg.Path+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &DB{db: db, driver: cfg.Driver, path: cfg.Path}
	if err := store.migrate(ctx, logger); err != nil {
		db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info().Str("driver", cfg.Driver).Msg("database initialized")
	}
	return store, nil
}

// NewFromSQL wraps an already opened handle. driverName selects the
// placeholder style ("sqlite3" or "pgx"); migrations are not applied.
func NewFromSQL(db *sql.DB, driverName string) *DB {
	driver := config.DriverSQLite
	if driverName == "pgx" {
		driver = config.DriverPostgres
	}
	return &DB{db: sqlx.NewDb(db, driverName), driver: driver}
}

func (db *DB) migrate(ctx context.Context, logger *zerolog.Logger) error {
	dialect, dir := goose.DialectSQLite3, "migrations/sqlite"
	if db.driver == config.DriverPostgres {
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db.db.DB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if logger != nil {
		for _, r := range results {
			logger.Debug().Str("migration", r.Source.Path).Dur("took", r.Duration).Msg("migration applied")
		}
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Driver reports the configured driver name.
func (db *DB) Driver() string {
	return db.driver
}

// rebind converts ? placeholders to the driver's native form.
func (db *DB) rebind(query string) string {
	return db.db.Rebind(query)
}

func (db *DB) insertReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := db.db.QueryRowxContext(ctx, db.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *DB) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int
	if err := db.db.GetContext(ctx, &n, db.rebind(query), args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// upperFunc names the SQL function that folds a column the same way
// likePattern folds the search text.
func (db *DB) upperFunc() string {
	if db.driver == config.DriverPostgres {
		return "UPPER"
	}
	return unicodeUpper
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToUpper(r.Replace(text)) + "%"
}

// pageClause renders LIMIT/OFFSET; the zero Page selects everything.
func pageClause(page domain.Page) string {
	if page.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset)
}
