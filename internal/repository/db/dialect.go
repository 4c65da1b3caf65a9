package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
)

// DatabaseType names a supported engine / Moteur de base supporté
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
	PgX        DatabaseType = "pgx" // PostgreSQL through jackc/pgx stdlib
)

// ParseDatabaseType normalises aliases, empty means sqlite / Normalise les alias, vide signifie sqlite
func ParseDatabaseType(s string) DatabaseType {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case "", "sqlite", "sqlite3":
		return SQLite
	case "postgresql":
		return PostgreSQL
	default:
		return DatabaseType(t)
	}
}

// IsValid reports whether a dialect exists for the type
func (t DatabaseType) IsValid() bool {
	_, ok := dialects[t]
	return ok
}

// DatabaseConfig holds pool settings / Paramètres du pool de connexions
type DatabaseConfig struct {
	Type         DatabaseType
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// dialect is what the document store needs from one engine
type dialect struct {
	driver      string   // database/sql driver name
	migrateName string   // golang-migrate database name
	session     []string // run on one pooled connection, failures only warn
	migrator    func(*sql.DB) (database.Driver, error)
}

func postgresDialect(driver string) dialect {
	return dialect{
		driver:      driver,
		migrateName: "postgres",
		session:     []string{"SET TIME ZONE 'UTC'"},
		migrator: func(conn *sql.DB) (database.Driver, error) {
			return postgres.WithInstance(conn, &postgres.Config{})
		},
	}
}

var dialects = map[DatabaseType]dialect{
	SQLite: {
		driver:      "sqlite",
		migrateName: "sqlite3",
		session: []string{
			"PRAGMA journal_mode=WAL;",
			"PRAGMA synchronous=NORMAL;",
			"PRAGMA busy_timeout=5000;",
			"PRAGMA foreign_keys=ON;",
			"PRAGMA trusted_schema=OFF;",
		},
		migrator: func(conn *sql.DB) (database.Driver, error) {
			return sqlite.WithInstance(conn, &sqlite.Config{})
		},
	},
	MySQL: {
		driver:      "mysql",
		migrateName: "mysql",
		session:     []string{"SET SESSION sql_mode='TRADITIONAL,NO_AUTO_VALUE_ON_ZERO'"},
		migrator: func(conn *sql.DB) (database.Driver, error) {
			return mysql.WithInstance(conn, &mysql.Config{})
		},
	},
	PostgreSQL: postgresDialect("postgres"),
	PgX:        postgresDialect("pgx"),
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Open connects and tunes the pool for the configured engine / Ouvre et règle le pool
func Open(ctx context.Context, cfg DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	d, ok := dialects[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}

	conn, err := sql.Open(d.driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Type, err)
	}
	conn.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 25))
	conn.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 5))

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	for _, stmt := range d.session {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			logger.Warn("session statement failed", "type", cfg.Type, "stmt", stmt, "err", err)
		}
	}

	logger.Info("database connected", "type", cfg.Type, "driver", d.driver)
	return conn, nil
}

// MigrationDriver wraps an open pool for golang-migrate, returning the database name to register
func MigrationDriver(t DatabaseType, conn *sql.DB) (database.Driver, string, error) {
	d, ok := dialects[t]
	if !ok {
		return nil, "", fmt.Errorf("unsupported database type for migrations: %s", t)
	}
	drv, err := d.migrator(conn)
	if err != nil {
		return nil, "", fmt.Errorf("create %s migration driver: %w", t, err)
	}
	return drv, d.migrateName, nil
}
