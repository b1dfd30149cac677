package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/pixelvide/postcli/pkg/config"
)

const (
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Dialect maps a DB_CONNECTION value onto a database/sql driver name
func Dialect(connection string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(connection)) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "pgsql", "postgres", "postgresql", "pq":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database connection: %s", connection)
	}
}

// DSN builds the driver name and data source name for cfg
func DSN(cfg config.DatabaseConfig) (string, string, error) {
	driverName, err := Dialect(cfg.Connection)
	if err != nil {
		return "", "", err
	}

	switch driverName {
	case MySQL:
		port := cfg.Port
		if port == "" {
			port = "3306"
		}
		return driverName, fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
			cfg.Username, cfg.Password, cfg.Host, port, cfg.Database), nil
	default:
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return driverName, fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, port, cfg.Username, cfg.Password, cfg.Database), nil
	}
}

// Factory creates database connections
type Factory struct{}

// NewFactory creates a new Factory
func NewFactory() *Factory {
	return &Factory{}
}

// Connect opens and pings a connection based on configuration
func (f *Factory) Connect(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driverName, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// A CLI run needs a handful of connections at most
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
