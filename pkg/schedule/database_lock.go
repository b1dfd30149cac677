package schedule

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pixelvide/postcli/pkg/database"
)

// DatabaseLockProvider implements LockProvider using SQL database locks.
// Locks are tied to a session, so the provider pins one connection per held lock.
type DatabaseLockProvider struct {
	db     *sql.DB
	driver string // "mysql" or "postgres"
	conns  map[string]*sql.Conn
}

// NewDatabaseLockProvider creates a new database lock provider
func NewDatabaseLockProvider(db *sql.DB, connection string) (*DatabaseLockProvider, error) {
	driver, err := database.Dialect(connection)
	if err != nil {
		return nil, err
	}
	return &DatabaseLockProvider{
		db:     db,
		driver: driver,
		conns:  make(map[string]*sql.Conn),
	}, nil
}

// GetLock attempts to acquire a lock without waiting
func (d *DatabaseLockProvider) GetLock(ctx context.Context, name string, duration time.Duration) (bool, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return false, err
	}

	var acquired bool
	if d.driver == database.Postgres {
		acquired, err = d.getPostgresLock(ctx, conn, name)
	} else {
		acquired, err = d.getMySQLLock(ctx, conn, name)
	}
	if err != nil || !acquired {
		_ = conn.Close()
		return false, err
	}

	d.conns[name] = conn
	return true, nil
}

// ReleaseLock releases the lock and returns its connection to the pool
func (d *DatabaseLockProvider) ReleaseLock(ctx context.Context, name string) error {
	conn, ok := d.conns[name]
	if !ok {
		return nil
	}
	delete(d.conns, name)
	defer conn.Close()

	if d.driver == database.Postgres {
		var released bool
		return conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", advisoryKey(name)).Scan(&released)
	}
	var result sql.NullInt64
	return conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", mysqlLockName(name)).Scan(&result)
}

// GET_LOCK(str, 0) returns 1 if acquired, 0 if held elsewhere, NULL on error
func (d *DatabaseLockProvider) getMySQLLock(ctx context.Context, conn *sql.Conn, name string) (bool, error) {
	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", mysqlLockName(name)).Scan(&result); err != nil {
		return false, err
	}
	if !result.Valid {
		return false, fmt.Errorf("GET_LOCK returned NULL")
	}
	return result.Int64 == 1, nil
}

func (d *DatabaseLockProvider) getPostgresLock(ctx context.Context, conn *sql.Conn, name string) (bool, error) {
	var success bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", advisoryKey(name)).Scan(&success); err != nil {
		return false, err
	}
	return success, nil
}

// MySQL lock names are limited to 64 characters; campaign keys are longer
func mysqlLockName(name string) string {
	sum := sha256.Sum256([]byte(name))
	return "postcli:" + hex.EncodeToString(sum[:16])
}

// advisoryKey derives the bigint key pg_advisory_lock expects
func advisoryKey(name string) int64 {
	sum := sha256.Sum256([]byte(name))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
