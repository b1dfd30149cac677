package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pixelvide/postcli/pkg/config"
	"github.com/pixelvide/postcli/pkg/database"
	"github.com/pixelvide/postcli/pkg/sendlog"
)

// Mirror copies send log rows into a SQL table with one column per log field.
//
//	CREATE TABLE sent_log (
//		timestamp VARCHAR(32), run_id VARCHAR(64), campaign_key TEXT, email VARCHAR(320),
//		name VARCHAR(255), company VARCHAR(255), template VARCHAR(255), role VARCHAR(32),
//		subject TEXT, status VARCHAR(16), error TEXT
//	);
type Mirror struct {
	db    *sql.DB
	table string

	mu     sync.RWMutex
	driver string // "mysql" or "postgres"
}

// NewMirror creates a database mirror on an open connection
func NewMirror(cfg config.DatabaseConfig, db *sql.DB) *Mirror {
	table := cfg.Table
	if table == "" {
		table = "sent_log"
	}

	driver, err := database.Dialect(cfg.Connection)
	if err != nil {
		driver = database.MySQL
	}

	return &Mirror{db: db, table: table, driver: driver}
}

// Push inserts the row
func (m *Mirror) Push(ctx context.Context, row sendlog.Row) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(sendlog.Columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.table, strings.Join(sendlog.Columns, ", "), placeholders)

	args := make([]any, 0, len(sendlog.Columns))
	for _, v := range row.Record() {
		args = append(args, v)
	}

	_, err := m.db.ExecContext(ctx, m.rebind(query), args...)
	if err != nil && m.detectPostgres(err) {
		_, err = m.db.ExecContext(ctx, m.rebind(query), args...)
	}
	return err
}

// detectPostgres switches to $n placeholders when a "?" query was rejected by lib/pq.
// It reports whether the statement is worth retrying.
func (m *Mirror) detectPostgres(err error) bool {
	if !strings.Contains(err.Error(), "pq: syntax error") {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.driver == database.Postgres {
		return false
	}
	m.driver = database.Postgres
	return true
}

func (m *Mirror) rebind(query string) string {
	m.mu.RLock()
	driver := m.driver
	m.mu.RUnlock()

	if driver != database.Postgres {
		return query
	}
	return Rebind(query)
}

// Rebind converts "?" placeholders into "$1", "$2", ...
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
