package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvide/postcli/pkg/config"
)

func TestDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"mysql", MySQL, false},
		{"MariaDB", MySQL, false},
		{"pgsql", Postgres, false},
		{" postgres ", Postgres, false},
		{"sqlite", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Dialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.local",
		Database: "postcli",
		Username: "app",
		Password: "pw",
	}

	cfg.Connection = "mysql"
	driver, dsn, err := DSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, MySQL, driver)
	assert.Equal(t, "app:pw@tcp(db.local:3306)/postcli?parseTime=true&loc=UTC", dsn)

	cfg.Connection = "pgsql"
	cfg.Port = "6543"
	driver, dsn, err = DSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, Postgres, driver)
	assert.Equal(t, "host=db.local port=6543 user=app password=pw dbname=postcli sslmode=disable", dsn)
}

func TestConnect_UnsupportedConnection(t *testing.T) {
	_, err := NewFactory().Connect(context.Background(), config.DatabaseConfig{Connection: "oracle"})
	assert.EqualError(t, err, "unsupported database connection: oracle")
}
