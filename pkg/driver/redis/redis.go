package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pixelvide/postcli/pkg/config"
	"github.com/pixelvide/postcli/pkg/sendlog"
)

// DefaultList is the key rows are pushed to when REDIS_LIST is empty
const DefaultList = "postcli:sent_log"

// PingTimeout bounds the reachability check done before a run starts
const PingTimeout = 3 * time.Second

// Mirror appends send log rows as JSON to a Redis list
type Mirror struct {
	Client *goredis.Client
	list   string
}

// NewClient creates a go-redis client from configuration
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: PingTimeout,
		MaxRetries:  1,
	})
}

// Ping fails fast when the server cannot be reached
func Ping(ctx context.Context, client *goredis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable at %s: %w", client.Options().Addr, err)
	}
	return nil
}

// NewMirror creates a Redis mirror
func NewMirror(cfg config.RedisConfig) *Mirror {
	list := cfg.List
	if list == "" {
		list = DefaultList
	}
	return &Mirror{Client: NewClient(cfg), list: list}
}

// Ping checks the mirror's connection
func (m *Mirror) Ping(ctx context.Context) error {
	return Ping(ctx, m.Client)
}

// Push RPUSHes the row onto the list
func (m *Mirror) Push(ctx context.Context, row sendlog.Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return m.Client.RPush(ctx, m.list, body).Err()
}

// Close releases the client
func (m *Mirror) Close() error {
	return m.Client.Close()
}
