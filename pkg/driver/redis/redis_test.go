package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvide/postcli/pkg/config"
	"github.com/pixelvide/postcli/pkg/sendlog"
)

func TestMirror_Push(t *testing.T) {
	s := miniredis.RunT(t)

	mirror := NewMirror(config.RedisConfig{Addr: s.Addr()})
	defer mirror.Close()

	ctx := context.Background()
	require.NoError(t, mirror.Push(ctx, sendlog.Row{RunID: "run-1", Email: "a@x.com", Status: sendlog.StatusSent}))
	require.NoError(t, mirror.Push(ctx, sendlog.Row{RunID: "run-1", Email: "b@x.com", Status: sendlog.StatusFailed, Error: "550 nope"}))

	items, err := s.List(DefaultList)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var second map[string]string
	require.NoError(t, json.Unmarshal([]byte(items[1]), &second))
	assert.Equal(t, "b@x.com", second["email"])
	assert.Equal(t, "failed", second["status"])
	assert.Equal(t, "550 nope", second["error"])
	assert.Len(t, second, len(sendlog.Columns))
}

func TestMirror_CustomListAndError(t *testing.T) {
	s := miniredis.RunT(t)

	mirror := NewMirror(config.RedisConfig{Addr: s.Addr(), List: "campaign:rows"})
	defer mirror.Close()

	require.NoError(t, mirror.Push(context.Background(), sendlog.Row{Email: "a@x.com"}))
	items, err := s.List("campaign:rows")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	s.Close()
	assert.Error(t, mirror.Push(context.Background(), sendlog.Row{Email: "b@x.com"}))
}

func TestMirror_Ping(t *testing.T) {
	s := miniredis.RunT(t)

	mirror := NewMirror(config.RedisConfig{Addr: s.Addr()})
	defer mirror.Close()
	require.NoError(t, mirror.Ping(context.Background()))

	addr := s.Addr()
	s.Close()
	err := mirror.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unreachable at "+addr)
}
