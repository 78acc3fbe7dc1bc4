package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is an in-process stand-in for the redis commands used by Store
type memKV struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) SetNX(ctx context.Context, key string, value interface{}, exp time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := m.data[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.data[key] = value.(string)
	m.ttls[key] = exp
	cmd.SetVal(true)
	return cmd
}

func (m *memKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *memKV) Set(ctx context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	m.data[key] = value.(string)
	m.ttls[key] = exp
	cmd.SetVal("OK")
	return cmd
}

func (m *memKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestStore_ReserveCompleteReplay(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewStore(kv, time.Hour)

	id, reserved, err := s.Reserve(ctx, 7, "abc")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Zero(t, id)
	assert.Equal(t, time.Hour, kv.ttls["order:request:7:abc"])

	id, reserved, err = s.Reserve(ctx, 7, "abc")
	require.NoError(t, err)
	assert.False(t, reserved, "in-flight key must not be reserved twice")
	assert.Zero(t, id)

	require.NoError(t, s.Complete(ctx, 7, "abc", 42))

	id, reserved, err = s.Reserve(ctx, 7, "abc")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, int64(42), id)
}

func TestStore_KeysAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), time.Minute)

	_, reserved, err := s.Reserve(ctx, 1, "same")
	require.NoError(t, err)
	require.True(t, reserved)

	_, reserved, err = s.Reserve(ctx, 2, "same")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestStore_Release(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemKV(), time.Minute)

	_, _, err := s.Reserve(ctx, 1, "k")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, 1, "k"))

	_, reserved, err := s.Reserve(ctx, 1, "k")
	require.NoError(t, err)
	assert.True(t, reserved)
}
