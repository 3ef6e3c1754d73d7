package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/penalty"
)

type memKV struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memKV) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func TestCache_RoundTrip(t *testing.T) {
	kv := newMemKV()
	c := New(kv, time.Hour)
	ctx := context.Background()

	_, hit, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, hit)

	want := penalty.SolveResponse{
		Status:         "converged",
		Classification: "minimum",
		Point:          map[string]string{"x": "300/301", "y": "300/301", "z": "300/301"},
		Weight:         "100",
	}
	require.NoError(t, c.Put(ctx, "abc", want))
	assert.Equal(t, time.Hour, kv.ttls["penalty:report:abc"])

	got, hit, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestCache_Errors(t *testing.T) {
	kv := newMemKV()
	c := New(kv, 0)
	ctx := context.Background()

	kv.data[Key("bad")] = "{not json"
	_, _, err := c.Get(ctx, "bad")
	require.Error(t, err)

	boom := errors.New("connection refused")
	kv.failGet = boom
	_, hit, err := c.Get(ctx, "abc")
	require.ErrorIs(t, err, boom)
	assert.False(t, hit)
}

func TestConnectRedis(t *testing.T) {
	client, err := ConnectRedis("redis://localhost:6379/3")
	require.NoError(t, err)
	assert.Equal(t, 3, client.Options().DB)
	require.NoError(t, client.Close())

	_, err = ConnectRedis("http://nope")
	require.Error(t, err)
}
