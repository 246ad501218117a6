package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/quote/model"
)

// memRedis implements the two commands Cached uses.
type memRedis struct {
	redis.Cmdable
	data   map[string]string
	getErr error
}

func (m *memRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func counting(calls *int) Extractor {
	return Func(func(_ context.Context, text string) ([]model.QueryTerm, error) {
		*calls++
		return []model.QueryTerm{{Text: text, Quantity: 1}}, nil
	})
}

func TestCached_HitAndMiss(t *testing.T) {
	rdb := &memRedis{data: map[string]string{}}
	calls := 0
	c := NewCached(counting(&calls), rdb, time.Hour, zerolog.Nop())

	for i := 0; i < 3; i++ {
		got, err := c.Extract(context.Background(), "pinça kelly")
		require.NoError(t, err)
		assert.Equal(t, []model.QueryTerm{{Text: "pinça kelly", Quantity: 1}}, got)
	}
	assert.Equal(t, 1, calls)
	assert.Contains(t, rdb.data, cacheKey("  pinça kelly "), "key ignores surrounding space")
}

func TestCached_RedisErrorBypasses(t *testing.T) {
	rdb := &memRedis{data: map[string]string{}, getErr: errors.New("connection refused")}
	calls := 0
	c := NewCached(counting(&calls), rdb, time.Hour, zerolog.Nop())

	_, err := c.Extract(context.Background(), "cuba")
	require.NoError(t, err)
	_, err = c.Extract(context.Background(), "cuba")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCached_CorruptEntryIsRecomputed(t *testing.T) {
	rdb := &memRedis{data: map[string]string{cacheKey("cuba"): "not json"}}
	calls := 0
	c := NewCached(counting(&calls), rdb, time.Hour, zerolog.Nop())

	got, err := c.Extract(context.Background(), "cuba")
	require.NoError(t, err)
	assert.Equal(t, "cuba", got[0].Text)
	assert.Equal(t, 1, calls)
}
