package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quote-service/internal/quote/model"
)

// Cached memoizes another extractor in Redis, keyed by the request text.
// Redis errors are logged and bypass the cache.
type Cached struct {
	next   Extractor
	rdb    redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCached(next Extractor, rdb redis.Cmdable, ttl time.Duration, logger zerolog.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return "quote:extract:" + hex.EncodeToString(sum[:])
}

func (c *Cached) Extract(ctx context.Context, text string) ([]model.QueryTerm, error) {
	key := cacheKey(text)

	data, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var terms []model.QueryTerm
		if jerr := json.Unmarshal([]byte(data), &terms); jerr == nil {
			return terms, nil
		}
		c.logger.Warn().Str("key", key).Msg("corrupt extraction cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Msg("extraction cache get")
	}

	terms, err := c.next.Extract(ctx, text)
	if err != nil || len(terms) == 0 {
		return terms, err
	}
	if b, jerr := json.Marshal(terms); jerr == nil {
		if serr := c.rdb.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			c.logger.Warn().Err(serr).Msg("extraction cache set")
		}
	}
	return terms, nil
}
