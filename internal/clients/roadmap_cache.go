package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// RoadmapCache fronts the read-heavy public-id lookup with Redis. It is
// best-effort: a miss or a broken connection just falls through to Postgres.
type RoadmapCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRoadmapCache(log *logger.Logger) (*RoadmapCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RoadmapCache{
		log: log.With("client", "RoadmapCache"),
		rdb: rdb,
		ttl: 10 * time.Minute,
	}, nil
}

func cacheKey(publicID string) string {
	return "roadmap:public_id:" + publicID
}

// Get returns the cached roadmap, or nil on miss or any cache failure. Safe
// to call on a nil receiver so the system runs without Redis.
func (c *RoadmapCache) Get(ctx context.Context, publicID string) *types.Roadmap {
	if c == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(publicID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Roadmap cache read failed", "public_id", publicID, "error", err)
		}
		return nil
	}
	var roadmap types.Roadmap
	if err := json.Unmarshal(raw, &roadmap); err != nil {
		c.log.Warn("Roadmap cache entry corrupt, dropping", "public_id", publicID, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(publicID)).Err()
		return nil
	}
	return &roadmap
}

func (c *RoadmapCache) Set(ctx context.Context, roadmap *types.Roadmap) {
	if c == nil || roadmap == nil {
		return
	}
	raw, err := json.Marshal(roadmap)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(roadmap.PublicID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Roadmap cache write failed", "public_id", roadmap.PublicID, "error", err)
	}
}

// Invalidate drops the entry after a mutation (save, expiry changes).
func (c *RoadmapCache) Invalidate(ctx context.Context, publicID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey(publicID)).Err(); err != nil {
		c.log.Warn("Roadmap cache invalidation failed", "public_id", publicID, "error", err)
	}
}

func (c *RoadmapCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
