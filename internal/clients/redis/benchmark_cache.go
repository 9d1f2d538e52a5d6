package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

// BenchmarkCache is a read-through cache over the benchmark_stat table.
// Only competitor aggregates are cached; snapshots and outcomes are always
// read from the store so summaries see their own writes.
type BenchmarkCache interface {
	Get(ctx context.Context, userID, platform string) ([]*types.BenchmarkStat, bool)
	Set(ctx context.Context, userID, platform string, rows []*types.BenchmarkStat)
	Invalidate(ctx context.Context, userID, platform string)
}

type benchmarkCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewBenchmarkCache(log *logger.Logger) (BenchmarkCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	password := os.Getenv("REDIS_PASSWORD")

	dbNum := 0
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			dbNum = parsed
		}
	}

	ttl := 10 * time.Minute
	if v := strings.TrimSpace(os.Getenv("BENCHMARK_CACHE_TTL_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNum,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &benchmarkCache{
		log: log.With("service", "BenchmarkCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(userID, platform string) string {
	return fmt.Sprintf("benchmarks:%s:%s", userID, strings.ToLower(strings.TrimSpace(platform)))
}

func (c *benchmarkCache) Get(ctx context.Context, userID, platform string) ([]*types.BenchmarkStat, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID, platform)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("benchmark cache read failed", "error", err)
		}
		return nil, false
	}
	var rows []*types.BenchmarkStat
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warn("benchmark cache decode failed", "error", err)
		return nil, false
	}
	return rows, true
}

func (c *benchmarkCache) Set(ctx context.Context, userID, platform string, rows []*types.BenchmarkStat) {
	raw, err := json.Marshal(rows)
	if err != nil {
		c.log.Warn("benchmark cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID, platform), raw, c.ttl).Err(); err != nil {
		c.log.Warn("benchmark cache write failed", "error", err)
	}
}

func (c *benchmarkCache) Invalidate(ctx context.Context, userID, platform string) {
	if err := c.rdb.Del(ctx, cacheKey(userID, platform)).Err(); err != nil {
		c.log.Warn("benchmark cache invalidate failed", "error", err)
	}
}
