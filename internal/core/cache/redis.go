package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisKeyPrefix = "vibebite:search:"

// RedisStore Redis 快取後端，多副本部署時共享搜尋結果
type RedisStore struct {
	client *redis.Client
	cfg    *config.CacheConfig
	hits   int64
	misses int64
}

// NewRedisStore 創建 Redis 快取後端
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已初始化",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return &RedisStore{
		client: client,
		cfg:    cfg,
	}, nil
}

// Get 實現 Store 介面
func (s *RedisStore) Get(ctx context.Context, key string) ([]common.RecipeCard, bool) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Redis 讀取失敗", zap.Error(err))
		}
		atomic.AddInt64(&s.misses, 1)
		common.LogCacheMiss("redis", key)
		return nil, false
	}

	var cards []common.RecipeCard
	if err := json.Unmarshal(data, &cards); err != nil {
		common.LogWarn("Redis 快取內容解析失敗", zap.Error(err))
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit("redis", key)
	return cards, true
}

// Set 實現 Store 介面
func (s *RedisStore) Set(ctx context.Context, key string, cards []common.RecipeCard) {
	data, err := json.Marshal(cards)
	if err != nil {
		common.LogWarn("快取內容序列化失敗", zap.Error(err))
		return
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.cfg.TTL).Err(); err != nil {
		common.LogWarn("Redis 寫入失敗", zap.Error(err))
	}
}

// Stats 實現 Store 介面
func (s *RedisStore) Stats() map[string]interface{} {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)
	total := hits + misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   "redis",
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio,
	}
}

// Close 實現 Store 介面
func (s *RedisStore) Close() error {
	return s.client.Close()
}
