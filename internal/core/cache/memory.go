package cache

import (
	"context"
	"sync"
	"time"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 程序內快取後端
type MemoryStore struct {
	cfg   *config.CacheConfig
	mu    sync.RWMutex
	store map[string]memoryEntry
	stats storeStats
	done  chan struct{}
}

type memoryEntry struct {
	cards       []common.RecipeCard
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type storeStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryStore 創建記憶體快取後端
func NewMemoryStore(cfg *config.CacheConfig) *MemoryStore {
	m := &MemoryStore{
		cfg:   cfg,
		store: make(map[string]memoryEntry),
		done:  make(chan struct{}),
	}

	// 啟動清理過期條目的協程
	go m.startCleanup()

	common.LogInfo("記憶體快取已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return m
}

// Get 實現 Store 介面
func (m *MemoryStore) Get(ctx context.Context, key string) ([]common.RecipeCard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return nil, false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	common.LogCacheHit("memory", key)

	return entry.cards, true
}

// Set 實現 Store 介面
func (m *MemoryStore) Set(ctx context.Context, key string, cards []common.RecipeCard) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.cfg.MaxSize {
		evicted := m.cleanup()
		if len(m.store) >= m.cfg.MaxSize {
			m.evictLRU()
		}
		common.LogDebug("快取容量達上限，已清理",
			zap.Int("過期清理", evicted),
			zap.Int("目前容量", len(m.store)),
		)
	}

	now := time.Now()
	m.store[key] = memoryEntry{
		cards:       cards,
		expiresAt:   now.Add(m.cfg.TTL),
		lastAccess:  now,
		accessCount: 0,
	}
}

// Stats 實現 Store 介面
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   "memory",
		"size":      len(m.store),
		"max_size":  m.cfg.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 實現 Store 介面
func (m *MemoryStore) Close() error {
	close(m.done)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]memoryEntry)
	common.LogInfo("記憶體快取已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
	)
	return nil
}

func (m *MemoryStore) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		}
	}
}

// cleanup 清理過期條目，呼叫時必須持有寫鎖
func (m *MemoryStore) cleanup() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRU 淘汰最少使用的條目，呼叫時必須持有寫鎖
func (m *MemoryStore) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}
