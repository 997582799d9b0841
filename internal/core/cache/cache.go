// Package cache 搜尋回應快取。相同的正規化查詢參數在 TTL 內
// 直接回傳快取結果，不重跑整條搜尋管線。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 搜尋結果快取的後端介面
type Store interface {
	// Get 以指紋取快取結果，未命中回傳 false
	Get(ctx context.Context, key string) ([]common.RecipeCard, bool)

	// Set 寫入快取結果
	Set(ctx context.Context, key string, cards []common.RecipeCard)

	// Stats 回傳統計資訊
	Stats() map[string]interface{}

	// Close 關閉後端
	Close() error
}

// New 依設定選擇快取後端。停用時回傳 nil，呼叫端需自行判空。
func New(cfg *config.CacheConfig) Store {
	if !cfg.Enabled {
		common.LogInfo("搜尋快取已停用")
		return nil
	}

	if cfg.RedisEnabled {
		store, err := NewRedisStore(cfg)
		if err != nil {
			common.LogWarn("Redis 連線失敗，改用記憶體快取",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err),
			)
			return NewMemoryStore(cfg)
		}
		return store
	}

	return NewMemoryStore(cfg)
}

// Fingerprint 由正規化後的查詢參數產生快取鍵。
// 參數先修剪空白、轉小寫，再依鍵名排序，確保同義請求產生同一把鍵。
func Fingerprint(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.ToLower(strings.TrimSpace(params[k])))
		b.WriteByte('&')
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
