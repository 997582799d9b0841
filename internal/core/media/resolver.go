package media

import (
	"context"
	"math/rand"
	"time"

	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

const discoveryLetters = "abcdefghijklmnopqrstuvwxyz"

// Resolver 把自由文字或探索模式解析成曲目與聲學特徵。
// 上游失敗一律降級：搜尋失敗回 nil、特徵失敗改用 Simulate。
type Resolver struct {
	provider SearchProvider
	rng      *rand.Rand
}

// NewResolver 創建新的 Resolver。rng 可注入以便測試釘住探索序列；
// 傳 nil 則用牆鐘種子（探索模式本來就不要求決定性）。
func NewResolver(provider SearchProvider, rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resolver{
		provider: provider,
		rng:      rng,
	}
}

// Resolve 以查詢文字解析曲目，找不到或上游失敗回傳 nil
func (r *Resolver) Resolve(ctx context.Context, query string, offset int) *Track {
	if r.provider == nil {
		return nil
	}
	return r.provider.Search(ctx, query, offset)
}

// Discover 探索模式：隨機單字母加隨機分頁位移，讓重複呼叫產生不同結果
func (r *Resolver) Discover(ctx context.Context) *Track {
	letter := string(discoveryLetters[r.rng.Intn(len(discoveryLetters))])
	offset := r.rng.Intn(50)

	common.LogDebug("探索模式搜尋",
		zap.String("letter", letter),
		zap.Int("offset", offset),
	)

	return r.Resolve(ctx, letter+"%", offset)
}

// Features 取得曲目特徵：上游優先，任何失敗都退回決定性模擬
func (r *Resolver) Features(ctx context.Context, trackID string) AudioFeatures {
	if r.provider != nil {
		if f := r.provider.Features(ctx, trackID); f != nil {
			return *f
		}
	}
	common.LogDebug("特徵上游不可用，改用模擬", zap.String("track_id", trackID))
	return Simulate(trackID)
}
