// Package registry 維護候選食譜池：內嵌種子資料保底，
// 背景向 Foodoscope 分頁補抓，並以 TTL 與冷卻期控制抓取頻率。
package registry

import (
	"context"
	_ "embed"
	"errors"
	"sync"
	"time"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

//go:embed seed_recipes.json
var seedData []byte

// refreshPollInterval 等待進行中補抓時的輪詢間隔
const refreshPollInterval = 150 * time.Millisecond

// Registry 候選食譜池。
// 池的狀態分三種：冷（只有種子資料）、熱（補抓完成且未過期）、
// 過期（上次補抓超過 TTL）。任何時刻至多一個補抓在進行。
type Registry struct {
	provider Provider
	cfg      *config.FoodoscopeConfig

	// 測試時可注入，避免真的等待
	clock func() time.Time
	sleep func(time.Duration)

	mu            sync.Mutex
	records       []common.RawRecipeRecord
	seen          map[string]bool
	lastFetchedAt time.Time
	lastFailureAt time.Time
	cooldownUntil time.Time
	refreshing    bool
}

// NewRegistry 創建食譜池，初始內容為內嵌種子資料
func NewRegistry(provider Provider, cfg *config.FoodoscopeConfig) *Registry {
	r := &Registry{
		provider: provider,
		cfg:      cfg,
		clock:    time.Now,
		sleep:    time.Sleep,
		seen:     make(map[string]bool),
	}

	var seeds []common.RawRecipeRecord
	if err := common.ParseJSONBytes(seedData, &seeds); err != nil {
		// 種子資料是編譯期內嵌的，解析失敗屬於建置缺陷
		common.LogError("種子食譜資料解析失敗", zap.Error(err))
	}
	r.merge(seeds)

	return r
}

// CandidatePool 回傳目前的候選池快照。
// 池過期時會先嘗試補抓；若另一個補抓已在進行，
// 以短睡輪詢等它完成，再回傳補抓後的內容。
func (r *Registry) CandidatePool(ctx context.Context) []common.RawRecipeRecord {
	for {
		r.mu.Lock()
		now := r.clock()

		if !r.stale(now) || now.Before(r.cooldownUntil) {
			pool := r.snapshot()
			r.mu.Unlock()
			return pool
		}

		if !r.refreshing {
			r.refreshing = true
			r.mu.Unlock()
			break
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			// 呼叫端不等了，回傳現有內容
			r.mu.Lock()
			pool := r.snapshot()
			r.mu.Unlock()
			return pool
		case <-time.After(refreshPollInterval):
		}
	}

	r.refresh(ctx)

	r.mu.Lock()
	pool := r.snapshot()
	r.mu.Unlock()
	return pool
}

// Lookup 以識別碼找單筆食譜：先查池，池裡沒有才打上游
func (r *Registry) Lookup(ctx context.Context, id string) *common.RawRecipeRecord {
	r.mu.Lock()
	for i := range r.records {
		if r.records[i].ID.String() == id {
			rec := r.records[i]
			r.mu.Unlock()
			return &rec
		}
	}
	r.mu.Unlock()

	rec, err := r.provider.FetchByID(ctx, id)
	if err != nil {
		common.LogWarn("單筆食譜查詢失敗",
			zap.String("recipe_id", id),
			zap.Error(err),
		)
		return nil
	}
	return rec
}

// Size 目前池內的食譜數
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// stale 判斷池是否需要補抓，呼叫時必須持有鎖
func (r *Registry) stale(now time.Time) bool {
	if r.lastFetchedAt.IsZero() {
		return true
	}
	return now.Sub(r.lastFetchedAt) > r.cfg.PoolTTL
}

// snapshot 複製目前的池，呼叫時必須持有鎖
func (r *Registry) snapshot() []common.RawRecipeRecord {
	pool := make([]common.RawRecipeRecord, len(r.records))
	copy(pool, r.records)
	return pool
}

// merge 將新紀錄併入池內，識別碼重複時保留既有的一筆。
// 種子資料先進池，所以上游若回傳與種子相同的識別碼，以種子為準。
// 呼叫時必須持有鎖（或在尚未共享前的初始化階段）。
func (r *Registry) merge(batch []common.RawRecipeRecord) int {
	added := 0
	for _, rec := range batch {
		id := rec.ID.String()
		if id == "" || r.seen[id] {
			continue
		}
		r.seen[id] = true
		r.records = append(r.records, rec)
		added++
	}
	return added
}

// refresh 逐頁向上游補抓。單頁失敗只跳過該頁；
// 碰到速率限制則中止整輪並進入冷卻期。
func (r *Registry) refresh(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.refreshing = false
		r.mu.Unlock()
	}()

	// 補抓識別碼，跨多頁的日誌靠它串起來
	refreshID := common.GenerateUUID()
	start := r.clock()
	var fetched []common.RawRecipeRecord
	failed := false

	for i, page := range r.cfg.Pages {
		if i > 0 {
			// 頁與頁之間保持間隔，避免觸發上游速率限制
			r.sleep(r.cfg.FetchDelay)
		}

		batch, err := r.provider.FetchPage(ctx, page, r.cfg.PageSize)
		if errors.Is(err, common.ErrUpstreamRateLimited) {
			common.LogWarn("上游速率限制，中止補抓並進入冷卻期",
				zap.String("refresh_id", refreshID),
				zap.Int("page", page),
				zap.Duration("cooldown", r.cfg.Cooldown),
			)
			r.mu.Lock()
			r.cooldownUntil = r.clock().Add(r.cfg.Cooldown)
			r.lastFailureAt = r.clock()
			r.mu.Unlock()
			failed = true
			break
		}
		if err != nil {
			common.LogWarn("食譜頁抓取失敗，跳過此頁",
				zap.String("refresh_id", refreshID),
				zap.Int("page", page),
				zap.Error(err),
			)
			failed = true
			continue
		}
		fetched = append(fetched, batch...)
	}

	r.mu.Lock()
	added := r.merge(fetched)
	// 無論成敗都更新時間戳，讓 TTL 控制下一次補抓；
	// 失敗時不這麼做的話，每個請求都會重跑整輪抓取。
	r.lastFetchedAt = r.clock()
	if failed {
		r.lastFailureAt = r.clock()
	}
	total := len(r.records)
	r.mu.Unlock()

	common.LogInfo("食譜池補抓完成",
		zap.String("refresh_id", refreshID),
		zap.Int("fetched", len(fetched)),
		zap.Int("added", added),
		zap.Int("pool_size", total),
		zap.Duration("duration", r.clock().Sub(start)),
	)
}
