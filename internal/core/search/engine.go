// Package search 候選食譜的過濾與排序引擎。
// 所有過濾都在客戶端對池內資料做，不信任上游的伺服器端過濾。
package search

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"vibebite/internal/core/ai/gemini"
	"vibebite/internal/core/cache"
	"vibebite/internal/core/flavor"
	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

// Pool 候選食譜池的來源
type Pool interface {
	CandidatePool(ctx context.Context) []common.RawRecipeRecord
}

// Params 一次搜尋的輸入。四個維度皆可缺，但至少要有一個。
type Params struct {
	Query        string   // 自由文字
	FlavorOrMood string   // 心情或風味標籤
	Goals        []string // 健康目標標籤
	LowSodium    bool     // 舊版嚴格低鈉偏好，門檻比 low-sodium 目標更緊
}

// Empty 回報是否完全沒有可用的搜尋維度
func (p Params) Empty() bool {
	return strings.TrimSpace(p.Query) == "" &&
		strings.TrimSpace(p.FlavorOrMood) == "" &&
		len(p.Goals) == 0 &&
		!p.LowSodium
}

// Result 搜尋結果與透明化資訊
type Result struct {
	Cards     []common.RecipeCard
	Expansion *flavor.Expansion // 走了風味路徑才有
	CacheHit  bool
}

// candidate 過濾過程中的中間態：原始紀錄加上觸發收錄的展開詞
type candidate struct {
	rec   *common.RawRecipeRecord
	match string
}

// Engine 搜尋引擎。依賴全部由外部注入，每個測試可以用全新實例。
type Engine struct {
	pool     Pool
	expander *flavor.Expander
	ai       *gemini.Client
	store    cache.Store
	cfg      *config.SearchConfig
}

// NewEngine 創建搜尋引擎。store 可為 nil（快取停用）、ai 可為 nil（走分詞）。
func NewEngine(pool Pool, exp *flavor.Expander, ai *gemini.Client, store cache.Store, cfg *config.SearchConfig) *Engine {
	return &Engine{
		pool:     pool,
		expander: exp,
		ai:       ai,
		store:    store,
		cfg:      cfg,
	}
}

// Search 執行過濾與排序管線：
// 快取 → 風味路徑或文字路徑 → 目標過濾 → 去重 → 排序 → 截斷。
// 上游失敗一律降級到手上最好的資料，空結果是合法輸出而不是錯誤。
func (e *Engine) Search(ctx context.Context, p Params) Result {
	start := time.Now()
	key := e.fingerprint(p)

	if e.store != nil {
		if cards, ok := e.store.Get(ctx, key); ok {
			return Result{Cards: cards, CacheHit: true}
		}
	}

	pool := e.pool.CandidatePool(ctx)
	if len(pool) == 0 {
		// 種子資料正常時不會發生；空池照樣回空結果，不報錯
		common.LogError("候選池為空", zap.Error(common.ErrNoCandidateData))
	}
	goals := append([]string(nil), p.Goals...)

	var candidates []candidate
	var expansion *flavor.Expansion

	switch {
	case strings.TrimSpace(p.FlavorOrMood) != "":
		candidates, expansion = e.flavorPath(ctx, pool, p.FlavorOrMood)
	case strings.TrimSpace(p.Query) != "":
		candidates, goals = e.queryPath(ctx, pool, p.Query, goals)
	default:
		// 只有目標條件時，整個池都是候選
		candidates = wholePool(pool)
	}

	candidates = e.applyGoals(candidates, goals, p.LowSodium)
	candidates = dedupe(candidates)
	rank(candidates, rankAnchor(p))

	if len(candidates) > e.cfg.MaxResults {
		candidates = candidates[:e.cfg.MaxResults]
	}

	cards := make([]common.RecipeCard, 0, len(candidates))
	for _, c := range candidates {
		cards = append(cards, common.NewRecipeCard(c.rec, c.match))
	}

	if e.store != nil {
		e.store.Set(ctx, key, cards)
	}

	common.LogInfo("搜尋完成",
		zap.String("query", p.Query),
		zap.String("flavor", p.FlavorOrMood),
		zap.Strings("goals", goals),
		zap.Int("pool_size", len(pool)),
		zap.Int("results", len(cards)),
		zap.Duration("duration", time.Since(start)),
	)

	return Result{Cards: cards, Expansion: expansion}
}

// fingerprint 由正規化參數算快取鍵。目標先排序，順序不影響鍵值。
func (e *Engine) fingerprint(p Params) string {
	goals := make([]string, 0, len(p.Goals))
	for _, g := range p.Goals {
		goals = append(goals, strings.ToLower(strings.TrimSpace(g)))
	}
	sort.Strings(goals)

	return cache.Fingerprint(map[string]string{
		"query":      p.Query,
		"flavor":     p.FlavorOrMood,
		"goals":      strings.Join(goals, ","),
		"low_sodium": strconv.FormatBool(p.LowSodium),
	})
}

// flavorPath 風味路徑：展開成食材詞後以標題包含比對。
// 全數落空時退回整個池，有池就不會因過度過濾而回空。
func (e *Engine) flavorPath(ctx context.Context, pool []common.RawRecipeRecord, label string) ([]candidate, *flavor.Expansion) {
	expansion := e.expander.Expand(ctx, label)

	terms := make([]string, 0, len(expansion.Ingredients)+1)
	for _, ing := range expansion.Ingredients {
		terms = append(terms, strings.ToLower(ing))
	}
	terms = append(terms, strings.ToLower(strings.TrimSpace(label)))

	var matched []candidate
	for i := range pool {
		title := strings.ToLower(pool[i].Title)
		for _, term := range terms {
			if term != "" && strings.Contains(title, term) {
				matched = append(matched, candidate{rec: &pool[i], match: term})
				break
			}
		}
	}

	if len(matched) == 0 {
		common.LogDebug("展開詞無一命中，退回整個候選池",
			zap.String("label", label),
			zap.Int("pool_size", len(pool)),
		)
		return wholePool(pool), &expansion
	}
	return matched, &expansion
}

// queryPath 文字路徑：全詞包含比對。命中太少且查詢夠長時，
// 請生成式服務拆解意圖再過濾一次，拆出的目標併入目標集。
func (e *Engine) queryPath(ctx context.Context, pool []common.RawRecipeRecord, query string, goals []string) ([]candidate, []string) {
	words := strings.Fields(strings.ToLower(query))
	matched := filterAllWords(pool, words)

	if len(matched) < 2 && len(query) > 5 {
		intent := extractIntent(ctx, e.ai, query)
		matched = filterAnyKeyword(pool, intent.Keywords)
		goals = append(goals, intent.Goals...)
	}

	return matched, goals
}

// filterAllWords 標題需包含查詢的每一個詞
func filterAllWords(pool []common.RawRecipeRecord, words []string) []candidate {
	var matched []candidate
	for i := range pool {
		title := strings.ToLower(pool[i].Title)
		all := true
		for _, w := range words {
			if !strings.Contains(title, w) {
				all = false
				break
			}
		}
		if all && len(words) > 0 {
			matched = append(matched, candidate{rec: &pool[i]})
		}
	}
	return matched
}

// filterAnyKeyword 標題包含任一關鍵詞即收錄，記下命中的那個詞
func filterAnyKeyword(pool []common.RawRecipeRecord, keywords []string) []candidate {
	var matched []candidate
	for i := range pool {
		title := strings.ToLower(pool[i].Title)
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(title, kw) {
				matched = append(matched, candidate{rec: &pool[i], match: kw})
				break
			}
		}
	}
	return matched
}

// applyGoals 套用健康目標過濾，多目標取交集。
// 嚴格低鈉旗標與 low-sodium 目標是兩個獨立門檻，分開套用。
func (e *Engine) applyGoals(candidates []candidate, goals []string, lowSodium bool) []candidate {
	preds := buildPredicates(goals, e.cfg)
	if lowSodium {
		preds = append(preds, func(r *common.RawRecipeRecord) bool {
			return r.Sodium.Float() < e.cfg.StrictSodiumMxMg
		})
	}
	if len(preds) == 0 {
		return candidates
	}

	var kept []candidate
	for _, c := range candidates {
		pass := true
		for _, pred := range preds {
			if !pred(c.rec) {
				pass = false
				break
			}
		}
		if pass {
			kept = append(kept, c)
		}
	}
	return kept
}

// dedupe 以識別碼去重，先出現者留下
func dedupe(candidates []candidate) []candidate {
	seen := make(map[string]bool, len(candidates))
	var unique []candidate
	for _, c := range candidates {
		id := c.rec.ID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, c)
	}
	return unique
}

// rank 前綴命中者排前面，其餘維持原序。沒有別的計分。
func rank(candidates []candidate, anchor string) {
	anchor = strings.ToLower(strings.TrimSpace(anchor))
	if anchor == "" {
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(candidates[i].rec.Title), anchor)
		pj := strings.HasPrefix(strings.ToLower(candidates[j].rec.Title), anchor)
		return pi && !pj
	})
}

// rankAnchor 排序用的比對字串：文字查詢優先，其次風味標籤
func rankAnchor(p Params) string {
	if strings.TrimSpace(p.Query) != "" {
		return p.Query
	}
	return p.FlavorOrMood
}

func wholePool(pool []common.RawRecipeRecord) []candidate {
	candidates := make([]candidate, 0, len(pool))
	for i := range pool {
		candidates = append(candidates, candidate{rec: &pool[i]})
	}
	return candidates
}
