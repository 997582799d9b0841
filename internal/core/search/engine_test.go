package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"vibebite/internal/core/cache"
	"vibebite/internal/core/flavor"
	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"
)

// fakePool 固定內容的候選池，記錄被拉了幾次
type fakePool struct {
	records []common.RawRecipeRecord
	pulls   int64
}

func (f *fakePool) CandidatePool(ctx context.Context) []common.RawRecipeRecord {
	atomic.AddInt64(&f.pulls, 1)
	return f.records
}

func testSearchConfig() *config.SearchConfig {
	return &config.SearchConfig{
		MaxResults:       12,
		HighProteinMinG:  15,
		KetoCarbMaxG:     20,
		LowSodiumMaxMg:   400,
		StrictSodiumMxMg: 100,
		LowCalorieMax:    400,
	}
}

func rec(id, title string, protein, carbs, sodium, calories float64) common.RawRecipeRecord {
	return common.RawRecipeRecord{
		ID:       common.FlexString(id),
		Title:    title,
		Protein:  common.FlexNumber(protein),
		Carbs:    common.FlexNumber(carbs),
		Sodium:   common.FlexNumber(sodium),
		Calories: common.FlexNumber(calories),
	}
}

// offlineEngine 沒有任何上游的引擎：本地配對表 + 分詞，不接快取
func offlineEngine(pool *fakePool) *Engine {
	return NewEngine(pool, flavor.NewExpander(nil, nil), nil, nil, testSearchConfig())
}

func TestSearchEnergeticHighProtein(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Lemon Chicken Stir Fry", 28, 15, 300, 450),
		rec("2", "Chocolate Cake", 4, 60, 200, 520),
	}}
	e := offlineEngine(pool)

	result := e.Search(context.Background(), Params{
		FlavorOrMood: "energetic",
		Goals:        []string{"high-protein"},
	})

	if len(result.Cards) != 1 {
		t.Fatalf("應只剩一筆，得到 %d 筆: %+v", len(result.Cards), result.Cards)
	}
	if result.Cards[0].Title != "Lemon Chicken Stir Fry" {
		t.Errorf("留下的應是 Lemon Chicken Stir Fry，得到 %q", result.Cards[0].Title)
	}
	if result.Cards[0].ScientificMatch == common.GeneralMatch {
		t.Error("風味命中時 scientificMatch 應記下觸發詞")
	}
	if result.Expansion == nil || len(result.Expansion.Ingredients) == 0 {
		t.Error("風味路徑應附上展開結果")
	}
}

func TestGoalComposability(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Tofu Power Bowl", 22, 30, 250, 380),     // vegan + high-protein
		rec("2", "Chicken Salad", 30, 8, 300, 320),        // high-protein only
		rec("3", "Cucumber Rolls", 3, 12, 100, 90),        // vegan only
		rec("4", "Vegan Chicken Strips", 25, 18, 350, 300), // 標題明寫 vegan，放行
	}}
	e := offlineEngine(pool)

	result := e.Search(context.Background(), Params{
		Goals: []string{"vegan", "high-protein"},
	})

	got := map[string]bool{}
	for _, card := range result.Cards {
		got[card.Title] = true
	}
	if !got["Tofu Power Bowl"] || !got["Vegan Chicken Strips"] {
		t.Errorf("交集過濾結果不對: %v", got)
	}
	if got["Chicken Salad"] || got["Cucumber Rolls"] {
		t.Errorf("不滿足全部目標的紀錄應被淘汰: %v", got)
	}
}

func TestFlavorWholePoolFallback(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Beef Noodle Soup", 20, 40, 600, 550),
		rec("2", "Caesar Salad", 10, 12, 450, 280),
	}}
	e := offlineEngine(pool)

	// garbage 標籤展開成標籤本身，沒一個標題會中 → 退回整個池
	result := e.Search(context.Background(), Params{FlavorOrMood: "garbage-xyz"})

	if len(result.Cards) != 2 {
		t.Fatalf("過度過濾時應退回整個池，得到 %d 筆", len(result.Cards))
	}
	for _, card := range result.Cards {
		if card.ScientificMatch != common.GeneralMatch {
			t.Errorf("整池 fallback 的卡片應標 %q，得到 %q", common.GeneralMatch, card.ScientificMatch)
		}
	}
}

func TestQueryAllWordsAndRanking(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Spicy Chicken Curry", 25, 30, 500, 480),
		rec("2", "Chicken Curry", 22, 28, 450, 430),
		rec("3", "Beef Stew", 26, 20, 520, 510),
	}}
	e := offlineEngine(pool)

	result := e.Search(context.Background(), Params{Query: "chicken curry"})

	if len(result.Cards) != 2 {
		t.Fatalf("全詞比對應留兩筆，得到 %d", len(result.Cards))
	}
	// 前綴命中者排前面
	if result.Cards[0].Title != "Chicken Curry" {
		t.Errorf("前綴命中應排第一，得到 %q", result.Cards[0].Title)
	}
}

func TestQueryTokenizerFallback(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Mango Sticky Rice", 6, 55, 120, 390),
		rec("2", "Beef Stew", 26, 20, 520, 510),
	}}
	e := offlineEngine(pool)

	// 全詞比對落空、查詢夠長：沒有生成式服務時走停用詞分詞
	result := e.Search(context.Background(), Params{Query: "I want something with mango please"})

	if len(result.Cards) != 1 || result.Cards[0].Title != "Mango Sticky Rice" {
		t.Fatalf("分詞後應以 mango 命中一筆，得到 %+v", result.Cards)
	}
}

func TestLowSodiumThresholds(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Steamed Fish", 24, 5, 80, 220),
		rec("2", "Grilled Veggies", 5, 18, 250, 180),
		rec("3", "Ramen", 18, 60, 900, 620),
	}}
	e := offlineEngine(pool)
	ctx := context.Background()

	// low-sodium 目標：< 400mg
	goal := e.Search(ctx, Params{Goals: []string{"low-sodium"}})
	if len(goal.Cards) != 2 {
		t.Errorf("low-sodium 目標應留兩筆，得到 %d", len(goal.Cards))
	}

	// 舊版嚴格旗標：< 100mg，比目標更緊
	strict := e.Search(ctx, Params{Goals: []string{"low-sodium"}, LowSodium: true})
	if len(strict.Cards) != 1 || strict.Cards[0].Title != "Steamed Fish" {
		t.Errorf("嚴格旗標應只留 Steamed Fish，得到 %+v", strict.Cards)
	}
}

func TestDedupeAndCap(t *testing.T) {
	var records []common.RawRecipeRecord
	// 同一個 id 出現兩次
	records = append(records, rec("dup", "Lemon Tart", 5, 40, 150, 420))
	records = append(records, rec("dup", "Lemon Tart", 5, 40, 150, 420))
	for i := 0; i < 20; i++ {
		records = append(records, rec(
			fmt.Sprintf("bulk-%d", i),
			"Lemon Dish",
			10, 20, 200, 300,
		))
	}
	pool := &fakePool{records: records}
	e := offlineEngine(pool)

	result := e.Search(context.Background(), Params{Query: "lemon"})

	if len(result.Cards) > 12 {
		t.Errorf("結果應截斷到 12 筆，得到 %d", len(result.Cards))
	}
	seen := map[string]bool{}
	for _, card := range result.Cards {
		if seen[card.ID] {
			t.Errorf("結果出現重複識別碼 %q", card.ID)
		}
		seen[card.ID] = true
	}
}

func TestIdempotentCaching(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Lemon Chicken Stir Fry", 28, 15, 300, 450),
	}}
	store := cache.NewMemoryStore(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         16,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	defer store.Close()

	e := NewEngine(pool, flavor.NewExpander(nil, nil), nil, store, testSearchConfig())
	ctx := context.Background()
	params := Params{FlavorOrMood: "energetic", Goals: []string{"high-protein"}}

	first := e.Search(ctx, params)
	if first.CacheHit {
		t.Error("首次搜尋不應命中快取")
	}

	second := e.Search(ctx, params)
	if !second.CacheHit {
		t.Error("相同參數第二次應命中快取")
	}
	if atomic.LoadInt64(&pool.pulls) != 1 {
		t.Errorf("快取命中不應再拉候選池，實際拉了 %d 次", pool.pulls)
	}

	if len(first.Cards) != len(second.Cards) {
		t.Fatalf("兩次結果筆數不同: %d != %d", len(first.Cards), len(second.Cards))
	}
	for i := range first.Cards {
		if first.Cards[i].ID != second.Cards[i].ID {
			t.Errorf("兩次結果順序不同: %v != %v", first.Cards, second.Cards)
		}
	}

	// 目標順序不同仍是同一把鍵
	reordered := e.Search(ctx, Params{FlavorOrMood: "energetic", Goals: []string{"high-protein"}})
	if !reordered.CacheHit {
		t.Error("正規化後的同義參數應命中快取")
	}
}

func TestCacheExpiryRefetches(t *testing.T) {
	pool := &fakePool{records: []common.RawRecipeRecord{
		rec("1", "Lemon Tart", 5, 40, 150, 420),
	}}
	store := cache.NewMemoryStore(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         16,
		TTL:             20 * time.Millisecond,
		CleanupInterval: time.Hour,
	})
	defer store.Close()

	e := NewEngine(pool, flavor.NewExpander(nil, nil), nil, store, testSearchConfig())
	ctx := context.Background()
	params := Params{Query: "lemon"}

	e.Search(ctx, params)
	time.Sleep(40 * time.Millisecond)
	after := e.Search(ctx, params)

	if after.CacheHit {
		t.Error("TTL 過期後不應命中快取")
	}
	if atomic.LoadInt64(&pool.pulls) != 2 {
		t.Errorf("過期後應重新拉池，實際 %d 次", pool.pulls)
	}
}

func TestParamsEmpty(t *testing.T) {
	if !(Params{}).Empty() {
		t.Error("零值參數應為空")
	}
	if (Params{Query: "x"}).Empty() || (Params{LowSodium: true}).Empty() {
		t.Error("有任一維度就不為空")
	}
}
