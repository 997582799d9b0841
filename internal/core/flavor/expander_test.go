package flavor

import (
	"context"
	"strings"
	"testing"
)

// stubPairing 假分子配對後端
type stubPairing struct {
	results map[string][]string
	calls   []string
}

func (s *stubPairing) Lookup(ctx context.Context, ingredient string) []string {
	s.calls = append(s.calls, ingredient)
	return s.results[ingredient]
}

// offlineExpander 沒有任何上游的展開器，只剩本地配對表
func offlineExpander() *Expander {
	return NewExpander(nil, nil)
}

func TestExpandNeverEmpty(t *testing.T) {
	labels := []string{
		"energetic", "chill", "happy", "sad",
		"keto", "vegan", "spicy",
		"garbage-label-xyz", "!!!???", "完全沒對應的標籤", "",
	}

	e := offlineExpander()
	for _, label := range labels {
		exp := e.Expand(context.Background(), label)
		if len(exp.Ingredients) == 0 {
			t.Errorf("Expand(%q) 回傳空食材集", label)
		}
	}
}

func TestExpandStaticTable(t *testing.T) {
	e := offlineExpander()

	exp := e.Expand(context.Background(), "energetic")
	if !containsFold(exp.Ingredients, "Lemon") {
		t.Errorf("energetic 的展開應包含 Lemon，得到 %v", exp.Ingredients)
	}

	// 大小寫與前後空白不影響
	exp2 := e.Expand(context.Background(), "  Energetic ")
	if len(exp2.Ingredients) != len(exp.Ingredients) {
		t.Errorf("正規化後展開結果不同: %v vs %v", exp2.Ingredients, exp.Ingredients)
	}
}

func TestExpandUnknownLabelFallsBackToItself(t *testing.T) {
	e := offlineExpander()
	exp := e.Expand(context.Background(), "garbage-label-xyz")
	if len(exp.Ingredients) != 1 || exp.Ingredients[0] != "garbage-label-xyz" {
		t.Errorf("無對應標籤應退回標籤本身，得到 %v", exp.Ingredients)
	}
}

func TestExpandEmptyLabelDefaultsToComfort(t *testing.T) {
	e := offlineExpander()
	exp := e.Expand(context.Background(), "")
	if !containsFold(exp.Ingredients, "Soup") {
		t.Errorf("空標籤應走 comfort 對照，得到 %v", exp.Ingredients)
	}
}

func TestExpandPairingTier(t *testing.T) {
	// chill 先對映成 Mint 再查配對
	stub := &stubPairing{results: map[string][]string{
		"Mint": {"Peppermint", "Basil", "Cucumber"},
	}}
	e := NewExpander(stub, nil)

	exp := e.Expand(context.Background(), "chill")
	if len(stub.calls) != 1 || stub.calls[0] != "Mint" {
		t.Fatalf("chill 應以 Mint 查配對，實際呼叫 %v", stub.calls)
	}
	if !containsFold(exp.Ingredients, "Basil") {
		t.Errorf("配對層命中時應採用上游結果，得到 %v", exp.Ingredients)
	}
}

func TestExpandPairingMissFallsThrough(t *testing.T) {
	// 配對查無結果時落到本地表
	stub := &stubPairing{}
	e := NewExpander(stub, nil)

	exp := e.Expand(context.Background(), "energetic")
	if !containsFold(exp.Ingredients, "Lemon") {
		t.Errorf("配對落空應走本地表，得到 %v", exp.Ingredients)
	}
}

func TestLookupTableCompositional(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"keto vegan", []string{"Avocado", "Tofu"}},
		{"spicy,sweet", []string{"Chili", "Honey"}},
		{"keto unknown-word", []string{"Avocado"}},
	}

	for _, tt := range tests {
		got := lookupTable(tt.label)
		for _, want := range tt.want {
			if !containsFold(got, want) {
				t.Errorf("lookupTable(%q) 缺少 %q: %v", tt.label, want, got)
			}
		}
	}

	if got := lookupTable("nothing matches here at all zzz"); len(got) != 0 {
		t.Errorf("全部落空應回空集，得到 %v", got)
	}
}

func TestCannedTranslation(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"happy", "vanilla"},
		{"comfort food", "potato"},
		{"party", "cheese"},
		{"happy vibes only", "vanilla"}, // 整串沒中，取第一個詞
		{"totally unknown", neutralIngredient},
	}

	for _, tt := range tests {
		if got := cannedTranslation(tt.label); got != tt.want {
			t.Errorf("cannedTranslation(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"Lemon", "lemon", " LEMON ", "Ginger", "", "Ginger"})
	if len(got) != 2 {
		t.Fatalf("去重後應剩 2 項，得到 %v", got)
	}
	// 保留首次出現的原始寫法與順序
	if got[0] != "Lemon" || got[1] != "Ginger" {
		t.Errorf("去重應保序且留首次寫法，得到 %v", got)
	}
}

func containsFold(items []string, want string) bool {
	for _, item := range items {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}
