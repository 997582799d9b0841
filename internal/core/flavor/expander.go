// Package flavor 把心情或風味標籤展開成候選食材集合。
package flavor

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"vibebite/internal/core/ai/gemini"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

// rulesContext 打包進二進位的策展規則，生成式翻譯的知識錨定
//
//go:embed rules.txt
var rulesContext string

// Expansion 展開結果。Ingredients 保證非空：全部層都沒中時退回輸入標籤本身。
type Expansion struct {
	Ingredients []string `json:"ingredients"`
	Rationale   string   `json:"rationale"`
}

// Expander 三層 fallback 展開器：
// 活體分子配對 → 生成式翻譯（知識錨定）→ 本地配對表 → 輸入標籤本身
type Expander struct {
	pairing PairingProvider
	ai      *gemini.Client
}

// translateResult 生成式翻譯要求的 JSON 形狀
type translateResult struct {
	Ingredients []string `json:"ingredients"`
	Reason      string   `json:"reason"`
}

// NewExpander 創建展開器。ai 可為 nil（或未設定憑證），該層直接跳過。
func NewExpander(pairing PairingProvider, ai *gemini.Client) *Expander {
	return &Expander{
		pairing: pairing,
		ai:      ai,
	}
}

// Expand 展開標籤。不變量：回傳的 Ingredients 長度至少為 1。
func (e *Expander) Expand(ctx context.Context, label string) Expansion {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		lower = "comfort"
	}

	// 第一層：活體分子配對。抽象心情先對映成具體食材再查。
	queryIngredient := lower
	if mapped, ok := moodToIngredient[lower]; ok {
		queryIngredient = mapped
	}
	if e.pairing != nil {
		if matches := e.pairing.Lookup(ctx, queryIngredient); len(matches) > 0 {
			common.LogInfo("分子配對命中",
				zap.String("label", lower),
				zap.String("query", queryIngredient),
				zap.Int("matches", len(matches)),
			)
			return Expansion{
				Ingredients: dedupe(matches),
				Rationale:   fmt.Sprintf("FlavorDB molecular matches for %s", queryIngredient),
			}
		}
	}

	// 第二層：生成式翻譯（含限流/壞資料的罐頭 fallback）
	if e.ai != nil && e.ai.Enabled() {
		return e.translate(ctx, lower)
	}

	// 第三層：本地配對表（含複合拆解）
	if matches := lookupTable(lower); len(matches) > 0 {
		return Expansion{
			Ingredients: matches,
			Rationale:   "local molecular database",
		}
	}

	// 最後退路：標籤本身，讓一般文字搜尋接手
	return Expansion{
		Ingredients: []string{label},
		Rationale:   "no mapping found",
	}
}

// translate 以知識錨定的嚴格 prompt 要求 JSON 輸出，解析採防禦姿態
func (e *Expander) translate(ctx context.Context, lower string) Expansion {
	prompt := fmt.Sprintf(`You are a culinary science AI. Given a mood or vibe, reply with raw food ingredients that represent it chemically or culturally.

Grounding rules:
%s

Reply with ONLY a JSON object, no markdown, in exactly this shape:
{"ingredients": ["Lemon", "Ginger"], "reason": "one short sentence"}

Mood: %s`, rulesContext, lower)

	raw, err := e.ai.Generate(ctx, prompt, gemini.GenerateConfig{
		Temperature:     0.2,
		MaxOutputTokens: 256,
		JSONMode:        true,
	})

	var base []string
	rationale := ""
	if err == nil {
		var result translateResult
		parseErr := common.ParseJSON(common.QuoteJSONKeys(common.ExtractJSONObject(raw)), &result)
		if parseErr == nil && len(result.Ingredients) > 0 {
			base = dedupe(result.Ingredients)
			rationale = result.Reason
		} else {
			common.LogWarn("生成式翻譯輸出無法解析，改用罐頭對照",
				zap.Error(parseErr),
			)
		}
	}

	// 限流、不可用、壞資料：一律退到罐頭對照（保底 mint）
	if len(base) == 0 {
		base = []string{cannedTranslation(lower)}
		rationale = "canned translation fallback"
	}

	// 多食材時逐一查配對，聯集所有配對結果加上基底食材
	merged := append([]string{}, base...)
	if e.pairing != nil {
		for _, ing := range base {
			merged = append(merged, e.pairing.Lookup(ctx, ing)...)
		}
	}

	return Expansion{
		Ingredients: dedupe(merged),
		Rationale:   rationale,
	}
}
