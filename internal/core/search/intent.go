package search

import (
	"context"
	"fmt"
	"strings"

	"vibebite/internal/core/ai/gemini"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

// queryIntent 自由文字查詢拆解後的結果
type queryIntent struct {
	Keywords []string `json:"keywords"`
	Goals    []string `json:"goals"`
}

// stopwords 分詞 fallback 時要剔除的功能詞
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "me": true, "my": true,
	"want": true, "need": true, "like": true, "love": true, "craving": true,
	"some": true, "something": true, "to": true, "eat": true, "for": true,
	"with": true, "and": true, "or": true, "please": true, "give": true,
	"food": true, "recipe": true, "recipes": true, "dish": true, "meal": true,
	"make": true, "cook": true, "is": true, "of": true, "in": true, "on": true,
}

const intentPromptTemplate = `You are a recipe search assistant. Decompose the user's request into concrete food search keywords and implied health goals.

Known health goals: high-protein, keto, low-sodium, vegan, low-calorie. Only use these; omit goals that do not clearly apply.

Respond with strict JSON only, no markdown, in exactly this shape:
{"keywords": ["..."], "goals": ["..."]}

User request: %q`

// extractIntent 請生成式服務把自由文字拆成搜尋關鍵詞與隱含目標。
// 任何失敗（含限流、格式錯誤）都退回停用詞分詞。
func extractIntent(ctx context.Context, ai *gemini.Client, query string) queryIntent {
	if ai == nil || !ai.Enabled() {
		return queryIntent{Keywords: tokenize(query)}
	}

	raw, err := ai.Generate(ctx, fmt.Sprintf(intentPromptTemplate, query), gemini.GenerateConfig{
		Temperature:     0.1,
		MaxOutputTokens: 256,
		JSONMode:        true,
	})
	if err != nil {
		common.LogDebug("意圖拆解失敗，退回分詞", zap.Error(err))
		return queryIntent{Keywords: tokenize(query)}
	}

	var intent queryIntent
	cleaned := common.QuoteJSONKeys(common.ExtractJSONObject(raw))
	if err := common.ParseJSON(cleaned, &intent); err != nil || len(intent.Keywords) == 0 {
		common.LogDebug("意圖回應解析失敗，退回分詞", zap.Error(err))
		return queryIntent{Keywords: tokenize(query)}
	}

	common.LogInfo("意圖拆解完成",
		zap.Strings("keywords", intent.Keywords),
		zap.Strings("goals", intent.Goals),
	)
	return intent
}

// tokenize 最低限度的分詞：切空白、剔停用詞與單字母
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!'
	})

	var words []string
	for _, w := range fields {
		if len(w) <= 1 || stopwords[w] {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		words = []string{strings.TrimSpace(strings.ToLower(query))}
	}
	return words
}
