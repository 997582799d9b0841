package search

import (
	"strings"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"go.uber.org/zap"
)

// veganExclusions 標題含這些詞就視為非素，除非標題自己標了 vegan
var veganExclusions = []string{
	"chicken", "beef", "pork", "lamb", "turkey", "duck", "bacon", "ham",
	"fish", "salmon", "tuna", "shrimp", "prawn", "crab", "anchovy",
	"egg", "cheese", "milk", "cream", "butter", "yogurt", "honey", "brie",
}

// goalPredicate 健康目標過濾條件。多個目標同時啟用時取交集。
type goalPredicate func(*common.RawRecipeRecord) bool

// buildPredicates 把目標標籤轉成過濾條件，不認識的標籤略過
func buildPredicates(goals []string, cfg *config.SearchConfig) []goalPredicate {
	var preds []goalPredicate
	for _, goal := range goals {
		switch strings.ToLower(strings.TrimSpace(goal)) {
		case "high-protein", "high protein":
			preds = append(preds, func(r *common.RawRecipeRecord) bool {
				return r.Protein.Float() > cfg.HighProteinMinG
			})
		case "keto":
			preds = append(preds, func(r *common.RawRecipeRecord) bool {
				return r.Carbs.Float() < cfg.KetoCarbMaxG
			})
		case "low-sodium", "low sodium":
			preds = append(preds, func(r *common.RawRecipeRecord) bool {
				return r.Sodium.Float() < cfg.LowSodiumMaxMg
			})
		case "vegan":
			preds = append(preds, isVegan)
		case "low-calorie", "low calorie":
			preds = append(preds, func(r *common.RawRecipeRecord) bool {
				return r.CaloriesKcal() < cfg.LowCalorieMax
			})
		case "":
			// 空標籤直接略過
		default:
			common.LogDebug("未知的健康目標標籤", zap.String("goal", goal))
		}
	}
	return preds
}

// isVegan 以標題判斷：排除清單命中即淘汰，但標題明寫 vegan 的放行
func isVegan(r *common.RawRecipeRecord) bool {
	title := strings.ToLower(r.Title)
	if strings.Contains(title, "vegan") {
		return true
	}
	for _, word := range veganExclusions {
		if strings.Contains(title, word) {
			return false
		}
	}
	return true
}
