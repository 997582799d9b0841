// Package recipes 食譜搜尋與詳情的 HTTP 處理器
package recipes

import (
	"net/http"
	"strings"

	"vibebite/internal/core/media"
	"vibebite/internal/core/registry"
	"vibebite/internal/core/search"
	"vibebite/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜路由處理器
type Handler struct {
	engine   *search.Engine
	registry *registry.Registry
	resolver *media.Resolver
}

// NewHandler 創建食譜處理器
func NewHandler(engine *search.Engine, reg *registry.Registry, resolver *media.Resolver) *Handler {
	return &Handler{
		engine:   engine,
		registry: reg,
		resolver: resolver,
	}
}

// searchResponse /recipes 的回應格式
type searchResponse struct {
	Recipes            []common.RecipeCard        `json:"recipes"`
	ScientificAnalysis *common.ScientificAnalysis `json:"scientific_analysis,omitempty"`
	CacheHit           bool                       `json:"cache_hit"`
}

// HandleSearch 搜尋食譜。
// 選擇維度：mood、flavor、query、goals、low_sodium，至少要有一個；
// 指定 source 時先走媒體解析管線，把查詢文字轉成心情標籤。
func (h *Handler) HandleSearch(c *gin.Context) {
	mood := c.Query("mood")
	flavorParam := c.Query("flavor")
	query := c.Query("query")
	goalsParam := c.Query("goals")
	source := c.Query("source")
	lowSodium := c.Query("low_sodium") == "true"

	var goals []string
	if goalsParam != "" {
		for _, g := range strings.Split(goalsParam, ",") {
			if g = strings.TrimSpace(g); g != "" {
				goals = append(goals, g)
			}
		}
	}

	params := search.Params{
		Query:        query,
		FlavorOrMood: firstNonEmpty(mood, flavorParam),
		Goals:        goals,
		LowSodium:    lowSodium,
	}

	if params.Empty() && source == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    "MISSING_SELECTOR",
			Message: "at least one of mood, flavor, query, goals, low_sodium or source is required",
		})
		return
	}

	ctx := c.Request.Context()
	var analysis *common.ScientificAnalysis

	// 指定媒體來源時，先把文字解析成曲目再推導心情
	if source != "" {
		derived, derivedAnalysis := h.deriveMood(c, query)
		if derived != "" {
			params.FlavorOrMood = derived
			params.Query = ""
			analysis = derivedAnalysis
		}
	}

	result := h.engine.Search(ctx, params)

	if analysis != nil && result.Expansion != nil {
		analysis.Compounds = result.Expansion.Ingredients
	}

	c.JSON(http.StatusOK, searchResponse{
		Recipes:            result.Cards,
		ScientificAnalysis: analysis,
		CacheHit:           result.CacheHit,
	})
}

// deriveMood 媒體管線：解析曲目 → 聲學特徵 → 心情標籤。
// 曲目解析失敗時回傳空字串，呼叫端保留原始查詢降級處理。
func (h *Handler) deriveMood(c *gin.Context, query string) (string, *common.ScientificAnalysis) {
	ctx := c.Request.Context()

	var track *media.Track
	if strings.TrimSpace(query) == "" {
		track = h.resolver.Discover(ctx)
	} else {
		track = h.resolver.Resolve(ctx, query, 0)
	}
	if track == nil {
		common.LogWarn("曲目解析失敗，降級為一般搜尋",
			zap.String("query", query),
		)
		return "", nil
	}

	features := h.resolver.Features(ctx, track.ID)
	mood := media.Classify(features)

	common.LogInfo("媒體管線推導心情",
		zap.String("track", track.Title),
		zap.String("artist", track.Artist),
		zap.String("mood", string(mood)),
	)

	return strings.ToLower(string(mood)), &common.ScientificAnalysis{
		BPM:     features.TempoBPM,
		Energy:  features.Energy,
		Valence: features.Valence,
		Trigger: string(mood),
	}
}

// HandleDetail 單筆食譜詳情
func (h *Handler) HandleDetail(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    "MISSING_ID",
			Message: "recipe id is required",
		})
		return
	}

	rec := h.registry.Lookup(c.Request.Context(), id)
	if rec == nil {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    "RECIPE_NOT_FOUND",
			Message: "recipe not found",
		})
		return
	}

	c.JSON(http.StatusOK, common.NewRecipeDetail(rec))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
