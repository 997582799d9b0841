// Package vibe 當前氛圍端點：曲目 → 聲學特徵 → 心情 → 風味化合物
package vibe

import (
	"net/http"
	"strings"

	"vibebite/internal/core/flavor"
	"vibebite/internal/core/media"
	"vibebite/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fallbackTrack 上游完全不可用時的保底曲目，端點永遠不拋錯
var fallbackTrack = media.Track{
	ID:     "fallback-lofi",
	Title:  "Lo-fi Beats",
	Artist: "Chill Radio",
}

// Handler 氛圍路由處理器
type Handler struct {
	resolver *media.Resolver
	expander *flavor.Expander
}

// NewHandler 創建氛圍處理器
func NewHandler(resolver *media.Resolver, expander *flavor.Expander) *Handler {
	return &Handler{
		resolver: resolver,
		expander: expander,
	}
}

// vibeResponse /vibe 的回應格式
type vibeResponse struct {
	Track              media.Track               `json:"track"`
	Mood               string                    `json:"mood"`
	Fallback           bool                      `json:"fallback"`
	ScientificAnalysis common.ScientificAnalysis `json:"scientific_analysis"`
}

// HandleCurrentVibe 解析查詢（或探索模式）成曲目並回報氛圍分析。
// 曲目解析失敗時改用保底曲目，特徵一律可由模擬補上，所以永遠有結果。
func (h *Handler) HandleCurrentVibe(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))

	var track *media.Track
	if query == "" {
		track = h.resolver.Discover(ctx)
	} else {
		track = h.resolver.Resolve(ctx, query, 0)
	}

	usedFallback := false
	if track == nil {
		fallback := fallbackTrack
		track = &fallback
		usedFallback = true
		common.LogWarn("曲目解析失敗，使用保底曲目",
			zap.String("query", query),
		)
	}

	features := h.resolver.Features(ctx, track.ID)
	mood := media.Classify(features)
	expansion := h.expander.Expand(ctx, strings.ToLower(string(mood)))

	c.JSON(http.StatusOK, vibeResponse{
		Track:    *track,
		Mood:     string(mood),
		Fallback: usedFallback,
		ScientificAnalysis: common.ScientificAnalysis{
			BPM:       features.TempoBPM,
			Energy:    features.Energy,
			Valence:   features.Valence,
			Trigger:   string(mood),
			Compounds: expansion.Ingredients,
		},
	})
}
