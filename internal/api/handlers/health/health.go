package health

import (
	"net/http"
	"runtime"
	"time"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Pool      *PoolStatus            `json:"pool,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// PoolStatus 食譜池狀態
type PoolStatus struct {
	Size int `json:"size"`
}

// PoolSizer 回報池內食譜數的最小介面
type PoolSizer interface {
	Size() int
}

// CacheStats 回報快取統計的最小介面
type CacheStats interface {
	Stats() map[string]interface{}
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// 構建響應
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	// 食譜池與快取狀態（有注入才回報）
	if reg, exists := c.Get("registry"); exists {
		if sizer, ok := reg.(PoolSizer); ok {
			response.Pool = &PoolStatus{Size: sizer.Size()}
		}
	}
	if store, exists := c.Get("cache_store"); exists && store != nil {
		if stats, ok := store.(CacheStats); ok {
			response.Cache = stats.Stats()
		}
	}

	// 記錄請求
	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
func ReadinessCheck(c *gin.Context) {
	// 種子資料保證池非空，程序起來就能服務
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
