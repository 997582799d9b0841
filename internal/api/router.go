package api

import (
	"context"
	"net/http"
	"time"

	"vibebite/internal/api/handlers/health"
	recipesHandler "vibebite/internal/api/handlers/recipes"
	vibeHandler "vibebite/internal/api/handlers/vibe"
	"vibebite/internal/api/middleware"
	"vibebite/internal/core/ai/gemini"
	"vibebite/internal/core/cache"
	"vibebite/internal/core/flavor"
	"vibebite/internal/core/media"
	"vibebite/internal/core/media/spotify"
	"vibebite/internal/core/media/youtube"
	"vibebite/internal/core/registry"
	"vibebite/internal/core/search"
	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 單一請求的整體超時。管線裡最慢的是註冊表補抓（多頁加上頁間延遲），
// 其餘上游呼叫各自有更短的逾時。
const timeoutDuration = 30 * time.Second

// SetupRouter 組裝服務與路由
func SetupRouter(cfg *config.Config, store cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 速率限制
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化上游客戶端與核心服務
	aiClient := gemini.NewClient(&cfg.Gemini)

	// FlavorDB 與 Foodoscope 同一套憑證
	pairingClient := flavor.NewPairingClient(&cfg.Pairing, cfg.Foodoscope.APIKey)
	expander := flavor.NewExpander(pairingClient, aiClient)

	foodoscope := registry.NewFoodoscopeClient(&cfg.Foodoscope)
	reg := registry.NewRegistry(foodoscope, &cfg.Foodoscope)

	resolver := media.NewResolver(selectMediaProvider(cfg), nil)

	engine := search.NewEngine(reg, expander, aiClient, store, &cfg.Search)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// 健康檢查會讀這些
		c.Set("config", cfg)
		c.Set("registry", reg)
		if store != nil {
			c.Set("cache_store", store)
		}

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipesInstance := recipesHandler.NewHandler(engine, reg, resolver)
		vibeInstance := vibeHandler.NewHandler(resolver, expander)

		api.GET("/recipes", recipesInstance.HandleSearch)
		api.GET("/recipes/:id", recipesInstance.HandleDetail)
		api.GET("/vibe", vibeInstance.HandleCurrentVibe)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("seed_pool_size", reg.Size()),
		zap.Duration("timeout", timeoutDuration),
	)

	return router, nil
}

// selectMediaProvider 依設定挑媒體搜尋後端：Spotify 優先，其次 YouTube。
// 兩者都缺憑證時回傳 nil，解析管線全面退回決定性模擬。
func selectMediaProvider(cfg *config.Config) media.SearchProvider {
	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		return spotify.New(context.Background(), &cfg.Spotify)
	}
	if cfg.YouTube.APIKey != "" {
		return youtube.New(&cfg.YouTube)
	}
	common.LogWarn("沒有可用的媒體搜尋憑證，聲學特徵將全部走模擬")
	return nil
}
