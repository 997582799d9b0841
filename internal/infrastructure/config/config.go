package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Spotify    SpotifyConfig    `mapstructure:"spotify"`
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	Foodoscope FoodoscopeConfig `mapstructure:"foodoscope"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Pairing    PairingConfig    `mapstructure:"pairing"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Search     SearchConfig     `mapstructure:"search"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SpotifyConfig Spotify 搜尋後端設定（client credentials）
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// YouTubeConfig YouTube Data API 搜尋後端設定
type YouTubeConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// FoodoscopeConfig 食譜資料庫與暫存池設定
type FoodoscopeConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	PageSize   int           `mapstructure:"page_size"`
	Pages      []int         `mapstructure:"pages"`
	FetchDelay time.Duration `mapstructure:"fetch_delay"`
	PoolTTL    time.Duration `mapstructure:"pool_ttl"`
	Cooldown   time.Duration `mapstructure:"cooldown"`
}

// GeminiConfig 生成式語言服務設定
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PairingConfig 分子配對查詢設定
type PairingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig 結果快取設定
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisEnabled    bool          `mapstructure:"redis_enabled"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// SearchConfig 搜尋與健康目標門檻設定。
// 低鈉有兩個門檻：goal 級（low-sodium 標籤）與舊版嚴格偏好旗標，
// 兩者語意不同，刻意分開設定、不合併。
type SearchConfig struct {
	MaxResults       int     `mapstructure:"max_results"`
	HighProteinMinG  float64 `mapstructure:"high_protein_min_g"`
	KetoCarbMaxG     float64 `mapstructure:"keto_carb_max_g"`
	LowSodiumMaxMg   float64 `mapstructure:"low_sodium_max_mg"`
	StrictSodiumMxMg float64 `mapstructure:"strict_sodium_max_mg"`
	LowCalorieMax    float64 `mapstructure:"low_calorie_max"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("spotify.client_id", "SPOTIFY_CLIENT_ID")
	viper.BindEnv("spotify.client_secret", "SPOTIFY_CLIENT_SECRET")
	viper.BindEnv("youtube.api_key", "YOUTUBE_API_KEY")
	viper.BindEnv("foodoscope.api_key", "FOODOSCOPE_API_KEY")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_enabled", "CACHE_REDIS_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MissingCredentials 列出缺少的上游憑證。缺憑證只大聲記錄、不中斷啟動：
// 每個整合點都有 fallback，用不到該憑證的請求不受影響。
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET")
	}
	if c.YouTube.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if c.Foodoscope.APIKey == "" {
		missing = append(missing, "FOODOSCOPE_API_KEY")
	}
	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missing
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "vibebite")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Foodoscope 設定（池 TTL 30 分鐘，頁間隔 2.5 秒以守 25 req/min 限制）
	viper.SetDefault("foodoscope.base_url", "https://api.foodoscope.com/recipe2-api")
	viper.SetDefault("foodoscope.page_size", 50)
	viper.SetDefault("foodoscope.pages", []int{1, 2, 3})
	viper.SetDefault("foodoscope.fetch_delay", "2500ms")
	viper.SetDefault("foodoscope.pool_ttl", "30m")
	viper.SetDefault("foodoscope.cooldown", "2m")

	// Gemini 設定（低溫度換取穩定的 JSON 輸出）
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.temperature", 0.2)
	viper.SetDefault("gemini.max_tokens", 256)
	viper.SetDefault("gemini.timeout", "15s")

	// 分子配對設定（5 秒硬上限，慢上游不能拖垮整條請求）
	viper.SetDefault("pairing.base_url", "https://api.foodoscope.com")
	viper.SetDefault("pairing.timeout", "5s")

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "5m")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.redis_enabled", false)
	viper.SetDefault("cache.redis_addr", "localhost:6379")

	// 搜尋與健康目標門檻
	viper.SetDefault("search.max_results", 12)
	viper.SetDefault("search.high_protein_min_g", 15)
	viper.SetDefault("search.keto_carb_max_g", 20)
	viper.SetDefault("search.low_sodium_max_mg", 400)
	viper.SetDefault("search.strict_sodium_max_mg", 100)
	viper.SetDefault("search.low_calorie_max", 400)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證暫存池設定
	if config.Foodoscope.PageSize <= 0 {
		return fmt.Errorf("invalid foodoscope page size")
	}
	if len(config.Foodoscope.Pages) == 0 {
		return fmt.Errorf("foodoscope pages is required")
	}
	if config.Foodoscope.PoolTTL <= 0 {
		return fmt.Errorf("invalid foodoscope pool ttl")
	}

	// 驗證搜尋設定
	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("invalid search max results")
	}

	return nil
}
