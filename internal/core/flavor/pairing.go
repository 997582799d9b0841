package flavor

import (
	"context"
	"net/http"
	"time"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PairingProvider 分子配對查詢介面。錯誤或逾時回傳空切片，
// 呼叫端視為該層失敗、往下一層走。
type PairingProvider interface {
	Lookup(ctx context.Context, ingredient string) []string
}

// PairingClient FlavorDB 分子配對客戶端
type PairingClient struct {
	client  *resty.Client
	apiKey  string
	timeout time.Duration
}

type pairingResponse struct {
	Ingredients []string `json:"ingredients"`
}

// NewPairingClient 創建分子配對客戶端
func NewPairingClient(cfg *config.PairingConfig, apiKey string) *PairingClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PairingClient{
		client:  resty.New().SetBaseURL(cfg.BaseURL),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Lookup 查詢食材的分子配對。逾時上限 5 秒，逾時等同該層失敗，
// 不讓一個慢上游拖住整條請求。
func (c *PairingClient) Lookup(ctx context.Context, ingredient string) []string {
	if c.apiKey == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result pairingResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Accept", "application/json").
		SetResult(&result).
		Get("/ingredients/flavor/" + ingredient)

	if err != nil {
		common.LogWarn("FlavorDB 查詢失敗，改用本地分子資料庫",
			zap.String("ingredient", ingredient),
			zap.Error(err),
		)
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		// 複合菜名查不到是常態（404），不是錯誤
		common.LogDebug("FlavorDB 無直接配對",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("ingredient", ingredient),
		)
		return nil
	}

	return result.Ingredients
}
