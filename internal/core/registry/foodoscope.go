package registry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Provider 食譜資料庫的分頁抓取介面。
// 呼叫端不假設伺服器端過濾可靠，所有過濾都在客戶端做。
type Provider interface {
	// FetchPage 抓取一頁原始食譜紀錄
	FetchPage(ctx context.Context, page, limit int) ([]common.RawRecipeRecord, error)

	// FetchByID 以識別碼抓取單筆紀錄，找不到回傳 nil
	FetchByID(ctx context.Context, id string) (*common.RawRecipeRecord, error)
}

// FoodoscopeClient Foodoscope recipe2-api 客戶端
type FoodoscopeClient struct {
	client *resty.Client
	apiKey string
}

type recipesResponse struct {
	Payload struct {
		Data []common.RawRecipeRecord `json:"data"`
	} `json:"payload"`
}

// NewFoodoscopeClient 創建 Foodoscope 客戶端
func NewFoodoscopeClient(cfg *config.FoodoscopeConfig) *FoodoscopeClient {
	return &FoodoscopeClient{
		client: resty.New().SetBaseURL(cfg.BaseURL),
		apiKey: cfg.APIKey,
	}
}

// FetchPage 實現 Provider 介面
func (c *FoodoscopeClient) FetchPage(ctx context.Context, page, limit int) ([]common.RawRecipeRecord, error) {
	result, err := c.fetch(ctx, map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}
	return result.Payload.Data, nil
}

// FetchByID 實現 Provider 介面
func (c *FoodoscopeClient) FetchByID(ctx context.Context, id string) (*common.RawRecipeRecord, error) {
	result, err := c.fetch(ctx, map[string]string{
		"Recipe_id": id,
		"limit":     "1",
	})
	if err != nil {
		return nil, err
	}
	if len(result.Payload.Data) == 0 {
		return nil, nil
	}
	return &result.Payload.Data[0], nil
}

func (c *FoodoscopeClient) fetch(ctx context.Context, params map[string]string) (*recipesResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("foodoscope api key not set: %w", common.ErrUpstreamUnavailable)
	}

	// 帶時間戳避免中間層快取到過期頁
	params["_"] = strconv.FormatInt(time.Now().UnixMilli(), 10)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetQueryParams(params).
		Get("/recipe/recipesinfo")

	common.LogUpstreamCall("foodoscope", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("foodoscope request failed: %w", common.ErrUpstreamUnavailable)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, common.ErrUpstreamRateLimited
	case resp.StatusCode() != http.StatusOK:
		common.LogWarn("Foodoscope 回應異常",
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("foodoscope status %d: %w", resp.StatusCode(), common.ErrUpstreamUnavailable)
	}

	var result recipesResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("foodoscope payload: %w", common.ErrMalformedResponse)
	}
	return &result, nil
}
