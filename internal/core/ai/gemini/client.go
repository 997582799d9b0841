// Package gemini 包裝 Google 生成式語言服務。
// 429 是獨立的預期失敗模式，呼叫端據此走罐頭 fallback 而不是重試。
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Gemini 客戶端
type Client struct {
	client *resty.Client
	config *config.GeminiConfig
}

// GenerateConfig 生成參數：低溫度換穩定、maxOutputTokens 限制長度、
// JSONMode 要求嚴格 JSON 輸出
type GenerateConfig struct {
	Temperature     float64
	MaxOutputTokens int
	JSONMode        bool
}

// 請求與回應結構（只取用到的欄位）
type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg *config.GeminiConfig) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		client: client,
		config: cfg,
	}
}

// Enabled 回報是否有可用憑證
func (c *Client) Enabled() bool {
	return c.config.APIKey != ""
}

// Generate 送出 prompt 取回文字。錯誤一律對映到 common 的哨兵分類，
// 呼叫端用 errors.Is 分流 fallback。
func (c *Client) Generate(ctx context.Context, prompt string, genCfg GenerateConfig) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("gemini api key not set: %w", common.ErrUpstreamUnavailable)
	}

	req := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     genCfg.Temperature,
			MaxOutputTokens: genCfg.MaxOutputTokens,
		},
	}
	if genCfg.JSONMode {
		req.GenerationConfig.ResponseMimeType = "application/json"
	}

	start := time.Now()
	var result generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.APIKey).
		SetBody(&req).
		SetResult(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Model))

	common.LogUpstreamCall("gemini", time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", common.ErrUpstreamUnavailable)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		common.LogWarn("Gemini 限流 (429)，走罐頭 fallback")
		return "", common.ErrUpstreamRateLimited
	case resp.StatusCode() != http.StatusOK:
		common.LogWarn("Gemini 回應異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Model),
		)
		return "", fmt.Errorf("gemini status %d: %w", resp.StatusCode(), common.ErrUpstreamUnavailable)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates: %w", common.ErrMalformedResponse)
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty content: %w", common.ErrMalformedResponse)
	}
	return text, nil
}
