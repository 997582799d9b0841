// Package youtube 實作以 YouTube Data API v3 為後端的曲目搜尋。
// YouTube 沒有聲學特徵端點，Features 一律回 nil 讓呼叫端走模擬。
package youtube

import (
	"context"
	"net/http"

	"vibebite/internal/core/media"
	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://www.googleapis.com/youtube/v3"

// 音樂類別 ID，把搜尋偏向音樂影片
const musicCategoryID = "10"

// Client YouTube 搜尋後端
type Client struct {
	client *resty.Client
	apiKey string
}

// searchResponse YouTube 搜尋回應（只取用到的欄位）
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// New 創建 YouTube 搜尋後端
func New(cfg *config.YouTubeConfig) *Client {
	if cfg.APIKey == "" {
		common.LogError("YouTube API Key 未設定，曲目搜尋後端停用")
	}
	return &Client{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: cfg.APIKey,
	}
}

// Search 實現 media.SearchProvider 介面。
// 查詢補上 "song" 偏向音樂結果；offset 對 YouTube 無分頁意義，忽略。
func (c *Client) Search(ctx context.Context, query string, offset int) *media.Track {
	if c.apiKey == "" {
		return nil
	}

	var result searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":            "snippet",
			"q":               query + " song",
			"type":            "video",
			"videoCategoryId": musicCategoryID,
			"maxResults":      "1",
			"key":             c.apiKey,
		}).
		SetResult(&result).
		Get("/search")

	if err != nil {
		common.LogWarn("YouTube 搜尋失敗", zap.String("query", query), zap.Error(err))
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("YouTube 搜尋回應異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("query", query),
		)
		return nil
	}
	if len(result.Items) == 0 {
		return nil
	}

	item := result.Items[0]
	cover := item.Snippet.Thumbnails.High.URL
	if cover == "" {
		cover = item.Snippet.Thumbnails.Default.URL
	}

	return &media.Track{
		ID:         item.ID.VideoID,
		Title:      item.Snippet.Title,
		Artist:     item.Snippet.ChannelTitle, // 頻道名稱當作藝人
		AlbumImage: cover,
		SongURL:    "https://www.youtube.com/watch?v=" + item.ID.VideoID,
	}
}

// Features 實現 media.SearchProvider 介面
func (c *Client) Features(ctx context.Context, trackID string) *media.AudioFeatures {
	return nil
}
