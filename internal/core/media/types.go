package media

import "context"

// Track 由上游搜尋解析出的曲目描述，回傳後即不可變
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	AlbumImage string `json:"albumImage"`
	SongURL    string `json:"songUrl"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// AudioFeatures 心情分類用的聲學特徵
type AudioFeatures struct {
	TempoBPM int     `json:"bpm"`
	Energy   float64 `json:"energy"`
	Valence  float64 `json:"valence"`
}

// SearchProvider 可插拔的上游曲目搜尋後端。
// 任何上游錯誤（非 2xx、網路失敗、格式不符、缺憑證）都回傳 (nil, nil)，
// 呼叫端把 nil 視為「找不到」而非致命錯誤。
type SearchProvider interface {
	// Search 以自由文字搜尋單一曲目
	Search(ctx context.Context, query string, offset int) *Track

	// Features 取得曲目聲學特徵，失敗回傳 nil（呼叫端改用模擬）
	Features(ctx context.Context, trackID string) *AudioFeatures
}
