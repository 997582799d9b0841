// Package spotify 實作以 Spotify Web API 為後端的曲目搜尋。
package spotify

import (
	"context"
	"math"

	"vibebite/internal/core/media"
	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// Client Spotify 搜尋後端。缺憑證時 api 為 nil，所有查詢直接回 nil。
type Client struct {
	api *spotify.Client
}

// New 以 client credentials 流程建立 Spotify 後端。
// token 由 oauth2 HTTP client 在到期前自動換發，行程內不需手動快取。
func New(ctx context.Context, cfg *config.SpotifyConfig) *Client {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		common.LogError("Spotify 憑證未設定，曲目搜尋後端停用")
		return &Client{}
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	httpClient := creds.Client(ctx)
	return &Client{
		api: spotify.New(httpClient),
	}
}

// Search 實現 media.SearchProvider 介面
func (c *Client) Search(ctx context.Context, query string, offset int) *media.Track {
	if c.api == nil {
		return nil
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Limit(1), spotify.Offset(offset))
	if err != nil {
		common.LogWarn("Spotify 搜尋失敗",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil
	}

	track := result.Tracks.Tracks[0]
	artist := "Unknown"
	if len(track.Artists) > 0 {
		artist = track.Artists[0].Name
	}
	albumImage := ""
	if len(track.Album.Images) > 0 {
		albumImage = track.Album.Images[0].URL
	}

	return &media.Track{
		ID:         string(track.ID),
		Title:      track.Name,
		Artist:     artist,
		AlbumImage: albumImage,
		SongURL:    track.ExternalURLs["spotify"],
		PreviewURL: track.PreviewURL,
	}
}

// Features 實現 media.SearchProvider 介面。
// 特徵端點已列入淘汰，失敗屬常態，回 nil 讓呼叫端走模擬。
func (c *Client) Features(ctx context.Context, trackID string) *media.AudioFeatures {
	if c.api == nil {
		return nil
	}

	features, err := c.api.GetAudioFeatures(ctx, spotify.ID(trackID))
	if err != nil || len(features) == 0 || features[0] == nil {
		common.LogDebug("Spotify 特徵取得失敗，改用模擬",
			zap.String("track_id", trackID),
			zap.Error(err),
		)
		return nil
	}

	f := features[0]
	return &media.AudioFeatures{
		TempoBPM: int(math.Round(float64(f.Tempo))),
		Energy:   float64(f.Energy),
		Valence:  float64(f.Valence),
	}
}
