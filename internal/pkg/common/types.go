package common

import (
	"fmt"
	"strings"
)

// RawRecipeRecord Foodoscope 上游的原始食譜紀錄。
// 欄位名稱完全照上游 payload，只讀取、從不修改。
type RawRecipeRecord struct {
	ID          FlexString `json:"Recipe_id"`
	Title       string     `json:"Recipe_title"`
	ImageURL    string     `json:"img_url"`
	TotalTime   FlexNumber `json:"total_time"`
	Calories    FlexNumber `json:"Calories"`
	EnergyKcal  FlexNumber `json:"Energy (kcal)"`
	Protein     FlexNumber `json:"Protein (g)"`
	Carbs       FlexNumber `json:"Carbohydrate, by difference (g)"`
	Fat         FlexNumber `json:"Total lipid (fat) (g)"`
	Sodium      FlexNumber `json:"Sodium, Na (mg)"`
	Region      string     `json:"Region"`
	SubRegion   string     `json:"Sub_region"`
	Processes   string     `json:"Processes"`
	Ingredients FlexStringList `json:"ingredients"`
}

// CaloriesKcal 取熱量：Calories 優先，缺了退回 Energy (kcal)
func (r *RawRecipeRecord) CaloriesKcal() float64 {
	if r.Calories != 0 {
		return r.Calories.Float()
	}
	return r.EnergyKcal.Float()
}

// Macros 三大營養素（公克）
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// RecipeCard 對外的食譜卡片投影
type RecipeCard struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Image           string  `json:"image"`
	Time            string  `json:"time"`
	Calories        float64 `json:"calories"`
	Sodium          float64 `json:"sodium"`
	Rating          float64 `json:"rating"`
	ScientificMatch string  `json:"scientificMatch"`
	Macros          Macros  `json:"macros"`
	Region          string  `json:"region"`
	SubRegion       string  `json:"subRegion,omitempty"`
}

// RecipeDetail 單筆食譜詳情（/recipes/:id）
type RecipeDetail struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Time        string   `json:"time"`
	Calories    float64  `json:"calories"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Macros      Macros   `json:"macros"`
	Region      string   `json:"region"`
	SubRegion   string   `json:"subRegion,omitempty"`
}

// ScientificAnalysis 透明化資訊：這首歌為什麼對到這些食物
type ScientificAnalysis struct {
	BPM       int      `json:"bpm"`
	Energy    float64  `json:"energy"`
	Valence   float64  `json:"valence"`
	Trigger   string   `json:"trigger"`
	Compounds []string `json:"compounds,omitempty"`
}

// GeneralMatch 沒有任何展開詞命中標題時的 scientificMatch 哨兵值
const GeneralMatch = "General Match"

// defaultRating 上游沒有評分資料，卡片一律給固定值
const defaultRating = 4.5

// fallbackImages 上游缺圖時依標題雜湊挑一張
var fallbackImages = []string{
	"https://images.unsplash.com/photo-1546069901-ba9599a7e63c",
	"https://images.unsplash.com/photo-1504674900247-0877df9cc836",
	"https://images.unsplash.com/photo-1490645935967-10de6ba17061",
	"https://images.unsplash.com/photo-1551183053-bf91a1d81141",
	"https://images.unsplash.com/photo-1565958011703-44f9829ba187",
	"https://images.unsplash.com/photo-1568901346375-23c9450c58cd",
}

// FallbackImage 依標題決定替代圖片，同一標題永遠同一張
func FallbackImage(title string) string {
	var hash int32
	for _, c := range title {
		hash = hash*31 + int32(c)
	}
	if hash < 0 {
		hash = -hash
	}
	return fallbackImages[int(hash)%len(fallbackImages)]
}

// NewRecipeCard 將原始紀錄投影成卡片。match 為觸發收錄的展開詞，空字串表示一般匹配。
func NewRecipeCard(r *RawRecipeRecord, match string) RecipeCard {
	title := r.Title
	if title == "" {
		title = "Unknown Recipe"
	}
	image := r.ImageURL
	if image == "" {
		image = FallbackImage(title)
	}
	totalTime := r.TotalTime.Float()
	if totalTime == 0 {
		totalTime = 30
	}
	if match == "" {
		match = GeneralMatch
	}
	return RecipeCard{
		ID:              r.ID.String(),
		Title:           title,
		Image:           image,
		Time:            fmt.Sprintf("%d min", int(totalTime)),
		Calories:        r.CaloriesKcal(),
		Sodium:          r.Sodium.Float(),
		Rating:          defaultRating,
		ScientificMatch: match,
		Macros: Macros{
			Protein: r.Protein.Float(),
			Carbs:   r.Carbs.Float(),
			Fat:     r.Fat.Float(),
		},
		Region:    regionOrGlobal(r.Region),
		SubRegion: r.SubRegion,
	}
}

// NewRecipeDetail 將原始紀錄投影成詳情
func NewRecipeDetail(r *RawRecipeRecord) RecipeDetail {
	card := NewRecipeCard(r, "")
	// Processes 以 "||" 分隔步驟，接成可讀描述
	description := strings.ReplaceAll(r.Processes, "||", ". ")
	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return RecipeDetail{
		ID:          card.ID,
		Title:       card.Title,
		Image:       card.Image,
		Time:        card.Time,
		Calories:    card.Calories,
		Description: description,
		Ingredients: ingredients,
		Macros:      card.Macros,
		Region:      card.Region,
		SubRegion:   card.SubRegion,
	}
}

func regionOrGlobal(region string) string {
	if strings.TrimSpace(region) == "" {
		return "Global"
	}
	return region
}
