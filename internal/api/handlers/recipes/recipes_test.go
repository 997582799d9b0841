package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vibebite/internal/core/flavor"
	"vibebite/internal/core/media"
	"vibebite/internal/core/registry"
	"vibebite/internal/core/search"
	"vibebite/internal/infrastructure/config"
	"vibebite/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// offlineProvider 上游永遠失敗，池只剩種子資料
type offlineProvider struct{}

func (offlineProvider) FetchPage(ctx context.Context, page, limit int) ([]common.RawRecipeRecord, error) {
	return nil, common.ErrUpstreamUnavailable
}

func (offlineProvider) FetchByID(ctx context.Context, id string) (*common.RawRecipeRecord, error) {
	return nil, common.ErrUpstreamUnavailable
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := registry.NewRegistry(offlineProvider{}, &config.FoodoscopeConfig{
		PageSize: 10,
		Pages:    []int{1},
		PoolTTL:  time.Hour,
		Cooldown: time.Minute,
	})
	engine := search.NewEngine(reg, flavor.NewExpander(nil, nil), nil, nil, &config.SearchConfig{
		MaxResults:       12,
		HighProteinMinG:  15,
		KetoCarbMaxG:     20,
		LowSodiumMaxMg:   400,
		StrictSodiumMxMg: 100,
		LowCalorieMax:    400,
	})
	handler := NewHandler(engine, reg, media.NewResolver(nil, nil))

	r := gin.New()
	r.GET("/api/v1/recipes", handler.HandleSearch)
	r.GET("/api/v1/recipes/:id", handler.HandleDetail)
	return r
}

func TestHandleSearchRequiresSelector(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("無任何條件應回 400，得到 %d", w.Code)
	}
}

func TestHandleSearchByFlavor(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes?flavor=energetic", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("預期 200，得到 %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Recipes []common.RecipeCard `json:"recipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("回應不是合法 JSON: %v", err)
	}
	if len(resp.Recipes) == 0 {
		t.Error("種子池非空，energetic 搜尋不應回空結果")
	}
}

func TestHandleSearchMediaSourceDegrades(t *testing.T) {
	// 媒體後端全掛：降級為一般搜尋而非報錯
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes?source=spotify&query=anything", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("媒體解析失敗應降級而非報錯，得到 %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleDetail(t *testing.T) {
	router := newTestRouter()

	// 種子紀錄
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/100001", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("種子紀錄應可查到，得到 %d", w.Code)
	}

	var detail common.RecipeDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("回應不是合法 JSON: %v", err)
	}
	if detail.ID != "100001" || detail.Title == "" {
		t.Errorf("詳情投影不完整: %+v", detail)
	}

	// 查無紀錄
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/999999", nil)
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusNotFound {
		t.Errorf("查無紀錄應回 404，得到 %d", w2.Code)
	}
}
