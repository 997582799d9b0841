package media

import (
	"context"
	"math/rand"
	"strings"
	"testing"
)

// stubProvider 可程式化的假搜尋後端
type stubProvider struct {
	track       *Track
	features    *AudioFeatures
	lastQuery   string
	lastOffset  int
	searchCalls int
}

func (s *stubProvider) Search(ctx context.Context, query string, offset int) *Track {
	s.searchCalls++
	s.lastQuery = query
	s.lastOffset = offset
	return s.track
}

func (s *stubProvider) Features(ctx context.Context, trackID string) *AudioFeatures {
	return s.features
}

func TestResolveNilProvider(t *testing.T) {
	r := NewResolver(nil, nil)
	if got := r.Resolve(context.Background(), "anything", 0); got != nil {
		t.Errorf("無後端時 Resolve 應回 nil，得到 %+v", got)
	}
	if got := r.Discover(context.Background()); got != nil {
		t.Errorf("無後端時 Discover 應回 nil，得到 %+v", got)
	}
}

func TestResolveProviderAlwaysFails(t *testing.T) {
	// 上游永遠找不到：回 nil、不 panic
	r := NewResolver(&stubProvider{}, nil)
	if got := r.Resolve(context.Background(), "anything", 0); got != nil {
		t.Errorf("上游回 nil 時 Resolve 應回 nil，得到 %+v", got)
	}
}

func TestDiscoverPinnedSequence(t *testing.T) {
	stub := &stubProvider{track: &Track{ID: "t1"}}
	r := NewResolver(stub, rand.New(rand.NewSource(42)))

	track := r.Discover(context.Background())
	if track == nil {
		t.Fatal("Discover 應回傳曲目")
	}
	if !strings.HasSuffix(stub.lastQuery, "%") {
		t.Errorf("探索查詢應以 %% 結尾，得到 %q", stub.lastQuery)
	}
	if len(stub.lastQuery) != 2 {
		t.Errorf("探索查詢應為單字母加萬用字元，得到 %q", stub.lastQuery)
	}
	if stub.lastOffset < 0 || stub.lastOffset >= 50 {
		t.Errorf("探索位移應在 [0, 50)，得到 %d", stub.lastOffset)
	}

	// 同一個種子重建，序列要可重現
	stub2 := &stubProvider{track: &Track{ID: "t1"}}
	r2 := NewResolver(stub2, rand.New(rand.NewSource(42)))
	r2.Discover(context.Background())
	if stub2.lastQuery != stub.lastQuery || stub2.lastOffset != stub.lastOffset {
		t.Errorf("釘住種子後序列不可重現: (%q,%d) != (%q,%d)",
			stub2.lastQuery, stub2.lastOffset, stub.lastQuery, stub.lastOffset)
	}
}

func TestFeaturesFallsBackToSimulate(t *testing.T) {
	tests := []struct {
		name     string
		provider SearchProvider
	}{
		{"無後端", nil},
		{"後端特徵失敗", &stubProvider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.provider, nil)
			got := r.Features(context.Background(), "some-track")
			want := Simulate("some-track")
			if got != want {
				t.Errorf("特徵退回模擬失敗: %+v != %+v", got, want)
			}
		})
	}
}

func TestFeaturesPrefersProvider(t *testing.T) {
	live := &AudioFeatures{TempoBPM: 128, Energy: 0.77, Valence: 0.66}
	r := NewResolver(&stubProvider{features: live}, nil)
	got := r.Features(context.Background(), "some-track")
	if got != *live {
		t.Errorf("上游特徵可用時應直接採用: %+v != %+v", got, *live)
	}
}
