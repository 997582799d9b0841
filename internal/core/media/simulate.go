package media

import "math"

const hashRange = 2147483647

// Simulate 以曲目 id 決定性地合成聲學特徵。
// 同一個 id 永遠得到同一組特徵，讓「同一首歌推同一批菜」
// 不依賴已停用的上游特徵端點。純函數，無失敗模式。
func Simulate(id string) AudioFeatures {
	var hash int32
	for _, c := range id {
		hash = hash*31 + int32(c)
	}
	if hash < 0 {
		hash = -hash
	}
	seed := float64(hash) / hashRange

	energy := 0.3 + seed*0.7
	valence := 0.2 + math.Mod(seed*12345, 1)*0.8
	tempo := 80 + int(math.Floor(seed*100))

	return AudioFeatures{
		TempoBPM: tempo,
		Energy:   energy,
		Valence:  valence,
	}
}
