package media

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		energy  float64
		valence float64
		want    Mood
	}{
		{"高能量高正向", 0.9, 0.9, MoodEnergetic},
		{"低能量低正向", 0.2, 0.2, MoodMelancholic},
		{"高能量低正向", 0.9, 0.1, MoodStressed},
		{"低能量高正向", 0.3, 0.9, MoodHappy},
		{"低能量中正向", 0.45, 0.3, MoodRelaxed},
		{"中能量中正向落預設", 0.55, 0.55, MoodChill},

		// 邊界值不觸發比較嚴的規則，落到後面的規則或預設
		{"energy 剛好 0.6", 0.6, 0.9, MoodChill},
		{"valence 剛好 0.6", 0.9, 0.6, MoodChill},
		{"energy 剛好 0.4 valence 低", 0.4, 0.2, MoodRelaxed},
		{"energy 剛好 0.5", 0.5, 0.3, MoodChill},
		{"兩者皆零", 0.0, 0.0, MoodMelancholic},
		{"兩者皆一", 1.0, 1.0, MoodEnergetic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(AudioFeatures{Energy: tt.energy, Valence: tt.valence})
			if got != tt.want {
				t.Errorf("Classify(energy=%v, valence=%v) = %v, want %v",
					tt.energy, tt.valence, got, tt.want)
			}
		})
	}
}

func TestClassifyTotality(t *testing.T) {
	// 整個 [0,1]×[0,1] 網格掃一遍，每一點都要對到六個標籤之一
	valid := map[Mood]bool{
		MoodEnergetic: true, MoodMelancholic: true, MoodStressed: true,
		MoodHappy: true, MoodRelaxed: true, MoodChill: true,
	}

	for e := 0.0; e <= 1.0; e += 0.05 {
		for v := 0.0; v <= 1.0; v += 0.05 {
			got := Classify(AudioFeatures{Energy: e, Valence: v})
			if !valid[got] {
				t.Fatalf("Classify(energy=%v, valence=%v) 回傳未定義標籤 %q", e, v, got)
			}
		}
	}
}
