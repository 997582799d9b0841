package media

// Mood 離散心情標籤
type Mood string

// 六種心情，Chill 為預設
const (
	MoodEnergetic   Mood = "Energetic"
	MoodMelancholic Mood = "Melancholic"
	MoodStressed    Mood = "Stressed"
	MoodHappy       Mood = "Happy"
	MoodRelaxed     Mood = "Relaxed"
	MoodChill       Mood = "Chill"
)

// Classify 將 (energy, valence) 對映到心情標籤。
// 規則依序比對、先中先贏；邊界值（剛好 0.5、0.6、0.4）落到下一條規則或預設。
// 順序即語意，調整前先看過 mood_test.go 的邊界表。
func Classify(f AudioFeatures) Mood {
	switch {
	case f.Energy > 0.6 && f.Valence > 0.6:
		return MoodEnergetic
	case f.Energy < 0.4 && f.Valence < 0.4:
		return MoodMelancholic
	case f.Energy > 0.6 && f.Valence < 0.4:
		return MoodStressed
	case f.Energy < 0.5 && f.Valence > 0.6:
		return MoodHappy
	case f.Energy < 0.5:
		return MoodRelaxed
	default:
		return MoodChill
	}
}
