package media

import "testing"

func TestSimulateDeterministic(t *testing.T) {
	ids := []string{
		"4uLU6hMCjMI75M1A2tKUQC",
		"track-abc",
		"",
		"中文識別碼",
	}

	for _, id := range ids {
		first := Simulate(id)
		second := Simulate(id)
		if first != second {
			t.Errorf("Simulate(%q) 不是決定性的: %+v != %+v", id, first, second)
		}
	}
}

func TestSimulateRanges(t *testing.T) {
	ids := []string{"a", "bb", "ccc", "dddd", "longer-track-identifier-0001", "負雜湊測試用超長識別碼字串"}

	for _, id := range ids {
		f := Simulate(id)
		if f.Energy < 0.3 || f.Energy > 1.0 {
			t.Errorf("Simulate(%q).Energy = %v，超出 [0.3, 1.0]", id, f.Energy)
		}
		if f.Valence < 0.2 || f.Valence > 1.0 {
			t.Errorf("Simulate(%q).Valence = %v，超出 [0.2, 1.0]", id, f.Valence)
		}
		if f.TempoBPM < 80 || f.TempoBPM > 180 {
			t.Errorf("Simulate(%q).TempoBPM = %v，超出 [80, 180]", id, f.TempoBPM)
		}
	}
}

func TestSimulateDistinguishesIDs(t *testing.T) {
	// 不同 id 幾乎都該有不同特徵；全部相同代表雜湊壞掉
	a := Simulate("track-a")
	b := Simulate("track-b")
	c := Simulate("track-c")
	if a == b && b == c {
		t.Error("三個不同 id 產生完全相同的特徵")
	}
}
