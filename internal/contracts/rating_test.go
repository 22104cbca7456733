package contracts

import "testing"

func TestDerivedRating_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  float64
	}{
		// 하단 구간 (score < 41)
		{0, 1.0},
		{20, 1.5},
		{40, 2.0},
		// 41-60 구간
		{41, 2.1},
		{50, 2.5},
		{60, 3.0},
		// 61-75 구간
		{61, 3.1},
		{65, 3.3},
		{75, 3.9},
		// 76-90 구간
		{76, 4.1},
		{85, 4.3},
		{90, 4.5},
		// 91-100 구간
		{91, 4.6},
		{95, 4.8},
		{100, 5.0},
	}

	for _, tt := range tests {
		got := DerivedRating(tt.score)
		if got != tt.want {
			t.Errorf("DerivedRating(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestDerivedRating_Monotonic(t *testing.T) {
	prev := DerivedRating(0)
	for score := 1; score <= 100; score++ {
		got := DerivedRating(score)
		if got < prev {
			t.Errorf("DerivedRating(%d) = %v is lower than DerivedRating(%d) = %v",
				score, got, score-1, prev)
		}
		prev = got
	}
}

func TestDerivedRating_Range(t *testing.T) {
	for score := 0; score <= 100; score++ {
		got := DerivedRating(score)
		if got < 1.0 || got > 5.0 {
			t.Errorf("DerivedRating(%d) = %v, outside [1.0, 5.0]", score, got)
		}
	}
}

func TestIsKoreanTicker(t *testing.T) {
	tests := []struct {
		ticker string
		want   bool
	}{
		{"005930", true},
		{"000660", true},
		{"AAPL", false},
		{"BRK.B", false},
		{"", false},
		{"12345A", false},
	}

	for _, tt := range tests {
		if got := IsKoreanTicker(tt.ticker); got != tt.want {
			t.Errorf("IsKoreanTicker(%q) = %v, want %v", tt.ticker, got, tt.want)
		}
	}
}
