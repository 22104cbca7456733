package contracts

import "math"

// DerivedRating maps a 0-100 engine score to a 1.0-5.0 analyst-style rating.
// 5개 구간 piecewise-linear, 높은 구간부터 평가 — 경계 점수는 항상 윗 구간.
// 결과는 소수 1자리 반올림 후 [1.0, 5.0]으로 클램프.
func DerivedRating(score int) float64 {
	var rating float64

	switch {
	case score >= 91:
		rating = 4.6 + float64(score-91)*0.04
	case score >= 76:
		rating = 4.1 + float64(score-76)*0.027
	case score >= 61:
		rating = 3.1 + float64(score-61)*0.06
	case score >= 41:
		rating = 2.1 + float64(score-41)*0.045
	default:
		rating = 1.0 + float64(score)*0.025
	}

	rating = math.Round(rating*10) / 10

	if rating < 1.0 {
		return 1.0
	}
	if rating > 5.0 {
		return 5.0
	}
	return rating
}
