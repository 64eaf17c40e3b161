package internal

import "math"

// validateScores checks every provided sub-score lies in [1,10].
func validateScores(s Scores) bool {
	marks := []int{s.Innovation, s.Technical, s.Feasibility, s.Presentation}
	if s.Impact != nil {
		marks = append(marks, *s.Impact)
	}
	for _, m := range marks {
		if m < 1 || m > 10 {
			return false
		}
	}
	return true
}

// overallScore is the unweighted mean of the sub-scores, one decimal place.
func overallScore(s Scores) float64 {
	sum := s.Innovation + s.Technical + s.Feasibility + s.Presentation
	n := 4
	if s.Impact != nil {
		sum += *s.Impact
		n++
	}
	return round1(float64(sum) / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
