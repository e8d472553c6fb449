package domain

// Recommendation is the loan decision derived from a score.
type Recommendation string

const (
	Recommended    Recommendation = "Recommended"
	NotRecommended Recommendation = "Not Recommended"
)

// Prediction is the response of the scoring service.
type Prediction struct {
	Probability    float64        `json:"probability"`
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
}

// ProbabilityToScore converts a default probability to an integer score out
// of 100, truncating.
func ProbabilityToScore(p float64) int {
	return int(p * 100)
}

// RecommendationFromScore recommends when score is strictly above cutoff.
func RecommendationFromScore(score, cutoff int) Recommendation {
	if score > cutoff {
		return Recommended
	}
	return NotRecommended
}

// NewPrediction assembles a prediction from a probability and a decision
// threshold expressed as a probability.
func NewPrediction(p, threshold float64) Prediction {
	score := ProbabilityToScore(p)
	return Prediction{
		Probability:    p,
		Score:          score,
		Recommendation: RecommendationFromScore(score, ProbabilityToScore(threshold)),
	}
}
