package schema

// SubScoreKey identifies one of the six quality dimensions.
type SubScoreKey string

// Sub-score keys, matching the field names of the augmentation response.
const (
	SubScoreMessage       SubScoreKey = "commit_message"
	SubScoreComplexity    SubScoreKey = "code_complexity"
	SubScoreDocumentation SubScoreKey = "documentation"
	SubScoreTestCoverage  SubScoreKey = "test_coverage"
	SubScoreConsistency   SubScoreKey = "consistency"
	SubScoreBestPractices SubScoreKey = "best_practices"
)

// SubScoreKeys lists the six dimensions in weighting order.
var SubScoreKeys = []SubScoreKey{
	SubScoreMessage,
	SubScoreComplexity,
	SubScoreDocumentation,
	SubScoreTestCoverage,
	SubScoreConsistency,
	SubScoreBestPractices,
}

// DefaultQualityWeights returns the weights applied to the six sub-scores
// when computing a commit's overall quality. They sum to 1.0.
func DefaultQualityWeights() map[SubScoreKey]float64 {
	return map[SubScoreKey]float64{
		SubScoreMessage:       0.15,
		SubScoreComplexity:    0.25,
		SubScoreDocumentation: 0.15,
		SubScoreTestCoverage:  0.20,
		SubScoreConsistency:   0.15,
		SubScoreBestPractices: 0.10,
	}
}

// NeutralScore is the fallback value for any quality dimension.
const NeutralScore = 50

// UnavailableSummary is the summary attached to fallback scores.
const UnavailableSummary = "Analysis unavailable"

// QualityScores holds the six sub-scores plus the derived overall score for
// one commit. All values live in [0,100].
type QualityScores struct {
	SHA           string  `json:"sha"`
	Message       float64 `json:"commit_message_score"`
	Complexity    float64 `json:"code_complexity_score"`
	Documentation float64 `json:"documentation_score"`
	TestCoverage  float64 `json:"test_coverage_score"`
	Consistency   float64 `json:"consistency_score"`
	BestPractices float64 `json:"best_practices_score"`
	Overall       float64 `json:"overall_score"`
	Summary       string  `json:"summary"`
	ByLLM         bool    `json:"analyzed_by_llm"`
}

// Sub returns the sub-score stored under key.
func (q QualityScores) Sub(key SubScoreKey) float64 {
	switch key {
	case SubScoreMessage:
		return q.Message
	case SubScoreComplexity:
		return q.Complexity
	case SubScoreDocumentation:
		return q.Documentation
	case SubScoreTestCoverage:
		return q.TestCoverage
	case SubScoreConsistency:
		return q.Consistency
	case SubScoreBestPractices:
		return q.BestPractices
	}
	return NeutralScore
}

// SetSub stores v under key.
func (q *QualityScores) SetSub(key SubScoreKey, v float64) {
	switch key {
	case SubScoreMessage:
		q.Message = v
	case SubScoreComplexity:
		q.Complexity = v
	case SubScoreDocumentation:
		q.Documentation = v
	case SubScoreTestCoverage:
		q.TestCoverage = v
	case SubScoreConsistency:
		q.Consistency = v
	case SubScoreBestPractices:
		q.BestPractices = v
	}
}

// DefaultQualityScores returns the neutral fallback object used whenever
// augmentation cannot produce a usable result.
func DefaultQualityScores() QualityScores {
	return QualityScores{
		Message:       NeutralScore,
		Complexity:    NeutralScore,
		Documentation: NeutralScore,
		TestCoverage:  NeutralScore,
		Consistency:   NeutralScore,
		BestPractices: NeutralScore,
		Overall:       NeutralScore,
		Summary:       UnavailableSummary,
	}
}

// QualitySummary maps an overall score onto its one-line description.
func QualitySummary(overall float64) string {
	switch {
	case overall >= 80:
		return "High quality contribution"
	case overall >= 60:
		return "Good quality with minor improvements possible"
	case overall >= 40:
		return "Acceptable quality, consider improvements"
	default:
		return "Quality concerns detected"
	}
}
