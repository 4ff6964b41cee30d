package model

type ComponentScore struct {
	Score      float64 `json:"score"`
	Max        float64 `json:"max"`
	Suggestion string  `json:"suggestion"`
}

type WordStatus string

const (
	WordGood     WordStatus = "good"
	WordAverage  WordStatus = "average"
	WordPoor     WordStatus = "poor"
	WordOmitted  WordStatus = "omitted"
	WordInserted WordStatus = "inserted"
)

type WordAnalysis struct {
	Word   string     `json:"word"`
	Status WordStatus `json:"status"`
}

// RubricFeedback is the validated result of one scoring run.
type RubricFeedback struct {
	Components          map[Component]ComponentScore `json:"components"`
	OverallScore        *float64                     `json:"overall_score,omitempty"`
	Strengths           []string                     `json:"strengths"`
	AreasForImprovement []string                     `json:"areas_for_improvement"`
	Suggestions         []string                     `json:"suggestions"`
	WordAnalysis        []WordAnalysis               `json:"word_analysis,omitempty"`
}

// ObjectiveSignals are deterministic, advisory features of a response.
type ObjectiveSignals struct {
	KeywordHits     int      `json:"keyword_hits"`
	KeywordTotal    int      `json:"keyword_total"`
	MatchedKeywords []string `json:"matched_keywords"`
	WordCount       int      `json:"word_count"`
	// SpeakingRateWPM is nil when no word timings are available.
	SpeakingRateWPM *float64 `json:"speaking_rate_wpm,omitempty"`
	OptionMatches   int      `json:"option_matches,omitempty"`
	OptionTotal     int      `json:"option_total,omitempty"`
}
