package scoring

import (
	"math"
	"sort"

	"github.com/lshigami/pte-scorer/internal/model"
)

const unknownComponentWeight = 0.1

var spokenWeights = map[model.Component]float64{
	model.ComponentContent:       0.4,
	model.ComponentFluency:       0.3,
	model.ComponentPronunciation: 0.3,
	model.ComponentAccuracy:      1.0,
}

var writtenWeights = map[model.Component]float64{
	model.ComponentContent:    0.3,
	model.ComponentGrammar:    0.2,
	model.ComponentVocabulary: 0.2,
	model.ComponentSpelling:   0.1,
	model.ComponentStructure:  0.2,
	model.ComponentAccuracy:   1.0,
}

func componentWeight(qt model.QuestionType, c model.Component) float64 {
	weights := writtenWeights
	if qt.IsSpoken() {
		weights = spokenWeights
	}
	if w, ok := weights[c]; ok {
		return w
	}
	return unknownComponentWeight
}

// Aggregate returns the overall score on the 0-90 scale, rounded to one decimal.
// A supplied overall score wins; otherwise present components are averaged with
// weights normalized over the components actually present. No evidence yields 0.
func Aggregate(feedback model.RubricFeedback, qt model.QuestionType) float64 {
	if feedback.OverallScore != nil {
		return round1(clamp(*feedback.OverallScore, 0, model.MaxScore))
	}

	names := make([]string, 0, len(feedback.Components))
	for c := range feedback.Components {
		names = append(names, string(c))
	}
	sort.Strings(names)

	var weighted, total float64
	for _, name := range names {
		c := model.Component(name)
		cs := feedback.Components[c]
		limit := cs.Max
		if limit <= 0 {
			limit = model.MaxScore
		}
		w := componentWeight(qt, c)
		weighted += w * clamp(cs.Score/limit, 0, 1)
		total += w
	}
	if total == 0 {
		return 0
	}
	return round1(weighted / total * model.MaxScore)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
