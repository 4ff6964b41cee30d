package scoring

import (
	"math/rand"
	"testing"

	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/stretchr/testify/assert"
)

func components(scores map[model.Component]float64) map[model.Component]model.ComponentScore {
	out := make(map[model.Component]model.ComponentScore, len(scores))
	for c, s := range scores {
		out[c] = model.ComponentScore{Score: s, Max: model.MaxScore}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		feedback model.RubricFeedback
		qt       model.QuestionType
		want     float64
	}{
		{
			name: "essay with all five components",
			feedback: model.RubricFeedback{Components: components(map[model.Component]float64{
				model.ComponentContent:    70,
				model.ComponentGrammar:    65,
				model.ComponentVocabulary: 72,
				model.ComponentSpelling:   80,
				model.ComponentStructure:  68,
			})},
			qt:   model.Essay,
			want: 70.0,
		},
		{
			name: "speaking with all components",
			feedback: model.RubricFeedback{Components: components(map[model.Component]float64{
				model.ComponentContent:       70,
				model.ComponentFluency:       60,
				model.ComponentPronunciation: 50,
			})},
			qt:   model.ReadAloud,
			want: 61.0,
		},
		{
			name: "speaking subset renormalizes weights",
			feedback: model.RubricFeedback{Components: components(map[model.Component]float64{
				model.ComponentContent: 80,
				model.ComponentFluency: 60,
			})},
			qt:   model.RetellLecture,
			want: 71.4,
		},
		{
			name: "unknown component gets a small weight",
			feedback: model.RubricFeedback{Components: components(map[model.Component]float64{
				model.ComponentContent: 90,
				"coherence":            0,
			})},
			qt:   model.Essay,
			want: 67.5,
		},
		{
			name: "component on a smaller scale is normalized",
			feedback: model.RubricFeedback{Components: map[model.Component]model.ComponentScore{
				model.ComponentAccuracy: {Score: 1, Max: 2},
			}},
			qt:   model.WriteFromDictation,
			want: 45.0,
		},
		{
			name: "supplied overall is authoritative",
			feedback: model.RubricFeedback{
				OverallScore: ptr(42.04),
				Components:   components(map[model.Component]float64{model.ComponentContent: 90}),
			},
			qt:   model.Essay,
			want: 42.0,
		},
		{
			name:     "nothing present",
			feedback: model.RubricFeedback{},
			qt:       model.Essay,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.feedback, tt.qt))
		})
	}
}

func TestAggregate_StaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	types := model.AllQuestionTypes()
	all := []model.Component{
		model.ComponentContent, model.ComponentFluency, model.ComponentPronunciation, model.ComponentGrammar,
		model.ComponentVocabulary, model.ComponentSpelling, model.ComponentStructure, model.ComponentAccuracy,
	}

	for i := 0; i < 500; i++ {
		fb := model.RubricFeedback{Components: map[model.Component]model.ComponentScore{}}
		for _, c := range all {
			if rng.Intn(2) == 0 {
				fb.Components[c] = model.ComponentScore{Score: rng.Float64()*200 - 50, Max: model.MaxScore}
			}
		}
		if rng.Intn(5) == 0 {
			fb.OverallScore = ptr(rng.Float64()*200 - 50)
		}
		got := Aggregate(fb, types[rng.Intn(len(types))])
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, model.MaxScore)
	}
}
