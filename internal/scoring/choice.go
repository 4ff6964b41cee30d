package scoring

import (
	"context"
	"fmt"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/model"
)

// ChoiceScorer scores option-based questions against the answer key without a model call.
type ChoiceScorer struct{}

func NewChoiceScorer() *ChoiceScorer {
	return &ChoiceScorer{}
}

func (s *ChoiceScorer) Score(ctx context.Context, req Request) (model.RubricFeedback, error) {
	q := req.Question
	correct := []string(q.CorrectOptionIDs)
	if len(correct) == 0 {
		return model.RubricFeedback{}, fmt.Errorf("%w: question %d has no answer key", apperr.ErrScoringProvider, q.ID)
	}

	var ratio float64
	switch q.Type {
	case model.ReorderParagraphs:
		ratio = adjacentPairRatio(req.SelectedOptionIDs, correct)
	case model.ReadingFillBlanks:
		ratio = positionalRatio(req.SelectedOptionIDs, correct)
	case model.ReadingMultipleChoiceMultiple, model.ListeningMultipleChoiceMultiple:
		ratio = correctMinusIncorrectRatio(req.SelectedOptionIDs, correct)
	default:
		if len(req.SelectedOptionIDs) == 1 && req.SelectedOptionIDs[0] == correct[0] {
			ratio = 1
		}
	}

	overall := round1(clamp(ratio, 0, 1) * model.MaxScore)
	return choiceFeedback(overall), nil
}

// correctMinusIncorrectRatio awards each correct pick and deducts each wrong one.
func correctMinusIncorrectRatio(selected, correct []string) float64 {
	key := toSet(correct)
	var right, wrong int
	for id := range toSet(selected) {
		if _, ok := key[id]; ok {
			right++
		} else {
			wrong++
		}
	}
	return float64(right-wrong) / float64(len(correct))
}

// adjacentPairRatio credits every pair that appears next to each other in the right order.
func adjacentPairRatio(selected, correct []string) float64 {
	if len(correct) < 2 {
		return positionalRatio(selected, correct)
	}
	next := make(map[string]string, len(correct)-1)
	for i := 0; i+1 < len(correct); i++ {
		next[correct[i]] = correct[i+1]
	}
	pairs := 0
	for i := 0; i+1 < len(selected); i++ {
		if next[selected[i]] == selected[i+1] {
			pairs++
		}
	}
	return float64(pairs) / float64(len(correct)-1)
}

func positionalRatio(selected, correct []string) float64 {
	hits := 0
	for i, id := range correct {
		if i < len(selected) && selected[i] == id {
			hits++
		}
	}
	return float64(hits) / float64(len(correct))
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func choiceFeedback(overall float64) model.RubricFeedback {
	fb := model.RubricFeedback{
		Components:          map[model.Component]model.ComponentScore{},
		OverallScore:        &overall,
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Suggestions:         []string{},
	}
	switch {
	case overall >= model.MaxScore:
		fb.Strengths = append(fb.Strengths, "All selections were correct.")
		fb.Suggestions = append(fb.Suggestions, "Keep practising under timed conditions.")
	case overall > 0:
		fb.Strengths = append(fb.Strengths, "Some selections were correct.")
		fb.AreasForImprovement = append(fb.AreasForImprovement, "Some selections were incorrect or missing.")
		fb.Suggestions = append(fb.Suggestions, "Re-read the passage and eliminate options that are not supported by it.")
	default:
		fb.AreasForImprovement = append(fb.AreasForImprovement, "No credit was earned for this response.")
		fb.Suggestions = append(fb.Suggestions, "Wrong selections cost points; only choose options you can justify.")
	}
	return fb
}
