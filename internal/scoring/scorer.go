package scoring

import (
	"context"

	"github.com/lshigami/pte-scorer/internal/model"
)

//go:generate mockgen -source=scorer.go -destination=../mocks/scoring/mock_scorer.go -package=mock_scoring

// Request is everything a scorer may look at for one submission.
type Request struct {
	Question          *model.Question
	CandidateText     string
	SelectedOptionIDs []string
	// Transcript is nil for submissions without audio.
	Transcript *model.Transcript
	Signals    model.ObjectiveSignals
}

type Scorer interface {
	Score(ctx context.Context, req Request) (model.RubricFeedback, error)
}

// Router sends choice questions to the objective scorer and everything else to the rubric scorer.
type Router struct {
	rubric Scorer
	choice Scorer
}

func NewRouter(rubric, choice Scorer) *Router {
	return &Router{rubric: rubric, choice: choice}
}

func (r *Router) Score(ctx context.Context, req Request) (model.RubricFeedback, error) {
	if req.Question.Type.SubmissionKind() == model.SubmissionChoice {
		return r.choice.Score(ctx, req)
	}
	return r.rubric.Score(ctx, req)
}
