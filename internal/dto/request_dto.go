package dto

import (
	"fmt"

	"github.com/lshigami/pte-scorer/internal/model"
)

// AudioSubmission references audio already stored by the client.
type AudioSubmission struct {
	AudioURL string `json:"audio_url" binding:"required,url"`
}

// TextSubmission carries a written response. WordCount is computed server-side when zero.
type TextSubmission struct {
	Text      string `json:"text" binding:"required"`
	WordCount int    `json:"word_count" binding:"gte=0"`
}

// ChoiceSubmission carries selected option ids, in order for ordering tasks.
type ChoiceSubmission struct {
	SelectedOptionIDs []string `json:"selected_option_ids" binding:"required,min=1,dive,required"`
}

// Submission is a tagged variant: exactly the payload named by Kind must be set.
type Submission struct {
	Kind             model.SubmissionKind `json:"kind" binding:"required,oneof=audio text choice" example:"text"`
	Audio            *AudioSubmission     `json:"audio,omitempty"`
	Text             *TextSubmission      `json:"text,omitempty"`
	Choice           *ChoiceSubmission    `json:"choice,omitempty"`
	TimeTakenSeconds *int                 `json:"time_taken_seconds,omitempty" binding:"omitempty,gte=0"`
}

// Check verifies the variant payload matches Kind.
func (s Submission) Check() error {
	set := 0
	for _, present := range []bool{s.Audio != nil, s.Text != nil, s.Choice != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("submission must carry exactly one payload, got %d", set)
	}
	switch s.Kind {
	case model.SubmissionAudio:
		if s.Audio == nil {
			return fmt.Errorf("submission kind %q requires an audio payload", s.Kind)
		}
	case model.SubmissionText:
		if s.Text == nil {
			return fmt.Errorf("submission kind %q requires a text payload", s.Kind)
		}
	case model.SubmissionChoice:
		if s.Choice == nil {
			return fmt.Errorf("submission kind %q requires a choice payload", s.Kind)
		}
	default:
		return fmt.Errorf("unknown submission kind %q", s.Kind)
	}
	return nil
}

type SubmitRequest struct {
	// QuestionType is optional; when given it must match the stored question.
	QuestionType model.QuestionType `json:"question_type,omitempty" example:"essay"`
	Submission   Submission         `json:"submission" binding:"required"`
}

type ReviewAttemptRequest struct {
	NeedsReview *bool  `json:"needs_review" binding:"required"`
	Note        string `json:"note" binding:"max=2000"`
}
