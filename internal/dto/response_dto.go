package dto

import (
	"time"

	"github.com/lshigami/pte-scorer/internal/model"
)

type QuestionResponse struct {
	ID               uint                   `json:"id"`
	Type             model.QuestionType     `json:"type"`
	Category         model.Category         `json:"category" copier:"-"`
	SubmissionKind   model.SubmissionKind   `json:"submission_kind" copier:"-"`
	Title            string                 `json:"title"`
	Prompt           string                 `json:"prompt"`
	ReferenceText    string                 `json:"reference_text,omitempty"`
	ExpectedKeywords []string               `json:"expected_keywords,omitempty" copier:"-"`
	Options          []model.QuestionOption `json:"options,omitempty" copier:"-"`
	CorrectOptionIDs []string               `json:"correct_option_ids,omitempty" copier:"-"`
	ImageURL         *string                `json:"image_url,omitempty"`
	MinWords         int                    `json:"min_words,omitempty"`
	MaxWords         int                    `json:"max_words,omitempty"`
	TimeLimitSeconds int                    `json:"time_limit_seconds,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ScoringResponse is returned by a successful submission.
type ScoringResponse struct {
	AttemptID        uint                   `json:"attempt_id"`
	AttemptNumber    int                    `json:"attempt_number"`
	QuestionID       uint                   `json:"question_id"`
	QuestionType     model.QuestionType     `json:"question_type"`
	OverallScore     float64                `json:"overall_score"`
	Band             string                 `json:"band"`
	Feedback         model.RubricFeedback   `json:"feedback"`
	Signals          model.ObjectiveSignals `json:"signals"`
	TranscriptStatus model.TranscriptStatus `json:"transcript_status"`
	TranscriptText   string                 `json:"transcript_text,omitempty"`
	// RemainingQuota is omitted for unlimited tiers.
	RemainingQuota *int `json:"remaining_quota,omitempty"`
}

type AttemptResponse struct {
	ID                 uint                   `json:"id"`
	QuestionID         uint                   `json:"question_id"`
	QuestionType       model.QuestionType     `json:"question_type"`
	AttemptNumber      int                    `json:"attempt_number"`
	SubmissionKind     model.SubmissionKind   `json:"submission_kind"`
	AudioURL           *string                `json:"audio_url,omitempty"`
	ResponseText       string                 `json:"response_text,omitempty"`
	SelectedOptionIDs  []string               `json:"selected_option_ids,omitempty" copier:"-"`
	WordCount          int                    `json:"word_count"`
	TranscriptText     string                 `json:"transcript_text,omitempty"`
	TranscriptProvider string                 `json:"transcript_provider,omitempty"`
	TranscriptStatus   model.TranscriptStatus `json:"transcript_status"`
	Feedback           model.RubricFeedback   `json:"feedback" copier:"-"`
	Signals            model.ObjectiveSignals `json:"signals" copier:"-"`
	OverallScore       float64                `json:"overall_score"`
	Band               string                 `json:"band" copier:"-"`
	TimeTakenSeconds   *int                   `json:"time_taken_seconds,omitempty"`
	NeedsReview        bool                   `json:"needs_review"`
	ReviewNote         string                 `json:"review_note,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

type UsageResponse struct {
	UserID    string `json:"user_id"`
	Tier      string `json:"tier"`
	Day       string `json:"day"`
	Used      int    `json:"used"`
	Reserved  int    `json:"reserved"`
	Unlimited bool   `json:"unlimited"`
	// Limit and Remaining are omitted for unlimited tiers.
	Limit     *int `json:"limit,omitempty"`
	Remaining *int `json:"remaining,omitempty"`
}

type ErrorResponse struct {
	Message   string   `json:"message"`
	Code      string   `json:"code,omitempty"`
	Details   []string `json:"details,omitempty"`
	Remaining *int     `json:"remaining,omitempty"`
	Limit     *int     `json:"limit,omitempty"`
}
