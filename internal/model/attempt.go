package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrScoringFieldsImmutable = errors.New("attempt scoring fields are write-once")

// scoringFields may only be written on insert.
var scoringFields = []string{
	"UserID", "QuestionID", "QuestionType", "AttemptNumber", "SubmissionKind",
	"AudioURL", "ResponseText", "SelectedOptionIDs", "WordCount",
	"TranscriptText", "TranscriptWords", "TranscriptProvider", "TranscriptStatus",
	"Signals", "Feedback", "OverallScore", "TimeTakenSeconds",
}

type Attempt struct {
	ID                 uint                                `gorm:"primarykey" json:"id"`
	UserID             string                              `json:"user_id" gorm:"size:64;not null;uniqueIndex:idx_attempt_user_question_number,priority:1"`
	QuestionID         uint                                `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_user_question_number,priority:2"`
	Question           *Question                           `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	QuestionType       QuestionType                        `json:"question_type" gorm:"type:varchar(64);not null"`
	AttemptNumber      int                                 `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_user_question_number,priority:3"`
	SubmissionKind     SubmissionKind                      `json:"submission_kind" gorm:"type:varchar(16);not null"`
	AudioURL           *string                             `json:"audio_url,omitempty"`
	ResponseText       string                              `json:"response_text,omitempty" gorm:"type:text"`
	SelectedOptionIDs  datatypes.JSONSlice[string]         `json:"selected_option_ids,omitempty"`
	WordCount          int                                 `json:"word_count"`
	TranscriptText     string                              `json:"transcript_text,omitempty" gorm:"type:text"`
	TranscriptWords    datatypes.JSONSlice[TranscriptWord] `json:"transcript_words,omitempty"`
	TranscriptProvider string                              `json:"transcript_provider,omitempty" gorm:"size:32"`
	TranscriptStatus   TranscriptStatus                    `json:"transcript_status" gorm:"type:varchar(16)"`
	Signals            datatypes.JSONType[ObjectiveSignals] `json:"signals"`
	Feedback           datatypes.JSONType[RubricFeedback]  `json:"feedback"`
	OverallScore       float64                             `json:"overall_score" gorm:"not null"`
	TimeTakenSeconds   *int                                `json:"time_taken_seconds,omitempty"`
	NeedsReview        bool                                `json:"needs_review" gorm:"not null;default:false"`
	ReviewNote         string                              `json:"review_note,omitempty" gorm:"type:text"`
	CreatedAt          time.Time                           `json:"created_at"`
	UpdatedAt          time.Time                           `json:"updated_at"`
}

// BeforeUpdate rejects updates that touch scoring fields. Corrections are new attempts.
func (a *Attempt) BeforeUpdate(tx *gorm.DB) error {
	for _, field := range scoringFields {
		if tx.Statement.Changed(field) {
			return ErrScoringFieldsImmutable
		}
	}
	return nil
}

// AttemptSequence holds the last attempt number issued for a (user, question) pair.
type AttemptSequence struct {
	UserID     string `gorm:"primaryKey;size:64"`
	QuestionID uint   `gorm:"primaryKey;autoIncrement:false"`
	LastNumber int    `gorm:"not null"`
	UpdatedAt  time.Time
}
