package dto

import "github.com/lshigami/pte-scorer/internal/model"

type CreateQuestionRequest struct {
	Type             model.QuestionType     `json:"type" binding:"required" example:"essay"`
	Title            string                 `json:"title" binding:"required"`
	Prompt           string                 `json:"prompt" binding:"required"`
	ReferenceText    string                 `json:"reference_text"`
	ExpectedKeywords []string               `json:"expected_keywords" binding:"omitempty,dive,required"`
	Options          []model.QuestionOption `json:"options" binding:"omitempty,dive"`
	CorrectOptionIDs []string               `json:"correct_option_ids" binding:"omitempty,dive,required"`
	ImageURL         *string                `json:"image_url" binding:"omitempty,url"`
	MinWords         int                    `json:"min_words" binding:"gte=0"`
	MaxWords         int                    `json:"max_words" binding:"gte=0"`
	TimeLimitSeconds int                    `json:"time_limit_seconds" binding:"gte=0"`
}

type ListQuestionsQuery struct {
	Type model.QuestionType `form:"type"`
}
