package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID               uint                                `gorm:"primarykey" json:"id"`
	Type             QuestionType                        `json:"type" gorm:"type:varchar(64);not null;index"`
	Title            string                              `json:"title" gorm:"not null"`
	Prompt           string                              `json:"prompt" gorm:"type:text;not null"`
	ReferenceText    string                              `json:"reference_text,omitempty" gorm:"type:text"`
	ExpectedKeywords datatypes.JSONSlice[string]         `json:"expected_keywords,omitempty"`
	Options          datatypes.JSONSlice[QuestionOption] `json:"options,omitempty"`
	CorrectOptionIDs datatypes.JSONSlice[string]         `json:"correct_option_ids,omitempty"`
	ImageURL         *string                             `json:"image_url,omitempty"`
	MinWords         int                                 `json:"min_words,omitempty"`
	MaxWords         int                                 `json:"max_words,omitempty"`
	TimeLimitSeconds int                                 `json:"time_limit_seconds,omitempty"`
	CreatedAt        time.Time                           `json:"created_at"`
	UpdatedAt        time.Time                           `json:"updated_at"`
	DeletedAt        gorm.DeletedAt                      `gorm:"index" json:"-"`
}
