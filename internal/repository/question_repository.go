package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindAll(ctx context.Context, questionType model.QuestionType) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question %d", id)
		}
		return nil, fmt.Errorf("find question %d: %w", id, err)
	}
	return &question, nil
}

// FindAll lists questions, newest first. An empty type lists every type.
func (r *questionRepository) FindAll(ctx context.Context, questionType model.QuestionType) ([]model.Question, error) {
	var questions []model.Question
	q := r.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if questionType != "" {
		q = q.Where("type = ?", questionType)
	}
	if err := q.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
