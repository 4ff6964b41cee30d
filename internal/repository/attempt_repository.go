package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/model"
	"gorm.io/gorm"
)

// nextAttemptNumberSQL seeds the sequence from the prior attempt count on first use and
// increments it afterwards. The upsert holds the row lock until the transaction ends.
const nextAttemptNumberSQL = `
INSERT INTO attempt_sequences (user_id, question_id, last_number, updated_at)
VALUES (?, ?, (SELECT COUNT(*) FROM attempts WHERE user_id = ? AND question_id = ?) + 1, ?)
ON CONFLICT (user_id, question_id)
DO UPDATE SET last_number = attempt_sequences.last_number + 1, updated_at = excluded.updated_at`

type AttemptRepository interface {
	// Persist assigns the next attempt number for the (user, question) pair and inserts the attempt.
	Persist(ctx context.Context, attempt *model.Attempt) (*model.Attempt, error)
	CountByUserAndQuestion(ctx context.Context, userID string, questionID uint) (int64, error)
	FindLatest(ctx context.Context, userID string, questionID uint) (*model.Attempt, error)
	ListByUserAndQuestion(ctx context.Context, userID string, questionID uint) ([]model.Attempt, error)
	FindByID(ctx context.Context, id uint) (*model.Attempt, error)
	SetReviewFlag(ctx context.Context, id uint, needsReview bool, note string) (*model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Persist(ctx context.Context, attempt *model.Attempt) (*model.Attempt, error) {
	if attempt.ID != 0 {
		return nil, fmt.Errorf("persist attempt: already persisted as %d", attempt.ID)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(nextAttemptNumberSQL,
			attempt.UserID, attempt.QuestionID,
			attempt.UserID, attempt.QuestionID,
			time.Now().UTC(),
		).Error
		if err != nil {
			return fmt.Errorf("next attempt number: %w", err)
		}

		var seq model.AttemptSequence
		if err := tx.Where("user_id = ? AND question_id = ?", attempt.UserID, attempt.QuestionID).Take(&seq).Error; err != nil {
			return fmt.Errorf("read attempt sequence: %w", err)
		}
		attempt.AttemptNumber = seq.LastNumber

		if err := tx.Omit("Question").Create(attempt).Error; err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		attempt.AttemptNumber = 0
		attempt.ID = 0
		return nil, err
	}
	return attempt, nil
}

func (r *attemptRepository) CountByUserAndQuestion(ctx context.Context, userID string, questionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Attempt{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) FindLatest(ctx context.Context, userID string, questionID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("attempt_number desc").
		Take(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no attempts for question %d", questionID)
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) ListByUserAndQuestion(ctx context.Context, userID string, questionID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("attempt_number desc").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) FindByID(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.WithContext(ctx).Preload("Question").First(&attempt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("attempt %d", id)
		}
		return nil, err
	}
	return &attempt, nil
}

// SetReviewFlag updates the review fields, the only mutable part of an attempt.
func (r *attemptRepository) SetReviewFlag(ctx context.Context, id uint, needsReview bool, note string) (*model.Attempt, error) {
	attempt, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(attempt).Updates(map[string]interface{}{
		"needs_review": needsReview,
		"review_note":  note,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("set review flag on attempt %d: %w", id, err)
	}
	attempt.NeedsReview = needsReview
	attempt.ReviewNote = note
	return attempt, nil
}
