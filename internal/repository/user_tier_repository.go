package repository

import (
	"context"
	"errors"

	"github.com/lshigami/pte-scorer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserTierRepository interface {
	// FindTier returns the user's tier, or "" when none is assigned.
	FindTier(ctx context.Context, userID string) (string, error)
	SetTier(ctx context.Context, userID, tier string) error
}

type userTierRepository struct {
	db *gorm.DB
}

func NewUserTierRepository(db *gorm.DB) UserTierRepository {
	return &userTierRepository{db: db}
}

func (r *userTierRepository) FindTier(ctx context.Context, userID string) (string, error) {
	var ut model.UserTier
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&ut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ut.Tier, nil
}

func (r *userTierRepository) SetTier(ctx context.Context, userID, tier string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tier", "updated_at"}),
	}).Create(&model.UserTier{UserID: userID, Tier: tier}).Error
}
