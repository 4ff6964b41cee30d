package service

import (
	"context"

	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/quota"
)

//go:generate mockgen -source=usage_service.go -destination=../mocks/service/mock_usage_service.go -package=mock_service

// UsageService reports remaining allowance. It never enforces; only the scoring run reserves.
type UsageService interface {
	GetUsage(ctx context.Context, userID string) (*dto.UsageResponse, error)
}

type usageService struct {
	ledger quota.Ledger
}

func NewUsageService(ledger quota.Ledger) UsageService {
	return &usageService{ledger: ledger}
}

func (s *usageService) GetUsage(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	u, err := s.ledger.Usage(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.UsageResponse{
		UserID:    u.UserID,
		Tier:      u.Tier,
		Day:       u.Day,
		Used:      u.Committed,
		Reserved:  u.Reserved,
		Unlimited: u.Unlimited,
	}
	if !u.Unlimited {
		limit, remaining := u.Limit, u.Remaining()
		resp.Limit = &limit
		resp.Remaining = &remaining
	}
	return resp, nil
}
