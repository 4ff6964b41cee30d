package quota

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/rs/zerolog/log"
)

// TierResolver maps a user to a tier and the tier to a daily allowance.
// A negative allowance means unlimited.
type TierResolver struct {
	repo        repository.UserTierRepository
	defaultTier string
	allowances  map[string]int
}

func NewTierResolver(repo repository.UserTierRepository, cfg *config.Config) *TierResolver {
	return &TierResolver{
		repo:        repo,
		defaultTier: strings.ToLower(cfg.Quota.DefaultTier),
		allowances:  cfg.Quota.TierAllowances,
	}
}

// Resolve returns the user's tier and its daily limit.
func (r *TierResolver) Resolve(ctx context.Context, userID string) (string, int, error) {
	tier, err := r.repo.FindTier(ctx, userID)
	if err != nil {
		return "", 0, fmt.Errorf("resolve tier: %w", err)
	}
	tier = strings.ToLower(tier)
	if tier == "" {
		tier = r.defaultTier
	}
	limit, ok := r.allowances[tier]
	if !ok {
		log.Warn().Str("user_id", userID).Str("tier", tier).Msg("Unknown tier, using default allowance")
		tier = r.defaultTier
		limit = r.allowances[tier]
	}
	return tier, limit, nil
}

func (r *TierResolver) reservation(ctx context.Context, userID, day string) (Reservation, error) {
	tier, limit, err := r.Resolve(ctx, userID)
	if err != nil {
		return Reservation{}, err
	}
	return Reservation{UserID: userID, Day: day, Tier: tier, Limit: limit, Unlimited: limit < 0}, nil
}
