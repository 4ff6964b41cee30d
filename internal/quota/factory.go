package quota

import (
	"context"
	"fmt"

	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewFromConfig builds the ledger selected by QUOTA_BACKEND. The returned close func
// releases any client the ledger owns. Reservations outlive a request by at most twice
// the request limit before they are treated as abandoned.
func NewFromConfig(ctx context.Context, cfg *config.Config, db *gorm.DB, tiers repository.UserTierRepository) (Ledger, func() error, error) {
	resolver := NewTierResolver(tiers, cfg)
	staleAfter := 2 * cfg.Server.RequestLimit
	switch cfg.Quota.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Quota.RedisAddr,
			Password: cfg.Quota.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect quota redis: %w", err)
		}
		return NewRedisLedger(client, resolver, staleAfter), client.Close, nil
	default:
		return NewSQLLedger(db, resolver, staleAfter), func() error { return nil }, nil
	}
}
