package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoReservation = errors.New("no outstanding reservation")

// SQLLedger keeps counters in usage_records and relies on conditional updates for atomicity.
// Reservations left behind by a crashed request are dropped once the user's latest
// reservation is older than staleAfter; a non-positive staleAfter keeps them forever.
type SQLLedger struct {
	db         *gorm.DB
	tiers      *TierResolver
	staleAfter time.Duration
	now        func() time.Time
}

func NewSQLLedger(db *gorm.DB, tiers *TierResolver, staleAfter time.Duration) *SQLLedger {
	return &SQLLedger{db: db, tiers: tiers, staleAfter: staleAfter, now: time.Now}
}

func (l *SQLLedger) CheckAndReserve(ctx context.Context, userID string) (Reservation, error) {
	now := l.now()
	res, err := l.tiers.reservation(ctx, userID, dayOf(now))
	if err != nil {
		return Reservation{}, err
	}
	db := l.db.WithContext(ctx)

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&model.UsageRecord{UserID: res.UserID, Day: res.Day}).Error
	if err != nil {
		return Reservation{}, fmt.Errorf("ensure usage record: %w", err)
	}

	if l.staleAfter > 0 {
		swept := db.Model(&model.UsageRecord{}).
			Where("user_id = ? AND day = ? AND reserved > 0 AND reserved_at < ?", res.UserID, res.Day, now.Add(-l.staleAfter).Unix()).
			Updates(map[string]any{
				"reserved":   0,
				"updated_at": time.Now().UTC(),
			})
		if swept.Error != nil {
			return Reservation{}, fmt.Errorf("sweep stale reservations: %w", swept.Error)
		}
		if swept.RowsAffected > 0 {
			log.Warn().Str("user_id", res.UserID).Str("day", res.Day).Msg("Dropped stale quota reservations")
		}
	}

	q := db.Model(&model.UsageRecord{}).Where("user_id = ? AND day = ?", res.UserID, res.Day)
	if !res.Unlimited {
		q = q.Where("committed + reserved < ?", res.Limit)
	}
	result := q.Updates(map[string]any{
		"reserved":    gorm.Expr("reserved + ?", 1),
		"reserved_at": now.Unix(),
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return Reservation{}, fmt.Errorf("reserve quota: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return Reservation{}, &apperr.QuotaExceededError{UserID: res.UserID, Day: res.Day, Limit: res.Limit, Remaining: 0}
	}
	return res, nil
}

func (l *SQLLedger) Commit(ctx context.Context, res Reservation) error {
	return l.settle(ctx, res, map[string]any{
		"reserved":   gorm.Expr("reserved - ?", 1),
		"committed":  gorm.Expr("committed + ?", 1),
		"updated_at": time.Now().UTC(),
	})
}

func (l *SQLLedger) Release(ctx context.Context, res Reservation) error {
	return l.settle(ctx, res, map[string]any{
		"reserved":   gorm.Expr("reserved - ?", 1),
		"updated_at": time.Now().UTC(),
	})
}

func (l *SQLLedger) settle(ctx context.Context, res Reservation, updates map[string]any) error {
	result := l.db.WithContext(ctx).Model(&model.UsageRecord{}).
		Where("user_id = ? AND day = ? AND reserved > 0", res.UserID, res.Day).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("settle reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("settle reservation for %s on %s: %w", res.UserID, res.Day, ErrNoReservation)
	}
	return nil
}

func (l *SQLLedger) Usage(ctx context.Context, userID string) (Usage, error) {
	day := dayOf(l.now())
	tier, limit, err := l.tiers.Resolve(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	u := Usage{UserID: userID, Tier: tier, Day: day, Limit: limit, Unlimited: limit < 0}

	var rec model.UsageRecord
	err = l.db.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return u, nil
	case err != nil:
		return Usage{}, fmt.Errorf("read usage: %w", err)
	}
	u.Committed = rec.Committed
	u.Reserved = rec.Reserved
	return u, nil
}
