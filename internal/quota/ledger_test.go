package quota

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/repository"
	"github.com/lshigami/pte-scorer/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type ledgerFixture struct {
	ledger Ledger
	tiers  repository.UserTierRepository
	setNow func(time.Time)
}

const staleAfter = 10 * time.Minute

func quotaConfig() *config.Config {
	return &config.Config{Quota: config.Quota{
		DefaultTier:    "free",
		TierAllowances: map[string]int{"free": 3, "premium": -1},
	}}
}

func newSQLFixture(t *testing.T) ledgerFixture {
	db := testutil.NewDB(t)
	tiers := repository.NewUserTierRepository(db)
	l := NewSQLLedger(db, NewTierResolver(tiers, quotaConfig()), staleAfter)
	return ledgerFixture{ledger: l, tiers: tiers, setNow: func(ts time.Time) { l.now = func() time.Time { return ts } }}
}

func newRedisFixture(t *testing.T) ledgerFixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tiers := repository.NewUserTierRepository(testutil.NewDB(t))
	l := NewRedisLedger(client, NewTierResolver(tiers, quotaConfig()), staleAfter)
	return ledgerFixture{ledger: l, tiers: tiers, setNow: func(ts time.Time) { l.now = func() time.Time { return ts } }}
}

var backends = []struct {
	name string
	new  func(t *testing.T) ledgerFixture
}{
	{"sql", newSQLFixture},
	{"redis", newRedisFixture},
}

func TestLedger_DeniesBeyondAllowance(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()

			for i := 0; i < 3; i++ {
				res, err := f.ledger.CheckAndReserve(ctx, "user-1")
				require.NoError(t, err)
				require.NoError(t, f.ledger.Commit(ctx, res))
			}

			_, err := f.ledger.CheckAndReserve(ctx, "user-1")
			var qe *apperr.QuotaExceededError
			require.ErrorAs(t, err, &qe)
			assert.ErrorIs(t, err, apperr.ErrQuotaExceeded)
			assert.Equal(t, 3, qe.Limit)
			assert.Equal(t, 0, qe.Remaining)

			u, err := f.ledger.Usage(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, 3, u.Committed)
			assert.Equal(t, 0, u.Reserved)
			assert.Equal(t, 0, u.Remaining())

			_, err = f.ledger.CheckAndReserve(ctx, "user-2")
			assert.NoError(t, err, "allowances are per user")
		})
	}
}

func TestLedger_ReleaseRestoresSlot(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()

			var held []Reservation
			for i := 0; i < 3; i++ {
				res, err := f.ledger.CheckAndReserve(ctx, "user-1")
				require.NoError(t, err)
				held = append(held, res)
			}
			_, err := f.ledger.CheckAndReserve(ctx, "user-1")
			require.ErrorIs(t, err, apperr.ErrQuotaExceeded, "outstanding reservations count against the limit")

			require.NoError(t, f.ledger.Release(ctx, held[0]))

			u, err := f.ledger.Usage(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, 0, u.Committed)
			assert.Equal(t, 2, u.Reserved)
			assert.Equal(t, 1, u.Remaining())

			_, err = f.ledger.CheckAndReserve(ctx, "user-1")
			assert.NoError(t, err)
		})
	}
}

func TestLedger_SettleWithoutReservation(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()

			res, err := f.ledger.CheckAndReserve(ctx, "user-1")
			require.NoError(t, err)
			require.NoError(t, f.ledger.Release(ctx, res))

			assert.ErrorIs(t, f.ledger.Release(ctx, res), ErrNoReservation)
			assert.ErrorIs(t, f.ledger.Commit(ctx, res), ErrNoReservation)
		})
	}
}

func TestLedger_UnlimitedTierStillRecordsUsage(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()
			require.NoError(t, f.tiers.SetTier(ctx, "vip", "premium"))

			for i := 0; i < 10; i++ {
				res, err := f.ledger.CheckAndReserve(ctx, "vip")
				require.NoError(t, err)
				assert.True(t, res.Unlimited)
				require.NoError(t, f.ledger.Commit(ctx, res))
			}

			u, err := f.ledger.Usage(ctx, "vip")
			require.NoError(t, err)
			assert.Equal(t, "premium", u.Tier)
			assert.Equal(t, 10, u.Committed)
			assert.Equal(t, -1, u.Remaining())
		})
	}
}

func TestLedger_ReservationKeepsItsDay(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()

			f.setNow(time.Date(2026, 3, 1, 23, 59, 50, 0, time.UTC))
			res, err := f.ledger.CheckAndReserve(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, "2026-03-01", res.Day)

			f.setNow(time.Date(2026, 3, 2, 0, 0, 5, 0, time.UTC))
			require.NoError(t, f.ledger.Commit(ctx, res))

			today, err := f.ledger.Usage(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, "2026-03-02", today.Day)
			assert.Equal(t, 0, today.Committed)
			assert.Equal(t, 3, today.Remaining())
		})
	}
}

func TestLedger_DropsStaleReservations(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()
			start := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

			f.setNow(start)
			for i := 0; i < 3; i++ {
				_, err := f.ledger.CheckAndReserve(ctx, "user-1")
				require.NoError(t, err)
			}

			f.setNow(start.Add(staleAfter / 2))
			_, err := f.ledger.CheckAndReserve(ctx, "user-1")
			require.ErrorIs(t, err, apperr.ErrQuotaExceeded, "recent reservations still count")

			f.setNow(start.Add(staleAfter + time.Minute))
			res, err := f.ledger.CheckAndReserve(ctx, "user-1")
			require.NoError(t, err, "reservations abandoned by a crashed request are dropped")

			u, err := f.ledger.Usage(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, 0, u.Committed)
			assert.Equal(t, 1, u.Reserved)

			require.NoError(t, f.ledger.Commit(ctx, res))
			u, err = f.ledger.Usage(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, 1, u.Committed)
			assert.Equal(t, 0, u.Reserved)
		})
	}
}

func TestLedger_CommittedUsageIsNeverSwept(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()
			start := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

			f.setNow(start)
			for i := 0; i < 3; i++ {
				res, err := f.ledger.CheckAndReserve(ctx, "user-1")
				require.NoError(t, err)
				require.NoError(t, f.ledger.Commit(ctx, res))
			}

			f.setNow(start.Add(2 * staleAfter))
			_, err := f.ledger.CheckAndReserve(ctx, "user-1")
			assert.ErrorIs(t, err, apperr.ErrQuotaExceeded)
		})
	}
}

func TestLedger_ConcurrentReservationsNeverExceedLimit(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			f := b.new(t)
			ctx := context.Background()

			var granted, denied atomic.Int32
			var g errgroup.Group
			for i := 0; i < 20; i++ {
				g.Go(func() error {
					_, err := f.ledger.CheckAndReserve(ctx, "user-1")
					switch {
					case err == nil:
						granted.Add(1)
					case errors.Is(err, apperr.ErrQuotaExceeded):
						denied.Add(1)
					default:
						return err
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, int32(3), granted.Load())
			assert.Equal(t, int32(17), denied.Load())
		})
	}
}

func TestRedisLedger_ExpiresUsage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	l := NewRedisLedger(client, NewTierResolver(repository.NewUserTierRepository(testutil.NewDB(t)), quotaConfig()), staleAfter)
	l.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }

	_, err := l.CheckAndReserve(context.Background(), "user-1")
	require.NoError(t, err)

	key := usageKey("user-1", "2026-05-04")
	assert.Equal(t, usageTTL, mr.TTL(key))
	assert.Equal(t, "1", mr.HGet(key, "reserved"))
}

func TestTierResolver(t *testing.T) {
	ctx := context.Background()
	tiers := repository.NewUserTierRepository(testutil.NewDB(t))
	r := NewTierResolver(tiers, quotaConfig())

	tier, limit, err := r.Resolve(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "free", tier)
	assert.Equal(t, 3, limit)

	require.NoError(t, tiers.SetTier(ctx, "legacy", "gold"))
	tier, limit, err = r.Resolve(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "free", tier)
	assert.Equal(t, 3, limit)

	require.NoError(t, tiers.SetTier(ctx, "vip", "Premium"))
	tier, limit, err = r.Resolve(ctx, "vip")
	require.NoError(t, err)
	assert.Equal(t, "premium", tier)
	assert.Equal(t, -1, limit)
}
