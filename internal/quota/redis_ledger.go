package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const usageTTL = 48 * time.Hour

// KEYS[1] usage hash; ARGV[1] limit (negative for unlimited); ARGV[2] ttl seconds;
// ARGV[3] now (unix seconds); ARGV[4] stale window in seconds, 0 to keep reservations.
var reserveScript = redis.NewScript(`
local committed = tonumber(redis.call('HGET', KEYS[1], 'committed') or '0')
local reserved = tonumber(redis.call('HGET', KEYS[1], 'reserved') or '0')
local limit = tonumber(ARGV[1])
local now = tonumber(ARGV[3])
local stale = tonumber(ARGV[4])
local swept = 0
if stale > 0 and reserved > 0 then
  local at = tonumber(redis.call('HGET', KEYS[1], 'reserved_at') or '0')
  if at < now - stale then
    redis.call('HSET', KEYS[1], 'reserved', 0)
    swept = reserved
    reserved = 0
  end
end
if limit >= 0 and committed + reserved >= limit then
  return {0, committed, reserved, swept}
end
redis.call('HINCRBY', KEYS[1], 'reserved', 1)
redis.call('HSET', KEYS[1], 'reserved_at', ARGV[3])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {1, committed, reserved + 1, swept}
`)

// KEYS[1] usage hash; ARGV[1] "commit" or "release"; ARGV[2] ttl seconds.
var settleScript = redis.NewScript(`
local reserved = tonumber(redis.call('HGET', KEYS[1], 'reserved') or '0')
if reserved <= 0 then
  return 0
end
redis.call('HINCRBY', KEYS[1], 'reserved', -1)
if ARGV[1] == 'commit' then
  redis.call('HINCRBY', KEYS[1], 'committed', 1)
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// RedisLedger keeps one hash per user and day. Scripts make check-and-reserve atomic.
// Stale reservations are dropped the same way SQLLedger drops them.
type RedisLedger struct {
	client     redis.UniversalClient
	tiers      *TierResolver
	staleAfter time.Duration
	now        func() time.Time
}

func NewRedisLedger(client redis.UniversalClient, tiers *TierResolver, staleAfter time.Duration) *RedisLedger {
	return &RedisLedger{client: client, tiers: tiers, staleAfter: staleAfter, now: time.Now}
}

func usageKey(userID, day string) string {
	return fmt.Sprintf("quota:v1:%s:%s", userID, day)
}

func (l *RedisLedger) CheckAndReserve(ctx context.Context, userID string) (Reservation, error) {
	now := l.now()
	res, err := l.tiers.reservation(ctx, userID, dayOf(now))
	if err != nil {
		return Reservation{}, err
	}
	limit := res.Limit
	if res.Unlimited {
		limit = -1
	}
	stale := int64(0)
	if l.staleAfter > 0 {
		stale = int64(l.staleAfter.Seconds())
	}
	out, err := reserveScript.Run(ctx, l.client, []string{usageKey(res.UserID, res.Day)},
		limit, int(usageTTL.Seconds()), now.Unix(), stale).Int64Slice()
	if err != nil {
		return Reservation{}, fmt.Errorf("reserve quota: %w", err)
	}
	if len(out) > 3 && out[3] > 0 {
		log.Warn().Str("user_id", res.UserID).Str("day", res.Day).Int64("dropped", out[3]).Msg("Dropped stale quota reservations")
	}
	if len(out) == 0 || out[0] != 1 {
		return Reservation{}, &apperr.QuotaExceededError{UserID: res.UserID, Day: res.Day, Limit: res.Limit, Remaining: 0}
	}
	return res, nil
}

func (l *RedisLedger) Commit(ctx context.Context, res Reservation) error {
	return l.settle(ctx, res, "commit")
}

func (l *RedisLedger) Release(ctx context.Context, res Reservation) error {
	return l.settle(ctx, res, "release")
}

func (l *RedisLedger) settle(ctx context.Context, res Reservation, op string) error {
	n, err := settleScript.Run(ctx, l.client, []string{usageKey(res.UserID, res.Day)}, op, int(usageTTL.Seconds())).Int64()
	if err != nil {
		return fmt.Errorf("%s reservation: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s reservation for %s on %s: %w", op, res.UserID, res.Day, ErrNoReservation)
	}
	return nil
}

func (l *RedisLedger) Usage(ctx context.Context, userID string) (Usage, error) {
	day := dayOf(l.now())
	tier, limit, err := l.tiers.Resolve(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	u := Usage{UserID: userID, Tier: tier, Day: day, Limit: limit, Unlimited: limit < 0}

	fields, err := l.client.HGetAll(ctx, usageKey(userID, day)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Usage{}, fmt.Errorf("read usage: %w", err)
	}
	u.Committed, _ = strconv.Atoi(fields["committed"])
	u.Reserved, _ = strconv.Atoi(fields["reserved"])
	return u, nil
}
