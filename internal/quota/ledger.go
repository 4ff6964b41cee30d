package quota

import (
	"context"
	"time"
)

//go:generate mockgen -source=ledger.go -destination=../mocks/quota/mock_ledger.go -package=mock_quota

const dayLayout = "2006-01-02"

// Reservation is a provisional hold on one scoring invocation. It keeps the day it
// was taken so a commit or release after midnight settles the right counter.
type Reservation struct {
	UserID    string
	Day       string
	Tier      string
	Limit     int
	Unlimited bool
}

// Usage is a point-in-time read of a user's counters for the current day.
type Usage struct {
	UserID    string
	Tier      string
	Day       string
	Committed int
	Reserved  int
	Limit     int
	Unlimited bool
}

// Remaining is the number of reservations still available, or -1 when unlimited.
func (u Usage) Remaining() int {
	if u.Unlimited {
		return -1
	}
	left := u.Limit - u.Committed - u.Reserved
	if left < 0 {
		return 0
	}
	return left
}

// Ledger is the only place daily allowances are enforced.
type Ledger interface {
	// CheckAndReserve atomically reserves one invocation or returns *apperr.QuotaExceededError.
	CheckAndReserve(ctx context.Context, userID string) (Reservation, error)
	// Commit turns a reservation into counted usage.
	Commit(ctx context.Context, res Reservation) error
	// Release gives a reservation back without counting it.
	Release(ctx context.Context, res Reservation) error
	Usage(ctx context.Context, userID string) (Usage, error)
}

func dayOf(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
