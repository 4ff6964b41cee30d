package model

import "time"

// UsageRecord counts scoring invocations for one user on one calendar day (UTC, YYYY-MM-DD).
type UsageRecord struct {
	UserID    string `gorm:"primaryKey;size:64"`
	Day       string `gorm:"primaryKey;size:10"`
	Committed int    `gorm:"not null;default:0"`
	Reserved  int    `gorm:"not null;default:0"`
	// ReservedAt is the unix time of the latest reservation. When it is older than the
	// stale window every outstanding reservation belongs to a request that is gone.
	ReservedAt int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserTier struct {
	UserID    string `gorm:"primaryKey;size:64" json:"user_id"`
	Tier      string `gorm:"size:32;not null" json:"tier"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
