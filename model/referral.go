package model

import (
	"time"
)

// Referral fact table (referrals). Append-only: one row per
// (referrer, referee) pair, written when the referee registers.
type Referral struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Referrer  int64     `gorm:"column:referrer;not null;uniqueIndex:idx_referral_pair" json:"referrer"`
	Referee   int64     `gorm:"column:referee;not null;uniqueIndex:idx_referral_pair" json:"referee"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Referral) TableName() string { return "referrals" }
