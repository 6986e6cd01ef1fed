package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Airdrop participant table (users). One row per Telegram account.
// Balance only moves through the bonus and withdrawal services.
type User struct {
	TgID        int64           `gorm:"primaryKey;column:tg_id" json:"tg_id"`
	Username    string          `gorm:"column:username;type:varchar(64)" json:"username"`
	Twitter     *string         `gorm:"column:twitter;type:varchar(64)" json:"twitter"`
	Wallet      *string         `gorm:"column:wallet;type:varchar(64)" json:"wallet"`
	Balance     decimal.Decimal `gorm:"column:balance;type:decimal(32,8);not null;default:0" json:"balance"`
	Referrals   int             `gorm:"column:referrals;not null;default:0" json:"referrals"`
	RefEarnings decimal.Decimal `gorm:"column:ref_earnings;type:decimal(32,8);not null;default:0" json:"ref_earnings"`
	Registered  bool            `gorm:"column:registered;not null;default:false" json:"registered"`
	RefBy       *int64          `gorm:"column:ref_by" json:"ref_by"`
	JoinedAt    time.Time       `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (User) TableName() string { return "users" }

// HasWallet reports whether a payout destination is on file.
func (u *User) HasWallet() bool {
	return u.Wallet != nil && *u.Wallet != ""
}
