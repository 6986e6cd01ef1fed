package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalPending   = "pending"
	WithdrawalCompleted = "completed"
	WithdrawalFailed    = "failed"
)

// Withdrawal attempt table (withdrawals). Created pending when the
// balance is reserved; moves exactly once to completed or failed.
type Withdrawal struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"id"`
	TgID       int64           `gorm:"column:tg_id;not null;index" json:"tg_id"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(32,8);not null" json:"amount"`
	DestWallet string          `gorm:"column:dest_wallet;type:varchar(64);not null" json:"dest_wallet"`
	TxHash     *string         `gorm:"column:tx_hash;type:varchar(128)" json:"tx_hash"`
	Status     string          `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	FailReason string          `gorm:"column:fail_reason;type:varchar(256)" json:"fail_reason"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string { return "withdrawals" }
