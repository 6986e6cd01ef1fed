package repository

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mat_airdrop/model"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyFinalized    = errors.New("withdrawal already finalized")
)

// RegisterStatus reports what SetWalletAndRegister actually did.
type RegisterStatus int

const (
	Registered RegisterStatus = iota
	WalletUpdated
)

type RegisterOutcome struct {
	Status           RegisterStatus
	ReferrerCredited bool
	ReferrerID       int64
}

// LedgerRepository owns the users, referrals and withdrawals tables.
// Every multi-row mutation runs inside a single transaction.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateUser inserts the user if absent. Existing rows are left
// untouched, so a second /start never resets balance or ref_by.
// No bonus is credited here.
func (r *LedgerRepository) CreateUser(tgID int64, username string, refBy *int64) error {
	user := model.User{
		TgID:     tgID,
		Username: username,
		Balance:  decimal.Zero,
		RefBy:    refBy,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error
}

func (r *LedgerRepository) GetUser(tgID int64) (*model.User, error) {
	var user model.User
	if err := r.db.Where("tg_id = ?", tgID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *LedgerRepository) SetTwitter(tgID int64, handle string) error {
	res := r.db.Model(&model.User{}).Where("tg_id = ?", tgID).Update("twitter", handle)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetWalletAndRegister is the registration commit point. In one
// transaction it sets the wallet, flips registered, credits the join
// bonus, and — when ref_by resolves to an existing user — credits the
// referrer and appends the referral row. Calling it again for an
// already registered user only updates the wallet.
func (r *LedgerRepository) SetWalletAndRegister(tgID int64, wallet string, joinBonus, refBonus decimal.Decimal) (*RegisterOutcome, error) {
	var outcome RegisterOutcome
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("tg_id = ?", tgID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if user.Registered {
			outcome.Status = WalletUpdated
			return tx.Model(&model.User{}).Where("tg_id = ?", tgID).
				Update("wallet", wallet).Error
		}

		outcome.Status = Registered
		if err := tx.Model(&model.User{}).Where("tg_id = ?", tgID).Updates(map[string]interface{}{
			"wallet":     wallet,
			"registered": true,
			"balance":    gorm.Expr("balance + ?", joinBonus),
		}).Error; err != nil {
			return err
		}

		if user.RefBy == nil {
			return nil
		}

		// Credit the referrer only if that account actually exists.
		res := tx.Model(&model.User{}).Where("tg_id = ?", *user.RefBy).Updates(map[string]interface{}{
			"referrals":    gorm.Expr("referrals + 1"),
			"ref_earnings": gorm.Expr("ref_earnings + ?", refBonus),
			"balance":      gorm.Expr("balance + ?", refBonus),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		referral := model.Referral{Referrer: *user.RefBy, Referee: tgID}
		if err := tx.Create(&referral).Error; err != nil {
			return err
		}
		outcome.ReferrerCredited = true
		outcome.ReferrerID = *user.RefBy
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ReserveBalance atomically checks and deducts. The deduction is a
// conditional update so two near-simultaneous withdrawals cannot both
// win the same funds.
func (r *LedgerRepository) ReserveBalance(tgID int64, amount decimal.Decimal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("tg_id = ?", tgID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		res := tx.Model(&model.User{}).
			Where("tg_id = ? AND balance >= ?", tgID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		return nil
	})
}

// RestoreBalance adds the reserved amount back after a failed payout.
func (r *LedgerRepository) RestoreBalance(tgID int64, amount decimal.Decimal) error {
	return r.db.Model(&model.User{}).Where("tg_id = ?", tgID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

func (r *LedgerRepository) CreateWithdrawal(tgID int64, amount decimal.Decimal, dest string) (uint64, error) {
	w := model.Withdrawal{
		TgID:       tgID,
		Amount:     amount,
		DestWallet: dest,
		Status:     model.WithdrawalPending,
	}
	if err := r.db.Create(&w).Error; err != nil {
		return 0, err
	}
	return w.ID, nil
}

// FinalizeWithdrawal moves a pending withdrawal to completed or failed.
// The pending guard makes the transition one-way.
func (r *LedgerRepository) FinalizeWithdrawal(id uint64, status string, txHash *string, failReason string) error {
	if status != model.WithdrawalCompleted && status != model.WithdrawalFailed {
		return fmt.Errorf("invalid terminal status %q", status)
	}
	res := r.db.Model(&model.Withdrawal{}).
		Where("id = ? AND status = ?", id, model.WithdrawalPending).
		Updates(map[string]interface{}{
			"status":      status,
			"tx_hash":     txHash,
			"fail_reason": failReason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFinalized
	}
	return nil
}

func (r *LedgerRepository) GetWithdrawal(id uint64) (*model.Withdrawal, error) {
	var w model.Withdrawal
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *LedgerRepository) ListWithdrawals(page, size int) ([]*model.Withdrawal, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	var list []*model.Withdrawal
	var total int64
	r.db.Model(&model.Withdrawal{}).Count(&total)
	err := r.db.Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *LedgerRepository) ListUserWithdrawals(tgID int64) ([]*model.Withdrawal, error) {
	var list []*model.Withdrawal
	err := r.db.Where("tg_id = ?", tgID).Order("id DESC").Find(&list).Error
	return list, err
}

// Stats aggregates for the operator API.
type Stats struct {
	Users            int64           `json:"users"`
	Registered       int64           `json:"registered"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	Withdrawals      int64           `json:"withdrawals"`
	CompletedPayouts int64           `json:"completed_payouts"`
}

func (r *LedgerRepository) GetStats() (*Stats, error) {
	var s Stats
	if err := r.db.Model(&model.User{}).Count(&s.Users).Error; err != nil {
		return nil, err
	}
	r.db.Model(&model.User{}).Where("registered = ?", true).Count(&s.Registered)
	var total decimal.NullDecimal
	r.db.Model(&model.User{}).Select("SUM(balance)").Scan(&total)
	if total.Valid {
		s.TotalBalance = total.Decimal
	}
	r.db.Model(&model.Withdrawal{}).Count(&s.Withdrawals)
	r.db.Model(&model.Withdrawal{}).Where("status = ?", model.WithdrawalCompleted).Count(&s.CompletedPayouts)
	return &s, nil
}
