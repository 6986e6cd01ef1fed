package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mat_airdrop/model"
	"github.com/mat_airdrop/repository"
)

var ErrNoWallet = errors.New("no wallet on file")

// ErrBelowMinimum carries the numbers the bot needs to tell the user
// how much more they have to earn.
type ErrBelowMinimum struct {
	Balance decimal.Decimal
	Minimum decimal.Decimal
}

func (e *ErrBelowMinimum) Error() string {
	return fmt.Sprintf("balance %s below minimum withdrawal %s", e.Balance, e.Minimum)
}

// TokenTransferor is the payout gateway seen by the orchestrator.
type TokenTransferor interface {
	Configured() bool
	Transfer(ctx context.Context, dest string, amount decimal.Decimal) (string, error)
}

type WithdrawResult struct {
	Amount decimal.Decimal
	TxHash string
}

// WithdrawService runs the withdrawal sequence: eligibility check,
// balance reservation, on-chain transfer, ledger reconciliation.
// Every reservation it makes ends in exactly one of completed (balance
// stays deducted) or failed (balance restored in full).
type WithdrawService struct {
	ledger        *repository.LedgerRepository
	payout        TokenTransferor
	minWithdrawal decimal.Decimal
	logger        *zap.Logger
}

func NewWithdrawService(ledger *repository.LedgerRepository, payout TokenTransferor, minWithdrawal decimal.Decimal, logger *zap.Logger) *WithdrawService {
	return &WithdrawService{
		ledger:        ledger,
		payout:        payout,
		minWithdrawal: minWithdrawal,
		logger:        logger,
	}
}

// Withdraw pays out the user's entire current balance to their wallet.
func (s *WithdrawService) Withdraw(ctx context.Context, tgID int64) (*WithdrawResult, error) {
	user, err := s.ledger.GetUser(tgID)
	if err != nil {
		return nil, err
	}

	// Fail fast before touching any balance.
	if !s.payout.Configured() {
		return nil, ErrNotConfigured
	}
	if !user.HasWallet() {
		return nil, ErrNoWallet
	}
	if user.Balance.LessThan(s.minWithdrawal) {
		return nil, &ErrBelowMinimum{Balance: user.Balance, Minimum: s.minWithdrawal}
	}

	amount := user.Balance
	dest := *user.Wallet

	// Reservation re-checks the balance atomically; a concurrent
	// withdrawal may have won in the meantime.
	if err := s.ledger.ReserveBalance(tgID, amount); err != nil {
		return nil, err
	}

	withdrawalID, err := s.ledger.CreateWithdrawal(tgID, amount, dest)
	if err != nil {
		// Reservation without a record would leak funds; undo it.
		s.restore(tgID, amount)
		return nil, err
	}

	txHash, err := s.payout.Transfer(ctx, dest, amount)
	if err != nil {
		s.logger.Warn("payout failed, restoring balance",
			zap.Int64("tg_id", tgID),
			zap.String("amount", amount.String()),
			zap.Error(err))
		s.restore(tgID, amount)
		if ferr := s.ledger.FinalizeWithdrawal(withdrawalID, model.WithdrawalFailed, nil, err.Error()); ferr != nil {
			s.logger.Error("finalize failed withdrawal", zap.Uint64("withdrawal_id", withdrawalID), zap.Error(ferr))
		}
		return nil, err
	}

	if err := s.ledger.FinalizeWithdrawal(withdrawalID, model.WithdrawalCompleted, &txHash, ""); err != nil {
		s.logger.Error("finalize completed withdrawal", zap.Uint64("withdrawal_id", withdrawalID), zap.Error(err))
	}
	s.logger.Info("withdrawal completed",
		zap.Int64("tg_id", tgID),
		zap.String("amount", amount.String()),
		zap.String("tx_hash", txHash))
	return &WithdrawResult{Amount: amount, TxHash: txHash}, nil
}

func (s *WithdrawService) restore(tgID int64, amount decimal.Decimal) {
	if err := s.ledger.RestoreBalance(tgID, amount); err != nil {
		// The ledger is now short; this needs operator attention.
		s.logger.Error("restore balance failed",
			zap.Int64("tg_id", tgID),
			zap.String("amount", amount.String()),
			zap.Error(err))
	}
}
