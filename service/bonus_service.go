package service

import (
	"github.com/shopspring/decimal"

	"github.com/mat_airdrop/repository"
)

// BonusService holds the two credit amounts and the rule that the
// referral bonus lands only when the referee completes registration.
// All mutation happens in the ledger's single registration transaction.
type BonusService struct {
	ledger        *repository.LedgerRepository
	joinBonus     decimal.Decimal
	referralBonus decimal.Decimal
}

func NewBonusService(ledger *repository.LedgerRepository, joinBonus, referralBonus decimal.Decimal) *BonusService {
	return &BonusService{
		ledger:        ledger,
		joinBonus:     joinBonus,
		referralBonus: referralBonus,
	}
}

func (s *BonusService) JoinBonus() decimal.Decimal     { return s.joinBonus }
func (s *BonusService) ReferralBonus() decimal.Decimal { return s.referralBonus }

// Register saves the wallet and, on first registration, credits the
// join bonus and the referrer's bonus in one transaction.
func (s *BonusService) Register(tgID int64, wallet string) (*repository.RegisterOutcome, error) {
	return s.ledger.SetWalletAndRegister(tgID, wallet, s.joinBonus, s.referralBonus)
}
