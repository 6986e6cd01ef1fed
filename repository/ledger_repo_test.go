package repository

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mat_airdrop/model"
)

var (
	joinBonus = decimal.RequireFromString("2.0")
	refBonus  = decimal.RequireFromString("0.8")
)

func setupLedger(t *testing.T) *LedgerRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Referral{}, &model.Withdrawal{}))
	return NewLedgerRepository(db)
}

func TestCreateUser_Idempotent(t *testing.T) {
	repo := setupLedger(t)

	require.NoError(t, repo.CreateUser(1, "alice", nil))

	// Credit something, then re-create: the existing row must survive.
	require.NoError(t, repo.RestoreBalance(1, decimal.RequireFromString("3.5")))
	require.NoError(t, repo.CreateUser(1, "alice", nil))

	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.RequireFromString("3.5")), "balance was %s", user.Balance)
	assert.False(t, user.Registered)
}

func TestGetUser_NotFound(t *testing.T) {
	repo := setupLedger(t)

	_, err := repo.GetUser(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetWalletAndRegister_CreditsJoinBonus(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))

	outcome, err := repo.SetWalletAndRegister(1, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", joinBonus, refBonus)
	require.NoError(t, err)
	assert.Equal(t, Registered, outcome.Status)
	assert.False(t, outcome.ReferrerCredited)

	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Registered)
	assert.True(t, user.Balance.Equal(joinBonus), "balance was %s", user.Balance)
	require.NotNil(t, user.Wallet)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", *user.Wallet)
}

func TestSetWalletAndRegister_SecondCallOnlyUpdatesWallet(t *testing.T) {
	repo := setupLedger(t)
	referrer := int64(10)
	require.NoError(t, repo.CreateUser(referrer, "ref", nil))
	require.NoError(t, repo.CreateUser(1, "alice", &referrer))

	_, err := repo.SetWalletAndRegister(1, "0x1111111111111111111111111111111111111111", joinBonus, refBonus)
	require.NoError(t, err)

	outcome, err := repo.SetWalletAndRegister(1, "0x2222222222222222222222222222222222222222", joinBonus, refBonus)
	require.NoError(t, err)
	assert.Equal(t, WalletUpdated, outcome.Status)
	assert.False(t, outcome.ReferrerCredited)

	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(joinBonus), "join bonus credited twice: %s", user.Balance)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", *user.Wallet)

	ref, err := repo.GetUser(referrer)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.Referrals, "referral credited twice")

	var count int64
	repo.db.Model(&model.Referral{}).Where("referrer = ? AND referee = ?", referrer, int64(1)).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSetWalletAndRegister_CreditsReferrer(t *testing.T) {
	repo := setupLedger(t)
	referrer := int64(10)
	require.NoError(t, repo.CreateUser(referrer, "ref", nil))
	require.NoError(t, repo.CreateUser(1, "alice", &referrer))

	outcome, err := repo.SetWalletAndRegister(1, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", joinBonus, refBonus)
	require.NoError(t, err)
	assert.True(t, outcome.ReferrerCredited)
	assert.Equal(t, referrer, outcome.ReferrerID)

	ref, err := repo.GetUser(referrer)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.Referrals)
	assert.True(t, ref.Balance.Equal(refBonus), "referrer balance was %s", ref.Balance)
	assert.True(t, ref.RefEarnings.Equal(refBonus))

	var referrals []model.Referral
	repo.db.Find(&referrals)
	require.Len(t, referrals, 1)
	assert.Equal(t, referrer, referrals[0].Referrer)
	assert.Equal(t, int64(1), referrals[0].Referee)
}

func TestSetWalletAndRegister_UnknownReferrerIgnored(t *testing.T) {
	repo := setupLedger(t)
	ghost := int64(404)
	require.NoError(t, repo.CreateUser(1, "alice", &ghost))

	outcome, err := repo.SetWalletAndRegister(1, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", joinBonus, refBonus)
	require.NoError(t, err)
	assert.Equal(t, Registered, outcome.Status)
	assert.False(t, outcome.ReferrerCredited)

	var count int64
	repo.db.Model(&model.Referral{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSetWalletAndRegister_UserNotFound(t *testing.T) {
	repo := setupLedger(t)

	_, err := repo.SetWalletAndRegister(42, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", joinBonus, refBonus)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReserveBalance(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))
	require.NoError(t, repo.RestoreBalance(1, decimal.RequireFromString("5.0")))

	require.NoError(t, repo.ReserveBalance(1, decimal.RequireFromString("5.0")))

	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero(), "balance was %s", user.Balance)
}

func TestReserveBalance_Insufficient(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))
	require.NoError(t, repo.RestoreBalance(1, decimal.RequireFromString("0.8")))

	err := repo.ReserveBalance(1, decimal.RequireFromString("4.0"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Balance untouched on failure.
	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.RequireFromString("0.8")), "balance was %s", user.Balance)
}

func TestReserveBalance_NotFound(t *testing.T) {
	repo := setupLedger(t)

	err := repo.ReserveBalance(99, decimal.RequireFromString("1.0"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReserveBalance_SecondReservationLoses(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))
	require.NoError(t, repo.RestoreBalance(1, decimal.RequireFromString("5.0")))

	amount := decimal.RequireFromString("5.0")
	require.NoError(t, repo.ReserveBalance(1, amount))
	assert.ErrorIs(t, repo.ReserveBalance(1, amount), ErrInsufficientBalance)

	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero(), "balance went negative or drifted: %s", user.Balance)
}

func TestReserveThenRestore_Exact(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))
	before := decimal.RequireFromString("5.0")
	require.NoError(t, repo.RestoreBalance(1, before))

	require.NoError(t, repo.ReserveBalance(1, before))
	require.NoError(t, repo.RestoreBalance(1, before))

	user, err := repo.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(before), "restoration drifted: %s", user.Balance)
}

func TestFinalizeWithdrawal_OneWay(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))

	id, err := repo.CreateWithdrawal(1, decimal.RequireFromString("5.0"), "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)

	hash := "0xabc"
	require.NoError(t, repo.FinalizeWithdrawal(id, model.WithdrawalCompleted, &hash, ""))

	w, err := repo.GetWithdrawal(id)
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawalCompleted, w.Status)
	require.NotNil(t, w.TxHash)
	assert.Equal(t, hash, *w.TxHash)

	// A second transition must not go through.
	err = repo.FinalizeWithdrawal(id, model.WithdrawalFailed, nil, "late failure")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	w, err = repo.GetWithdrawal(id)
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawalCompleted, w.Status)
}

func TestFinalizeWithdrawal_RejectsPendingTarget(t *testing.T) {
	repo := setupLedger(t)
	require.NoError(t, repo.CreateUser(1, "alice", nil))
	id, err := repo.CreateWithdrawal(1, decimal.RequireFromString("1.0"), "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	require.NoError(t, err)

	err = repo.FinalizeWithdrawal(id, model.WithdrawalPending, nil, "")
	assert.Error(t, err)
}
