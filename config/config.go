package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything the bot, the ledger and the payout pipeline need.
// Values come from the environment (.env is loaded if present).
type Config struct {
	BotToken string

	// Chain / payout
	RPCURL           string
	TokenAddress     string
	PayoutFrom       string
	PrivateKey       string
	GasPriceGwei     int64
	GasLimitFallback uint64
	ConfirmTimeout   time.Duration

	// Airdrop economics
	JoinBonus     decimal.Decimal
	ReferralBonus decimal.Decimal
	MinWithdrawal decimal.Decimal
	MatToUSD      decimal.Decimal

	// Links shown in the registration flow
	AnnouncementLink string
	CommunityLink    string
	GroupPostText    string

	DBPath       string
	AdminAPIAddr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		RPCURL:           getEnv("BSC_RPC_URL", "https://bsc-dataseed.binance.org/"),
		TokenAddress:     os.Getenv("MAT_TOKEN_ADDRESS"),
		PayoutFrom:       os.Getenv("PAYOUT_FROM_ADDRESS"),
		PrivateKey:       os.Getenv("PRIVATE_KEY"),
		AnnouncementLink: getEnv("ANNOUNCEMENT_LINK", "https://t.me/mat_to_the_moon"),
		CommunityLink:    getEnv("COMMUNITY_LINK", "https://t.me/matcommunitygroup"),
		GroupPostText:    getEnv("GROUP_POST_TEXT", "$MAT To The Moon 🚀🚀"),
		DBPath:           getEnv("DB_PATH", "mat_airdrop.db"),
		AdminAPIAddr:     getEnv("ADMIN_API_ADDR", ":8080"),
	}

	var err error
	if cfg.GasPriceGwei, err = getInt64("GAS_PRICE_GWEI", 5); err != nil {
		return nil, err
	}
	gasLimit, err := getInt64("GAS_LIMIT_FALLBACK", 200000)
	if err != nil {
		return nil, err
	}
	cfg.GasLimitFallback = uint64(gasLimit)

	timeoutSec, err := getInt64("CONFIRM_TIMEOUT_SECONDS", 240)
	if err != nil {
		return nil, err
	}
	cfg.ConfirmTimeout = time.Duration(timeoutSec) * time.Second

	if cfg.JoinBonus, err = getDecimal("JOIN_BONUS", "2.0"); err != nil {
		return nil, err
	}
	if cfg.ReferralBonus, err = getDecimal("REFERRAL_BONUS", "0.8"); err != nil {
		return nil, err
	}
	if cfg.MinWithdrawal, err = getDecimal("MIN_WITHDRAWAL", "4.0"); err != nil {
		return nil, err
	}
	if cfg.MatToUSD, err = getDecimal("MAT_TO_USD", "100"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDecimal(key, fallback string) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
