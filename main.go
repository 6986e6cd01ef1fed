package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mat_airdrop/bot"
	"github.com/mat_airdrop/config"
	"github.com/mat_airdrop/handler"
	"github.com/mat_airdrop/model"
	"github.com/mat_airdrop/repository"
	"github.com/mat_airdrop/router"
	"github.com/mat_airdrop/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db := initDB(cfg.DBPath)
	ledger := repository.NewLedgerRepository(db)

	payout, err := service.NewPayoutService(cfg, logger)
	if err != nil {
		logger.Fatal("init payout service", zap.Error(err))
	}
	bonus := service.NewBonusService(ledger, cfg.JoinBonus, cfg.ReferralBonus)
	withdraw := service.NewWithdrawService(ledger, payout, cfg.MinWithdrawal, logger)
	verifier := service.NewSelfAttestVerifier()

	tgBot, err := bot.New(cfg, ledger, bonus, withdraw, verifier, logger)
	if err != nil {
		logger.Fatal("init bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go tgBot.Run(ctx)

	adminHandler := handler.NewAdminHandler(ledger)
	r := router.SetupRouter(adminHandler)
	logger.Info("admin API listening", zap.String("addr", cfg.AdminAPIAddr))
	if err := r.Run(cfg.AdminAPIAddr); err != nil {
		logger.Fatal("admin API", zap.Error(err))
	}
}

func initDB(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Referral{}, &model.Withdrawal{}); err != nil {
		log.Fatal(err)
	}
	return db
}
