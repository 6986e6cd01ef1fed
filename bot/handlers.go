package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mat_airdrop/repository"
	"github.com/mat_airdrop/service"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "dashboard":
		b.handleDashboard(msg)
	case "withdraw":
		b.handleWithdraw(ctx, msg)
	case "referral":
		b.handleReferral(msg)
	case "wallet":
		b.handleWalletSettings(msg)
	case "help":
		b.reply(msg.Chat.ID, b.helpText())
	default:
		b.reply(msg.Chat.ID, "Unknown command. Use the menu buttons below.")
	}
}

// handleStart registers first contact and captures the referral
// start-parameter. Self-referrals are dropped; the referral bonus is
// only paid later, when this user completes registration.
func (b *Bot) handleStart(msg *tgbotapi.Message) {
	tgID := msg.From.ID
	username := msg.From.UserName
	if username == "" {
		username = msg.From.FirstName
	}

	var refBy *int64
	if arg := msg.CommandArguments(); arg != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64); err == nil && id != tgID {
			refBy = &id
		}
	}

	if err := b.ledger.CreateUser(tgID, username, refBy); err != nil {
		b.logger.Error("create user", zap.Int64("tg_id", tgID), zap.Error(err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	b.reply(msg.Chat.ID, b.welcomeText())
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	tgID := msg.From.ID

	// Wallet address input, either fresh registration or an update.
	if strings.HasPrefix(text, "0x") && len(text) == 42 {
		b.handleWalletInput(msg, text)
		return
	}

	switch text {
	case btnJoinAirdrop:
		b.sessions.Set(tgID, StateAwaitingTwitter)
		b.reply(msg.Chat.ID, "Great — first, send me your Twitter/X username (with @). Example: @username")
		return
	case btnDashboard:
		b.handleDashboard(msg)
		return
	case btnWithdraw:
		b.handleWithdraw(ctx, msg)
		return
	case btnReferral:
		b.handleReferral(msg)
		return
	case btnWalletSettings:
		b.handleWalletSettings(msg)
		return
	case btnHelp:
		b.reply(msg.Chat.ID, b.helpText())
		return
	}

	if strings.HasPrefix(text, "@") {
		b.handleTwitterInput(msg, text)
		return
	}

	switch b.sessions.Get(tgID) {
	case StateAwaitingTwitter:
		b.reply(msg.Chat.ID, "Please send your Twitter/X username starting with @. Example: @username")
	case StateAwaitingWallet, StateAwaitingWalletUpdate:
		b.reply(msg.Chat.ID, "Please send a valid BSC wallet address (0x..., 42 characters).")
	default:
		b.reply(msg.Chat.ID, "Please use the menu buttons below.")
	}
}

func (b *Bot) handleTwitterInput(msg *tgbotapi.Message, handle string) {
	tgID := msg.From.ID
	username := msg.From.UserName
	if username == "" {
		username = msg.From.FirstName
	}
	// /start may have been skipped; make sure the row exists.
	if err := b.ledger.CreateUser(tgID, username, nil); err != nil {
		b.logger.Error("create user", zap.Int64("tg_id", tgID), zap.Error(err))
	}
	if err := b.ledger.SetTwitter(tgID, handle); err != nil {
		b.logger.Error("set twitter", zap.Int64("tg_id", tgID), zap.Error(err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	b.sessions.Clear(tgID)

	out := tgbotapi.NewMessage(msg.Chat.ID, b.twitterSavedText(handle))
	out.ReplyMarkup = postedKeyboard()
	b.send(out)
}

func (b *Bot) handleWalletInput(msg *tgbotapi.Message, wallet string) {
	tgID := msg.From.ID
	user, err := b.ledger.GetUser(tgID)
	if err != nil {
		b.reply(msg.Chat.ID, "Please /start first.")
		return
	}
	b.sessions.Clear(tgID)

	outcome, err := b.bonus.Register(tgID, wallet)
	if err != nil {
		b.logger.Error("register", zap.Int64("tg_id", tgID), zap.Error(err))
		b.reply(msg.Chat.ID, "Error registering wallet, please try again.")
		return
	}

	if outcome.Status == repository.WalletUpdated {
		b.reply(msg.Chat.ID, fmt.Sprintf("✅ Wallet Updated!\nNew wallet: %s", wallet))
		return
	}

	if outcome.ReferrerCredited {
		note := tgbotapi.NewMessage(outcome.ReferrerID, b.referrerCreditText(user.Username))
		if _, err := b.api.Send(note); err != nil {
			b.logger.Warn("notify referrer", zap.Int64("referrer", outcome.ReferrerID), zap.Error(err))
		}
	}
	b.reply(msg.Chat.ID, b.registeredText())
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Warn("answer callback", zap.Error(err))
	}
	if q.Message == nil {
		return
	}
	tgID := q.From.ID
	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID

	switch q.Data {
	case "posted":
		ok, err := b.verifier.VerifyGroupPost(ctx, tgID)
		if err != nil || !ok {
			b.send(tgbotapi.NewEditMessageText(chatID, msgID,
				"❌ Verification failed. Please post the message in the group and try again."))
			return
		}
		b.sessions.Set(tgID, StateAwaitingWallet)
		b.send(tgbotapi.NewEditMessageText(chatID, msgID,
			"✅ Telegram verification successful!\n\nNow, please provide your BSC wallet address (0x...):\nMake sure this is a non-custodial wallet (MetaMask, Trust Wallet)."))
	case "wallet_update":
		b.sessions.Set(tgID, StateAwaitingWalletUpdate)
		b.send(tgbotapi.NewEditMessageText(chatID, msgID,
			"Please send your new wallet address as a message (must start with 0x)."))
	case "view_wallet":
		user, err := b.ledger.GetUser(tgID)
		if err != nil {
			b.send(tgbotapi.NewEditMessageText(chatID, msgID, "Not registered. Use /start."))
			return
		}
		if !user.HasWallet() {
			b.send(tgbotapi.NewEditMessageText(chatID, msgID, "No wallet set."))
			return
		}
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, fmt.Sprintf(
			"💼 MAT WALLET\n\nCurrent: %s\n\nView on BscScan: https://bscscan.com/address/%s",
			*user.Wallet, *user.Wallet)))
	}
}

func (b *Bot) handleDashboard(msg *tgbotapi.Message) {
	user, err := b.ledger.GetUser(msg.From.ID)
	if err != nil {
		b.reply(msg.Chat.ID, "You are not registered. Use /start to join.")
		return
	}
	b.reply(msg.Chat.ID, b.dashboardText(user))
}

func (b *Bot) handleReferral(msg *tgbotapi.Message) {
	user, err := b.ledger.GetUser(msg.From.ID)
	if err != nil {
		b.reply(msg.Chat.ID, "You are not registered. Use /start.")
		return
	}
	link := fmt.Sprintf("https://t.me/%s?start=%d", b.api.Self.UserName, msg.From.ID)
	b.reply(msg.Chat.ID, b.referralText(user, link))
}

func (b *Bot) handleWalletSettings(msg *tgbotapi.Message) {
	user, err := b.ledger.GetUser(msg.From.ID)
	if err != nil {
		b.reply(msg.Chat.ID, "You are not registered. Use /start.")
		return
	}
	wallet := ""
	if user.HasWallet() {
		wallet = *user.Wallet
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, b.walletSettingsText(user))
	out.ReplyMarkup = walletSettingsKeyboard(wallet)
	b.send(out)
}

func (b *Bot) handleWithdraw(ctx context.Context, msg *tgbotapi.Message) {
	tgID := msg.From.ID
	user, err := b.ledger.GetUser(tgID)
	if err != nil {
		b.reply(msg.Chat.ID, "You are not registered. Use /start.")
		return
	}

	if user.HasWallet() && user.Balance.GreaterThanOrEqual(b.cfg.MinWithdrawal) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
			"Processing automatic withdrawal of %s MAT (~ $%s) to %s ...",
			user.Balance, b.toUSD(user.Balance), *user.Wallet)))
	}

	result, err := b.withdraw.Withdraw(ctx, tgID)
	if err != nil {
		b.replyWithdrawError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Withdrawal Sent!\nAmount: %s MAT (~ $%s)\nTx: %s\nView: https://bscscan.com/tx/%s",
		result.Amount, b.toUSD(result.Amount), result.TxHash, result.TxHash))
}

func (b *Bot) replyWithdrawError(chatID int64, err error) {
	var below *service.ErrBelowMinimum
	switch {
	case errors.As(err, &below):
		need := below.Minimum.Sub(below.Balance)
		b.reply(chatID, fmt.Sprintf(
			"💸 MAT WITHDRAWAL 💸\n\n"+
				"💰 Your Balance: %s MAT (~ $%s)\n"+
				"📌 Minimum Withdrawal: %s MAT (~ $%s)\n\n"+
				"❌ You don't have enough MAT to withdraw. You need %s more MAT.",
			below.Balance, b.toUSD(below.Balance),
			below.Minimum, b.toUSD(below.Minimum),
			need))
	case errors.Is(err, service.ErrNoWallet):
		b.reply(chatID, "Please set your wallet first under Wallet Settings.")
	case errors.Is(err, service.ErrNotConfigured):
		b.reply(chatID, "Withdrawals are temporarily unavailable. Please try again later.")
	case errors.Is(err, repository.ErrInsufficientBalance):
		b.reply(chatID, "Your balance changed, please try again.")
	default:
		b.reply(chatID, "❌ Withdrawal failed.\nYour balance has been restored.")
	}
}
