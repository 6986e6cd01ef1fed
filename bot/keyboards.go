package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnJoinAirdrop    = "🚀 Join Airdrop"
	btnDashboard      = "📊 Dashboard"
	btnWithdraw       = "💸 Withdraw MAT"
	btnReferral       = "👥 Referral Program"
	btnWalletSettings = "💼 Wallet Settings"
	btnHelp           = "ℹ️ Help"
)

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnJoinAirdrop)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDashboard),
			tgbotapi.NewKeyboardButton(btnWithdraw),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnReferral),
			tgbotapi.NewKeyboardButton(btnWalletSettings),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnHelp)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func postedKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I Posted", "posted"),
		),
	)
}

func walletSettingsKeyboard(wallet string) tgbotapi.InlineKeyboardMarkup {
	scanURL := "https://bscscan.com"
	if wallet != "" {
		scanURL = "https://bscscan.com/address/" + wallet
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Update Wallet", "wallet_update"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 View Full Address", "view_wallet"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🌐 View on BscScan", scanURL),
		),
	)
}
