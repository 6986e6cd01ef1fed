package bot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mat_airdrop/model"
)

func (b *Bot) toUSD(amount decimal.Decimal) string {
	return amount.Mul(b.cfg.MatToUSD).StringFixed(2)
}

func shortAddr(addr string) string {
	if addr == "" {
		return "Not set"
	}
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func strOrNotSet(s *string) string {
	if s == nil || *s == "" {
		return "Not set"
	}
	return *s
}

func (b *Bot) welcomeText() string {
	return fmt.Sprintf(
		"🔥 Welcome to MAT Airdrop Registration! 🔥\n\n"+
			"To qualify, complete these simple tasks:\n\n"+
			"1️⃣ Join Announcement Channel: %s\n"+
			"2️⃣ Join Community Group: %s\n"+
			"3️⃣ Send your Twitter/X username (with @) in this chat\n\n"+
			"After that, you'll be asked to post the verification message in the group and then provide your BSC wallet.\n\n"+
			"Press '%s' below to begin.",
		b.cfg.AnnouncementLink, b.cfg.CommunityLink, btnJoinAirdrop)
}

func (b *Bot) twitterSavedText(handle string) string {
	return fmt.Sprintf(
		"✅ Twitter username saved as %s!\n\n"+
			"Now, please post the following message in the community group (%s):\n\n"+
			"%s\n\n"+
			"After posting, press the button below.",
		handle, b.cfg.CommunityLink, b.cfg.GroupPostText)
}

func (b *Bot) dashboardText(user *model.User) string {
	wallet := "Not set"
	if user.HasWallet() {
		wallet = shortAddr(*user.Wallet)
	}
	return fmt.Sprintf(
		"📊 MAT DASHBOARD 📊\n\n"+
			"👤 User: @%s\n"+
			"📅 Joined: %s\n"+
			"🐦 Twitter: %s\n"+
			"💼 Wallet: %s\n\n"+
			"💰 Balance: %s MAT (~ $%s)\n"+
			"👥 Referrals: %d\n"+
			"💸 Referral Earnings: %s MAT (~ $%s)\n\n"+
			"Use the menu to withdraw or update your wallet.",
		user.Username,
		user.JoinedAt.Format("2006-01-02"),
		strOrNotSet(user.Twitter),
		wallet,
		user.Balance, b.toUSD(user.Balance),
		user.Referrals,
		user.RefEarnings, b.toUSD(user.RefEarnings))
}

func (b *Bot) referralText(user *model.User, link string) string {
	return fmt.Sprintf(
		"🚀 MAT REFERRAL PROGRAM 🚀\n\n"+
			"Referral Bonus: %s MAT (~ $%s) per referral\n\n"+
			"👥 Your Referrals: %d\n"+
			"💰 Total Earned: %s MAT (~ $%s)\n\n"+
			"🔗 Your referral link:\n%s\n\n"+
			"Share the link — when someone registers and completes verification using your link, you'll be rewarded automatically!",
		b.cfg.ReferralBonus, b.toUSD(b.cfg.ReferralBonus),
		user.Referrals,
		user.RefEarnings, b.toUSD(user.RefEarnings),
		link)
}

func (b *Bot) walletSettingsText(user *model.User) string {
	wallet := "Not set"
	if user.HasWallet() {
		wallet = *user.Wallet
	}
	return fmt.Sprintf(
		"💼 MAT WALLET SETTINGS 💼\n\n"+
			"Current BSC Wallet: %s\n\n"+
			"Wallet Tips:\n"+
			"- Use MetaMask / Trust Wallet\n"+
			"- Do not use custodial exchange addresses\n"+
			"- Double-check your address before withdrawing",
		wallet)
}

func (b *Bot) helpText() string {
	return fmt.Sprintf(
		"ℹ️ MAT Airdrop Bot Help\n\n"+
			"Use the buttons to navigate:\n"+
			"- %s: Start registration\n"+
			"- %s: View your stats\n"+
			"- %s: Update or view wallet\n"+
			"- %s: Withdraw if you have >= %s MAT\n"+
			"- %s: Get your referral link\n\n"+
			"Distribution and withdrawals are automatic. Always use a non-custodial wallet you control.",
		btnJoinAirdrop, btnDashboard, btnWalletSettings, btnWithdraw, b.cfg.MinWithdrawal, btnReferral)
}

func (b *Bot) registeredText() string {
	return fmt.Sprintf(
		"🎉 Registration Successful!\n\n"+
			"💰 Received: %s MAT (~ $%s)\n"+
			"Distribution: Instant\n"+
			"Use /dashboard to view your stats.",
		b.cfg.JoinBonus, b.toUSD(b.cfg.JoinBonus))
}

func (b *Bot) referrerCreditText(refereeUsername string) string {
	return fmt.Sprintf(
		"🎁 Referral Bonus!\n\n"+
			"A new user @%s joined with your referral link!\n"+
			"You earned %s MAT (~ $%s)",
		refereeUsername, b.cfg.ReferralBonus, b.toUSD(b.cfg.ReferralBonus))
}
