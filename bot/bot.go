package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mat_airdrop/config"
	"github.com/mat_airdrop/repository"
	"github.com/mat_airdrop/service"
)

// Bot wires the Telegram transport to the airdrop services. Each update
// is handled to completion before the next one for the same user is
// read from the channel.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	ledger   *repository.LedgerRepository
	bonus    *service.BonusService
	withdraw *service.WithdrawService
	verifier service.TaskVerifier
	sessions *SessionStore
	logger   *zap.Logger
}

func New(
	cfg *config.Config,
	ledger *repository.LedgerRepository,
	bonus *service.BonusService,
	withdraw *service.WithdrawService,
	verifier service.TaskVerifier,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		ledger:   ledger,
		bonus:    bonus,
		withdraw: withdraw,
		verifier: verifier,
		sessions: NewSessionStore(30 * time.Minute),
		logger:   logger,
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("send failed", zap.Error(err))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenu()
	b.send(msg)
}
