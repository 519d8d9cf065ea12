// Package bot implements the Telegram front of the clinic appointment
// service: the command handlers, the inline-button menus and the booking
// state machine.
package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/avoronov/clinicbot/calendar"
	"github.com/avoronov/clinicbot/config"
	"github.com/avoronov/clinicbot/storage"
)

// Bot wires the Telegram API to the store, the clinic catalog and the
// calendar export.
type Bot struct {
	api      *tgbotapi.BotAPI
	store    storage.Store
	cfg      *config.Config
	isAdmin  func(int64) bool
	sessions *sessionStore
	cal      *calendar.Manager
	log      *zap.Logger
}

// New creates a bot instance. isAdmin is the admin capability predicate;
// every privileged screen goes through it.
func New(token string, cfg *config.Config, isAdmin func(int64) bool, store storage.Store, cal *calendar.Manager, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:      api,
		store:    store,
		cfg:      cfg,
		isAdmin:  isAdmin,
		sessions: newSessionStore(),
		cal:      cal,
		log:      log,
	}, nil
}

// Start runs the long-polling update loop until the update channel closes.
func (b *Bot) Start() error {
	b.log.Info("Bot started", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(update.Message)
		} else if update.CallbackQuery != nil {
			b.handleCallbackQuery(update.CallbackQuery)
		}
	}

	return nil
}

// Stop shuts down the update channel, unblocking Start.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// NotifyAdmins sends a message to every configured admin. Best effort:
// failures are logged and skipped.
func (b *Bot) NotifyAdmins(text string) {
	for _, adminID := range b.cfg.AdminIDs {
		msg := tgbotapi.NewMessage(adminID, text)
		if _, err := b.api.Send(msg); err != nil {
			b.log.Warn("Failed to notify admin", zap.Int64("admin_id", adminID), zap.Error(err))
		}
	}
}
