package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marcusyeo/TimeButler/internal/assistant"
	"github.com/marcusyeo/TimeButler/internal/bot/handlers"
	"github.com/marcusyeo/TimeButler/internal/butler"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(token string, core *butler.Butler, loc *time.Location, devMode bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = devMode

	responder := assistant.New(core, func() time.Time { return time.Now().In(loc) })

	return &Bot{
		api:      api,
		handlers: handlers.New(api, core, responder, loc, devMode),
	}, nil
}

// API exposes the underlying client for the scheduler's outbound messages.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// SetNotify registers a callback fired after commands that change the calendar.
func (b *Bot) SetNotify(fn func()) {
	b.handlers.SetNotify(fn)
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	b.handlers.HandleMessage(ctx, update.Message)
}
