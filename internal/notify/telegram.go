package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/ankicode/pkg/models"
)

// Telegram rejects longer messages
const telegramMaxLen = 4096

// botSender is the part of *tgbotapi.BotAPI the notifier uses
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends digests as bot messages to the user's chat
type Telegram struct {
	api      botSender
	renderer *Renderer
}

// NewTelegram creates a Telegram notifier from a bot token
func NewTelegram(token string, renderer *Renderer) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{api: api, renderer: renderer}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Accepts(user models.User) bool {
	return user.TelegramChatID != 0
}

func (t *Telegram) SendDigest(ctx context.Context, user models.User, items []models.ReviewItem) error {
	if user.TelegramChatID == 0 {
		return ErrNoDestination
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text, err := t.renderer.Text(user, items)
	if err != nil {
		return err
	}
	if r := []rune(text); len(r) > telegramMaxLen {
		text = string(r[:telegramMaxLen-1]) + "…"
	}
	msg := tgbotapi.NewMessage(user.TelegramChatID, text)
	msg.DisableWebPagePreview = true

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
