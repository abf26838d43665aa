package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pumpdetector/internal/pump"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender is the part of the Bot API client the sink needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramSink posts formatted alerts to Telegram chats and channels through the Bot API.
type TelegramSink struct {
	sender    MessageSender
	formatter Formatter
}

// NewTelegramBot builds a Bot API client for serverURL without the startup getMe call.
func NewTelegramBot(serverURL, token string, timeout time.Duration) (*bot.Bot, error) {
	b, err := bot.New(token,
		bot.WithServerURL(serverURL),
		bot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
		bot.WithSkipGetMe(),
	)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return b, nil
}

func NewTelegramSink(sender MessageSender, formatter Formatter) *TelegramSink {
	return &TelegramSink{sender: sender, formatter: formatter}
}

func (s *TelegramSink) Name() string { return "telegram" }

// Send posts the message to every channel; failures are joined.
func (s *TelegramSink) Send(ctx context.Context, channels []string, alert pump.Alert) error {
	text := s.formatter.Format(alert)

	var errs []error
	for _, ch := range channels {
		_, err := s.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    ch,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("chat %s: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}
