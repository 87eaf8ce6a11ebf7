package telegram

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hako/durafmt"
	"github.com/tftbot/tftbot/internal/event"
	"golang.org/x/time/rate"
)

const (
	maxRetries = 3
	retryBase  = 2 * time.Second
)

type Bot struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	logger  *slog.Logger
	limiter *rate.Limiter
}

// NewBot creates a Telegram bot. tgbotapi.NewBotAPI contacts api.telegram.org
// which occasionally resets connections, so the call is retried with backoff.
func NewBot(ctx context.Context, token string, chatID int64, logger *slog.Logger) (*Bot, error) {
	api, err := retry.DoWithData(
		func() (*tgbotapi.BotAPI, error) {
			return tgbotapi.NewBotAPI(token)
		},
		retry.Context(ctx),
		retry.Attempts(maxRetries),
		retry.Delay(retryBase),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Telegram API connection failed, retrying",
				slog.Uint64("attempt", uint64(n+1)),
				slog.Int("maxRetries", maxRetries),
				slog.Any("error", err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("after %d attempts: %w", maxRetries, err)
	}

	return &Bot{
		bot:     api,
		chatID:  chatID,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}, nil
}

func (b *Bot) Handle(ctx context.Context, e event.Event) error {
	text, ok := formatMessage(e)
	if !ok {
		return nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}

	if e.Image() == nil {
		_, err := b.bot.Send(tgbotapi.NewMessage(b.chatID, text))
		return err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, e.Image(), &jpeg.Options{Quality: 80}); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(b.chatID, tgbotapi.FileBytes{Name: "screenshot.jpeg", Bytes: buf.Bytes()})
	photo.Caption = text
	_, err := b.bot.Send(photo)

	return err
}

func formatMessage(e event.Event) (string, bool) {
	switch evt := e.(type) {
	case event.MatchFinishedEvent:
		verb := "finished"
		if evt.Surrendered {
			verb = "surrendered"
		}
		return fmt.Sprintf("%s match %s after %s", humanize.Ordinal(evt.GameCount), verb, durafmt.Parse(evt.Duration).LimitFirstN(2)), true
	case event.ClientErrorEvent:
		return fmt.Sprintf("Recovered from client error: %s", evt.Kind), true
	case event.PauseToggledEvent, event.MatchStartedEvent:
		return e.Message(), true
	}

	if e.Image() != nil {
		return e.Message(), true
	}
	return "", false
}
