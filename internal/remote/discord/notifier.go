package discord

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/tftbot/tftbot/internal/event"
	"golang.org/x/time/rate"
)

const (
	colorFinished   = 0x2ECC71
	colorSurrender  = 0xF1C40F
	colorClientFail = 0xE74C3C
)

type Notifier struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// NewNotifier posts to a Discord webhook, at most one message every 2 seconds
// with a burst of 5.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		url:     strings.TrimSpace(webhookURL),
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 5),
	}
}

func (n *Notifier) Handle(ctx context.Context, e event.Event) error {
	payload, ok := buildPayload(e)
	if !ok {
		return nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	if e.Image() != nil {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, e.Image(), &jpeg.Options{Quality: 80}); err != nil {
			return err
		}
		payload.Files = []*discordgo.File{{Name: "Screenshot.jpeg", ContentType: "image/jpeg", Reader: buf}}
	}

	return n.post(ctx, payload)
}

// post sends the payload as multipart form data, so one request carries both
// the embeds and the screenshot.
func (n *Notifier) post(ctx context.Context, payload *discordgo.WebhookParams) error {
	contentType, body, err := discordgo.MultipartBodyWithJSON(payload, payload.Files)
	if err != nil {
		return fmt.Errorf("error encoding Discord message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating Discord request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending Discord message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook answered %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return nil
}

func buildPayload(e event.Event) (*discordgo.WebhookParams, bool) {
	switch evt := e.(type) {
	case event.MatchFinishedEvent:
		embed := &discordgo.MessageEmbed{
			Title:     "Match finished",
			Color:     colorFinished,
			Timestamp: evt.OccurredAt().Format(time.RFC3339),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Game", Value: humanize.Ordinal(evt.GameCount), Inline: true},
				{Name: "Duration", Value: durafmt.Parse(evt.Duration).LimitFirstN(2).String(), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: evt.MatchID()},
		}
		if evt.Surrendered {
			embed.Title = "Match surrendered"
			embed.Color = colorSurrender
		}
		return &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}, true
	case event.ClientErrorEvent:
		return &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{{
			Title:       "Client error recovered",
			Description: fmt.Sprintf("%s (%s)", evt.Message(), evt.Kind),
			Color:       colorClientFail,
			Timestamp:   evt.OccurredAt().Format(time.RFC3339),
		}}}, true
	case event.PauseToggledEvent, event.MatchStartedEvent:
		return &discordgo.WebhookParams{Content: e.Message()}, true
	}

	if e.Image() != nil {
		return &discordgo.WebhookParams{Content: e.Message()}, true
	}

	return nil, false
}
