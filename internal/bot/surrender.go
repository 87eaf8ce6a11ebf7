package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/utils"
)

const (
	surrenderGraceMin   = 100 * time.Second
	surrenderGraceMax   = 150 * time.Second
	surrenderAttempts   = 20
	surrenderRetryDelay = time.Second
	surrenderClickDelay = time.Second
	surrenderDoneDelay  = 10 * time.Second
)

var errMatchEnded = errors.New("match ended during surrender")

func (c *Controller) handleSurrendering(ctx context.Context) SessionState {
	c.ctx.SetLastAction("Surrender")
	c.ctx.CurrentGame.SurrenderAttempted = true

	err := c.surrender(ctx)
	switch {
	case errors.Is(err, errMatchEnded):
		c.ctx.Logger.Info("Match ended before the surrender was confirmed")
		return StatePostGame
	case err != nil:
		c.ctx.Logger.Warn("Surrender failed, playing the match out", slog.Any("error", err))
		return StateInMatch
	}

	c.ctx.CurrentGame.Surrendered = true
	c.ctx.Logger.Info("Surrendered")
	return StatePostGame
}

func (c *Controller) surrender(ctx context.Context) error {
	grace := utils.RandomDuration(surrenderGraceMin, surrenderGraceMax)
	c.ctx.Logger.Info("Surrendering after grace period", slog.Duration("grace", grace))
	c.ctx.Sleep(grace)

	t := c.ctx.Templates
	c.openSettings()

	c.ctx.SetLastStep("FirstConfirmation")
	err := c.retry(ctx, func() error {
		if action.IsVisible(c.ctx, t.Surrender1) {
			return nil
		}
		c.openSettings()
		return game.ErrTemplateNotFound
	})
	if err != nil {
		return err
	}
	action.ClickImage(c.ctx, t.Surrender1, action.ClickOptions{})

	c.ctx.SetLastStep("FinalConfirmation")
	err = c.retry(ctx, func() error {
		if action.IsVisible(c.ctx, t.Surrender2) {
			return nil
		}
		action.ClickImage(c.ctx, t.Surrender1, action.ClickOptions{})
		if c.checkGameComplete() == OutcomeComplete {
			return retry.Unrecoverable(errMatchEnded)
		}
		return game.ErrTemplateNotFound
	})
	if err != nil {
		return err
	}

	c.ctx.Sleep(surrenderClickDelay)
	action.ClickImage(c.ctx, t.Surrender2, action.ClickOptions{})
	c.ctx.Sleep(surrenderDoneDelay)

	return nil
}

// openSettings clicks the settings button, falling back to the escape key.
func (c *Controller) openSettings() {
	if action.ClickImage(c.ctx, c.ctx.Templates.Settings, action.ClickOptions{}) {
		return
	}
	if err := c.ctx.HID.PressKey(game.KeyEscape); err != nil {
		c.ctx.Logger.Debug("Could not open the settings menu", slog.Any("error", err))
	}
}

// retry runs fn up to surrenderAttempts times. Waits between attempts go
// through the session sleeper.
func (c *Controller) retry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(surrenderAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			c.ctx.Sleep(surrenderRetryDelay)
			return 0
		}),
	)
}
