package bot

import (
	"time"

	"github.com/tftbot/tftbot/internal/action"
)

// GameOutcome is the result of one end-of-game check.
type GameOutcome int

const (
	OutcomeOngoing GameOutcome = iota
	OutcomeReconnecting
	OutcomeComplete
	OutcomeClientError
)

func (o GameOutcome) String() string {
	switch o {
	case OutcomeReconnecting:
		return "reconnecting"
	case OutcomeComplete:
		return "complete"
	case OutcomeClientError:
		return "client_error"
	}
	return "ongoing"
}

const (
	reconnectDelay  = 500 * time.Millisecond
	deathDelay      = 5 * time.Second
	exitNowDelay    = 1500 * time.Millisecond
	exitNowTimeout  = 30 * time.Second
	exitSettleDelay = 5 * time.Second
)

// checkGameComplete gathers end-of-game evidence. A visible reconnect button
// always wins and is clicked.
func (c *Controller) checkGameComplete() GameOutcome {
	if c.attemptReconnect() {
		return OutcomeReconnecting
	}

	if !action.GameRunning(c.ctx) {
		return OutcomeComplete
	}

	if kind, found := c.detectClientError(); found {
		c.pendingError = kind
		return OutcomeClientError
	}

	t := c.ctx.Templates
	if action.ClickImage(c.ctx, t.Death, action.ClickOptions{}) {
		c.ctx.Logger.Info("Eliminated, leaving the match")
		c.ctx.Sleep(deathDelay)
	}

	if action.AnyVisible(c.ctx, t.ExitNow) {
		action.ClickAnyImage(c.ctx, t.ExitNow, action.ClickOptions{
			Delay:     exitNowDelay,
			Until:     func() bool { return !action.GameRunning(c.ctx) },
			MaxClicks: int(exitNowTimeout / exitNowDelay),
		})
		c.ctx.Sleep(exitSettleDelay)
	}

	if c.postGameVisible() {
		return OutcomeComplete
	}

	return OutcomeOngoing
}

func (c *Controller) attemptReconnect() bool {
	t := c.ctx.Templates
	if !action.IsVisible(c.ctx, t.Reconnect) {
		return false
	}

	c.ctx.Logger.Info("Reconnecting to the match")
	c.ctx.Sleep(reconnectDelay)
	action.ClickImage(c.ctx, t.Reconnect, action.ClickOptions{})

	return true
}

func (c *Controller) postGameVisible() bool {
	t := c.ctx.Templates
	return action.IsVisible(c.ctx, t.PlayAgain) ||
		action.IsVisible(c.ctx, t.QuickPlay) ||
		action.AnyVisible(c.ctx, t.SkipWaitingForStats)
}
