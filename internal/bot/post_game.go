package bot

import (
	"time"

	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/ui"
)

const (
	skipStatsDelay = 3 * time.Second
	playAgainDelay = 3 * time.Second
	quickPlayDelay = 10 * time.Second
	tabDelay       = 3 * time.Second
	postGamePoll   = time.Second
)

// handlePostGame navigates from the end-of-match screens back to the lobby.
func (c *Controller) handlePostGame() SessionState {
	c.ctx.SetLastAction("PostGame")

	t := c.ctx.Templates
	if action.AnyVisible(c.ctx, t.FindMatch) {
		return StateQueueing
	}

	if !action.ClientRunning(c.ctx) {
		c.ctx.Logger.Warn("Client closed after the match")
		return StateQueueing
	}

	action.FocusClient(c.ctx)
	c.dismissInterruptions()

	clicked := false
	if action.ClickAnyImage(c.ctx, t.SkipWaitingForStats, action.ClickOptions{Delay: skipStatsDelay}) {
		clicked = true
	}
	if action.ClickImage(c.ctx, t.PlayAgain, action.ClickOptions{Delay: playAgainDelay}) {
		clicked = true
	}
	if action.ClickImage(c.ctx, t.QuickPlay, action.ClickOptions{Delay: quickPlayDelay}) {
		clicked = true
	}
	if !action.AnyVisible(c.ctx, t.FindMatch) &&
		action.ClickImage(c.ctx, t.TabUnselected, action.ClickOptions{Delay: tabDelay, Confidence: ui.RoundConfidence}) {
		clicked = true
	}

	if c.postGameBudget.Fail() {
		c.ctx.Logger.Warn("Lobby did not show up after the match")
		return StateQueueing
	}

	if !clicked {
		c.ctx.Sleep(postGamePoll)
	}

	return StatePostGame
}
