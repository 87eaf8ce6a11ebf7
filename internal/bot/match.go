package bot

import (
	"log/slog"
	"time"

	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
)

const (
	loadingPollInterval = 500 * time.Millisecond
	takeAllDelay        = time.Second
	matchTickDelay      = 500 * time.Millisecond

	// unknownStage is assumed when no stage template matches, usually because
	// an overlay covers the round indicator.
	unknownStage = 3
)

func (c *Controller) handleLoading() SessionState {
	c.ctx.SetLastAction("Loading")

	if c.loadingBudget.Failures() == 0 {
		action.FocusGame(c.ctx)
		action.CheckGameWindowSize(c.ctx)
	}

	t := c.ctx.Templates
	if action.IsVisible(c.ctx, t.FirstRound) || action.IsVisible(c.ctx, t.Timer) {
		return StateDrafting
	}

	// A reconnect lands back in a running match.
	if _, found := c.visibleStage(); found {
		c.ctx.Logger.Info("Match already in progress")
		return StateInMatch
	}

	if c.loadingBudget.Fail() {
		c.ctx.Logger.Warn("Did not detect the match start, continuing anyway")
		return StateInMatch
	}

	c.ctx.Sleep(loadingPollInterval)
	return StateLoading
}

// handleDrafting walks the first-round carousel until it ends.
func (c *Controller) handleDrafting() SessionState {
	c.ctx.SetLastAction("Drafting")

	if !action.IsVisible(c.ctx, c.ctx.Templates.FirstRound) {
		c.ctx.Logger.Info("In the match now")
		return StateInMatch
	}

	if c.draftBudget.Fail() {
		c.ctx.Logger.Warn("First round did not end, continuing with the match")
		return StateInMatch
	}

	action.SharedDraftPathing(c.ctx)
	return StateDrafting
}

// handleInMatch checks evidence in priority order: forced pickup, shared draft,
// economy, end of game and finally the early forfeit.
func (c *Controller) handleInMatch() SessionState {
	c.ctx.SetLastAction("InMatch")

	t := c.ctx.Templates
	if action.ClickImage(c.ctx, t.TakeAll, action.ClickOptions{}) {
		c.ctx.SetLastStep("TakeAll")
		c.ctx.Sleep(takeAllDelay)
		return StateInMatch
	}

	minRound := c.minimumRound()
	if minRound.IsDraft() {
		c.ctx.SetLastStep("SharedDraft")
		c.ctx.Logger.Debug("Shared draft round", slog.String("round", minRound.String()))
		action.SharedDraftPathing(c.ctx)
		return StateInMatch
	}

	c.ctx.SetLastStep("Economy")
	decisions := c.economy.LoopDecision(minRound)
	if c.ctx.Verbose() {
		c.ctx.Logger.Debug("Economy tick", slog.String("round", minRound.String()), slog.Any("decisions", decisions))
	}
	c.ctx.Sleep(matchTickDelay)

	c.ctx.SetLastStep("EndOfGame")
	switch c.checkGameComplete() {
	case OutcomeComplete:
		return StatePostGame
	case OutcomeReconnecting:
		return StateLoading
	case OutcomeClientError:
		return StateClientError
	}

	if c.shouldForfeit(minRound) {
		return StateSurrendering
	}

	return StateInMatch
}

// minimumRound is the lowest round the match can be in, read from the stage,
// shared draft and PvE indicators.
func (c *Controller) minimumRound() game.RoundID {
	stage, found := c.visibleStage()
	if !found {
		stage = unknownStage
	}

	t := c.ctx.Templates
	round := game.RoundUnknown
	switch {
	case action.AnyVisible(c.ctx, t.DraftRound):
		round = game.DraftRound
	case action.AnyVisible(c.ctx, t.Monsters):
		round = game.RoundMonster
	}

	return game.NewRoundID(stage, round)
}

func (c *Controller) visibleStage() (int, bool) {
	t := c.ctx.Templates
	for stage := 1; stage <= ui.MaxStage; stage++ {
		if action.IsVisibleWithConfidence(c.ctx, t.Stages[stage], ui.RoundConfidence) {
			return stage, true
		}
	}
	return 0, false
}

func (c *Controller) shouldForfeit(minRound game.RoundID) bool {
	if !c.ctx.ForfeitEarly() || c.ctx.CurrentGame.SurrenderAttempted {
		return false
	}
	if minRound.Stage < c.ctx.Cfg.SurrenderAfterStage {
		return false
	}

	return !action.AnyVisible(c.ctx, c.ctx.Templates.ExitNow)
}
