package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/event"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/utils"
)

const (
	clientStartDelay = 10 * time.Second
	lobbySettleDelay = time.Second
	findMatchDelay   = 200 * time.Millisecond
	findMatchClicks  = 5
	acceptDelay      = time.Second
	minQueuePoll     = 500 * time.Millisecond
	maxQueuePoll     = time.Second
)

// matchmaking search states reported by the client API.
const (
	searchSearching = "Searching"
	searchFound     = "Found"
)

// gameflow phases reported by the client API that mean the match was found.
var matchFoundPhases = map[string]bool{
	"ChampSelect": true,
	"GameStart":   true,
	"InProgress":  true,
}

func (c *Controller) handleQueueing(ctx context.Context) SessionState {
	c.ctx.SetLastAction("Queueing")

	if !action.ClientRunning(c.ctx) {
		c.ctx.Logger.Warn("Client is not running, starting it")
		if err := c.restartClient(); err != nil {
			c.ctx.Logger.Error("Could not start the client", slog.Any("error", err))
		}
		return StateQueueing
	}

	action.FocusClient(c.ctx)
	c.dismissInterruptions()

	t := c.ctx.Templates
	switch {
	case action.AnyVisible(c.ctx, t.InQueue):
		c.ctx.Logger.Info("Already in queue")
		return StateFindingMatch
	case action.AnyVisible(c.ctx, t.Lobby):
		return StateLobby
	case action.GameRunning(c.ctx):
		c.ctx.Logger.Info("Already in game, waiting for it to load")
		c.startMatch()
		return StateLoading
	case c.postGameVisible():
		return StatePostGame
	}

	// A lobby requested through the client API still has to show up on
	// screen before this poll counts as a success.
	if c.clientAPI != nil {
		if err := c.clientAPI.CreateLobby(ctx); err != nil {
			c.ctx.Logger.Debug("Could not create lobby through the client API", slog.Any("error", err))
		}
	}

	if c.unknownBudget.Fail() {
		c.ctx.Logger.Warn("TFT lobby not detected, restarting the client")
		c.unknownBudget.Reset()
		if err := c.restartClient(); err != nil {
			c.ctx.Logger.Error("Could not restart the client", slog.Any("error", err))
		}
		return StateQueueing
	}

	c.ctx.Sleep(lobbySettleDelay)
	return StateQueueing
}

func (c *Controller) handleLobby(ctx context.Context) SessionState {
	c.ctx.SetLastAction("Lobby")

	action.FocusClient(c.ctx)
	c.dismissInterruptions()

	t := c.ctx.Templates
	inQueue := func() bool { return action.AnyVisible(c.ctx, t.InQueue) }

	if inQueue() {
		return StateFindingMatch
	}

	if action.AnyVisible(c.ctx, t.FindMatch) {
		c.ctx.Logger.Info("Finding match")
		action.ClickAnyImage(c.ctx, t.FindMatch, action.ClickOptions{
			Delay:     findMatchDelay,
			Until:     inQueue,
			MaxClicks: findMatchClicks,
		})
		c.ctx.Sleep(lobbySettleDelay)
		return StateFindingMatch
	}

	if c.clientAPI != nil {
		if err := c.clientAPI.StartQueue(ctx); err == nil {
			c.ctx.Logger.Info("Queue started through the client API")
			return StateFindingMatch
		}
	}

	if !action.AnyVisible(c.ctx, t.Lobby) {
		return StateQueueing
	}

	c.ctx.Sleep(lobbySettleDelay)
	return StateLobby
}

// handleFindingMatch performs one poll of the queue. A poll fails when there
// is no queue, accept dialog or match evidence on screen.
func (c *Controller) handleFindingMatch(ctx context.Context) SessionState {
	c.ctx.SetLastAction("FindingMatch")

	t := c.ctx.Templates
	if c.matchFound() {
		c.ctx.Logger.Info("Match found, loading")
		c.startMatch()
		return StateLoading
	}

	searching := false
	if c.clientAPI != nil {
		searching = c.apiQueueEvidence(ctx)
	}

	if action.ClickImage(c.ctx, t.AcceptMatch, action.ClickOptions{Delay: acceptDelay}) {
		c.ctx.Logger.Debug("Accepted match")
		c.findMatchBudget.Reset()
		return StateFindingMatch
	}

	if searching || action.AnyVisible(c.ctx, t.InQueue) {
		c.findMatchBudget.Reset()
		c.ctx.Sleep(utils.RandomDuration(minQueuePoll, maxQueuePoll))
		return StateFindingMatch
	}

	if c.findMatchBudget.Fail() {
		c.ctx.Logger.Warn("Match was not found, returning to the lobby",
			slog.Int("polls", c.findMatchBudget.Failures()))
		return StateLobby
	}

	c.ctx.Sleep(utils.RandomDuration(minQueuePoll, maxQueuePoll))
	return StateFindingMatch
}

// apiQueueEvidence accepts a popped queue through the client API and reports
// whether matchmaking is still searching.
func (c *Controller) apiQueueEvidence(ctx context.Context) bool {
	state, err := c.clientAPI.SearchState(ctx)
	if err != nil {
		c.ctx.Logger.Debug("Could not read the matchmaking state", slog.Any("error", err))
	}

	if state == searchFound || c.clientAPI.Phase() == "ReadyCheck" {
		if err := c.clientAPI.AcceptReadyCheck(ctx); err != nil {
			c.ctx.Logger.Debug("Could not accept the ready check through the client API", slog.Any("error", err))
		}
		return true
	}

	return state == searchSearching
}

func (c *Controller) matchFound() bool {
	t := c.ctx.Templates
	if action.IsVisible(c.ctx, t.Loading) || action.IsVisible(c.ctx, t.FirstRound) {
		return true
	}
	if c.clientAPI != nil && matchFoundPhases[c.clientAPI.Phase()] {
		return true
	}
	return action.GameRunning(c.ctx) && !action.AnyVisible(c.ctx, t.InQueue)
}

func (c *Controller) startMatch() {
	matchID := c.ctx.StartNewGame()
	c.ctx.Logger.Info("Match started", slog.String("matchID", matchID))
	event.Send(event.MatchStarted(event.Text(matchID, "Match started")))
}

func (c *Controller) restartClient() error {
	if err := c.ctx.Window.Restart(c.ctx.Executables.Client); err != nil {
		return fmt.Errorf("error restarting %s: %w", c.ctx.Executables.Client, err)
	}
	c.ctx.Sleep(clientStartDelay)

	if !action.ClientRunning(c.ctx) {
		return game.ErrClientNotRunning
	}
	return nil
}
