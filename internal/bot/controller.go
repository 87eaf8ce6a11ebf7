package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/economy"
	"github.com/tftbot/tftbot/internal/event"
	"github.com/tftbot/tftbot/internal/utils"
)

const (
	pauseInterval = 5 * time.Second

	findMatchPolls = 60
	loadingPolls   = 60
	unknownPolls   = 5
	draftPolls     = 30
	postGamePolls  = 120
)

// Connectivity blocks until the network is reachable again.
type Connectivity interface {
	WaitOnline(ctx context.Context) error
}

// ClientAPI drives the League client through its local API. Every method is
// best effort; the controller falls back to screen evidence when they fail.
type ClientAPI interface {
	CreateLobby(ctx context.Context) error
	StartQueue(ctx context.Context) error
	AcceptReadyCheck(ctx context.Context) error
	// SearchState is the matchmaking search state, such as Searching or Found.
	SearchState(ctx context.Context) (string, error)
	// Phase is the last gameflow phase pushed by the client, empty when unknown.
	Phase() string
}

type Options struct {
	Economy      economy.Strategy
	Connectivity Connectivity
	// ClientAPI is optional.
	ClientAPI ClientAPI
}

// Controller is the match state machine. It is driven by a single goroutine;
// only the pause flag of its context is touched from outside.
type Controller struct {
	ctx          *ct.Context
	economy      economy.Strategy
	connectivity Connectivity
	clientAPI    ClientAPI
	stats        *Stats

	state        SessionState
	pendingError ClientErrorKind

	findMatchBudget *utils.PollBudget
	loadingBudget   *utils.PollBudget
	unknownBudget   *utils.PollBudget
	draftBudget     *utils.PollBudget
	postGameBudget  *utils.PollBudget
}

func NewController(ctx *ct.Context, opts Options) *Controller {
	return &Controller{
		ctx:             ctx,
		economy:         opts.Economy,
		connectivity:    opts.Connectivity,
		clientAPI:       opts.ClientAPI,
		stats:           NewStats(ctx.Now()),
		state:           StateQueueing,
		findMatchBudget: utils.NewPollBudget(findMatchPolls),
		loadingBudget:   utils.NewPollBudget(loadingPolls),
		unknownBudget:   utils.NewPollBudget(unknownPolls),
		draftBudget:     utils.NewPollBudget(draftPolls),
		postGameBudget:  utils.NewPollBudget(postGamePolls),
	}
}

func (c *Controller) State() SessionState {
	return c.state
}

func (c *Controller) Stats() *Stats {
	return c.stats
}

// Run ticks the state machine until ctx is cancelled. It never returns an error
// on its own: every fault inside a tick is logged and the loop continues.
func (c *Controller) Run(ctx context.Context) error {
	c.ctx.Logger.Info("Starting match controller", slog.String("economy", c.economy.Name()))

	for {
		select {
		case <-ctx.Done():
			c.ctx.Logger.Info("Match controller stopped")
			return nil
		default:
			c.Tick(ctx)
		}
	}
}

// TogglePause flips the pause flag and announces it. It is called from the
// hotkey goroutine, so it must not touch anything but the flag: the current
// match belongs to the controller goroutine.
func (c *Controller) TogglePause() bool {
	paused := c.ctx.TogglePause()
	c.ctx.Logger.Info("Pause toggled", slog.Bool("paused", paused))

	msg := "Bot resumed"
	if paused {
		msg = "Bot paused"
	}
	event.Send(event.PauseToggled(event.Text("", msg), paused))

	return paused
}

// Tick performs one round of evidence gathering and at most one transition.
func (c *Controller) Tick(ctx context.Context) {
	if c.ctx.Paused() {
		c.ctx.Sleep(pauseInterval)
		return
	}

	if err := c.tickWithRecover(ctx); err != nil {
		action, step := c.ctx.LastAction()
		c.ctx.Logger.Error("Tick failed, continuing",
			slog.String("state", c.state.String()),
			slog.String("lastAction", action),
			slog.String("lastStep", step),
			slog.Any("error", err),
		)
	}
}

func (c *Controller) tickWithRecover(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.ctx.Logger.Debug("Recovered panic", slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("panic in state %s: %v", c.state, r)
		}
	}()

	if c.state != StateClientError {
		if kind, found := c.detectClientError(); found {
			c.pendingError = kind
			c.setState(StateClientError)
			return nil
		}
	}

	c.setState(c.handle(ctx))
	return nil
}

func (c *Controller) handle(ctx context.Context) SessionState {
	switch c.state {
	case StateQueueing:
		return c.handleQueueing(ctx)
	case StateLobby:
		return c.handleLobby(ctx)
	case StateFindingMatch:
		return c.handleFindingMatch(ctx)
	case StateLoading:
		return c.handleLoading()
	case StateDrafting:
		return c.handleDrafting()
	case StateInMatch:
		return c.handleInMatch()
	case StateSurrendering:
		return c.handleSurrendering(ctx)
	case StatePostGame:
		return c.handlePostGame()
	case StateClientError:
		return c.handleClientError(ctx)
	}

	return StateQueueing
}

func (c *Controller) setState(next SessionState) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next

	c.ctx.Logger.Debug("State changed", slog.String("from", prev.String()), slog.String("to", next.String()))

	switch next {
	case StateFindingMatch:
		c.findMatchBudget.Reset()
	case StateLoading:
		c.loadingBudget.Reset()
	case StateDrafting:
		c.draftBudget.Reset()
	case StatePostGame:
		c.postGameBudget.Reset()
		c.matchFinished()
	case StateQueueing:
		c.unknownBudget.Reset()
	}
}
