package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/event"
	"github.com/tftbot/tftbot/internal/game"
)

// ClientErrorKind names an error dialog of the client.
type ClientErrorKind int

const (
	SessionExpired ClientErrorKind = iota
	FailedToReconnect
	LoginServersDown
)

func (k ClientErrorKind) String() string {
	switch k {
	case SessionExpired:
		return "session_expired"
	case FailedToReconnect:
		return "failed_to_reconnect"
	case LoginServersDown:
		return "login_servers_down"
	}
	return "unknown"
}

const clientErrorDelay = 5 * time.Second

// clientErrorOrder is the detection order, first match wins.
var clientErrorOrder = []ClientErrorKind{SessionExpired, FailedToReconnect, LoginServersDown}

func (c *Controller) clientErrorTemplate(kind ClientErrorKind) game.ImageRef {
	t := c.ctx.Templates
	switch kind {
	case FailedToReconnect:
		return t.FailedToReconnect
	case LoginServersDown:
		return t.LoginServersDown
	}
	return t.SessionExpired
}

func (c *Controller) detectClientError() (ClientErrorKind, bool) {
	for _, kind := range clientErrorOrder {
		if action.IsVisible(c.ctx, c.clientErrorTemplate(kind)) {
			return kind, true
		}
	}
	return SessionExpired, false
}

// handleClientError dismisses the dialog, waits for the network when the
// error is connection related and restarts the client.
func (c *Controller) handleClientError(ctx context.Context) SessionState {
	kind := c.pendingError
	c.ctx.SetLastAction("ClientError")
	c.ctx.Logger.Warn("Client error detected, recovering", slog.String("error", kind.String()))

	t := c.ctx.Templates
	switch kind {
	case SessionExpired:
		action.ClickImage(c.ctx, t.MessageOK, action.ClickOptions{})
		c.ctx.Sleep(clientErrorDelay)
	default:
		action.ClickAnyImage(c.ctx, t.MessageExit, action.ClickOptions{})
		c.ctx.Sleep(clientErrorDelay)

		c.ctx.SetLastStep("WaitOnline")
		if c.connectivity != nil {
			if err := c.connectivity.WaitOnline(ctx); err != nil {
				c.ctx.Logger.Warn("Stopped waiting for the network", slog.Any("error", err))
				return StateClientError
			}
		}
	}

	c.ctx.SetLastStep("RestartClient")
	if err := c.restartClient(); err != nil {
		// QUEUEING starts the client again when it is still missing.
		c.ctx.Logger.Error("Could not restart the client", slog.Any("error", err))
	}

	event.Send(event.ClientError(event.Text(c.ctx.CurrentGame.MatchID, "Recovered from client error: "+kind.String()), kind.String()))

	return StateQueueing
}
