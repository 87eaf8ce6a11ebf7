package action

import (
	"log/slog"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
)

// FocusClient brings the client window forward. Failure is logged and ignored.
func FocusClient(ctx *ct.Context) {
	if err := ctx.Window.Focus(game.ClientWindowTitle, ctx.Executables.ClientUx); err != nil {
		ctx.Logger.Debug("Could not focus the client window", slog.Any("error", err))
	}
}

func FocusGame(ctx *ct.Context) {
	if err := ctx.Window.Focus(game.GameWindowTitle, ctx.Executables.Game); err != nil {
		ctx.Logger.Debug("Could not focus the game window", slog.Any("error", err))
	}
}

func GameRunning(ctx *ct.Context) bool {
	return ctx.Window.IsRunning(ctx.Executables.Game)
}

func ClientRunning(ctx *ct.Context) bool {
	return ctx.Window.IsRunning(ctx.Executables.Client)
}

// CheckGameWindowSize warns when the game window does not have the size every
// template and coordinate was captured at.
func CheckGameWindowSize(ctx *ct.Context) {
	rect, err := ctx.Window.WindowRect(game.GameWindowTitle)
	if err != nil {
		return
	}

	if rect.Dx() != ui.GameWidth || rect.Dy() != ui.GameHeight {
		ctx.Logger.Error("The game window has the wrong size, templates will not match",
			slog.Int("width", rect.Dx()),
			slog.Int("height", rect.Dy()),
			slog.Int("expectedWidth", ui.GameWidth),
			slog.Int("expectedHeight", ui.GameHeight),
		)
	}
}
