package action

import (
	"log/slog"
	"time"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
)

const draftStepDelay = 3 * time.Second

// SharedDraftPathing walks counter-clockwise around the shared draft with right
// clicks so a champion is picked up.
func SharedDraftPathing(ctx *ct.Context) {
	ctx.SetLastAction("SharedDraftPathing")

	for i, p := range ui.DraftPath {
		if err := ctx.HID.Click(game.SurfaceGame, game.RightButton, p.X, p.Y); err != nil {
			ctx.Logger.Debug("Draft pathing click failed", slog.Int("step", i), slog.Any("error", err))
		}
		if i < len(ui.DraftPath)-1 {
			ctx.Sleep(draftStepDelay)
		}
	}
}
