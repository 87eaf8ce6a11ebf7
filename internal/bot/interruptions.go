package bot

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/event"
	"github.com/tftbot/tftbot/internal/game"
)

const (
	keyFragmentDelay  = 500 * time.Millisecond
	missionDelay      = time.Second
	maxMissionDialogs = 5
)

// dismissInterruptions closes reward and mission popups. Nothing happens when
// none is on screen.
func (c *Controller) dismissInterruptions() {
	t := c.ctx.Templates

	if action.ClickAnyImage(c.ctx, t.KeyFragment, action.ClickOptions{Delay: keyFragmentDelay}) {
		c.ctx.Logger.Debug("Dismissed key fragment popup")
	}

	for range maxMissionDialogs {
		if !action.IsVisible(c.ctx, t.MissionsOK) {
			return
		}
		c.saveMissionScreenshot()
		action.ClickImage(c.ctx, t.MissionsOK, action.ClickOptions{Delay: missionDelay})
	}
}

// saveMissionScreenshot stores the mission dialog under the screenshot
// location. Failure is logged only.
func (c *Controller) saveMissionScreenshot() {
	img, err := c.ctx.Screenshotter.Screenshot(game.SurfaceClient)
	if err != nil {
		c.ctx.Logger.Warn("Could not capture mission screenshot", slog.Any("error", err))
		return
	}

	path, err := writePNG(c.ctx.Cfg.ScreenshotLocation, c.ctx.Now(), img)
	if err != nil {
		c.ctx.Logger.Warn("Could not save mission screenshot", slog.Any("error", err))
		return
	}

	c.ctx.Logger.Info("Mission completed, screenshot saved", slog.String("path", path))
	event.Send(event.MissionCompleted(event.WithScreenshot(c.ctx.CurrentGame.MatchID, "Mission completed", img), path))
}

func writePNG(dir string, now time.Time, img image.Image) (string, error) {
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("error creating screenshot directory: %w", err)
	}

	path := filepath.Join(dir, now.Format("150405")+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating screenshot file: %w", err)
	}
	defer f.Close()

	if err = png.Encode(f, img); err != nil {
		return "", fmt.Errorf("error encoding screenshot: %w", err)
	}

	return path, nil
}
