package action

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tftbot/tftbot/internal/context/contexttest"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
)

func TestClickImageOnlyWhenVisible(t *testing.T) {
	h := contexttest.New(nil)
	ok := h.Ctx.Templates.MessageOK

	assert.False(t, ClickImage(h.Ctx, ok, ClickOptions{Delay: time.Second}))
	assert.Empty(t, h.Screen.Clicks())
	assert.Empty(t, h.Sleeper.Sleeps())

	h.Screen.Show(ok.Name)
	assert.True(t, ClickImage(h.Ctx, ok, ClickOptions{Delay: time.Second}))
	assert.Equal(t, []string{ok.Name}, h.Screen.ClickedNames())
	assert.Equal(t, []time.Duration{time.Second}, h.Sleeper.Sleeps())
}

func TestClickAnyImageUntilPostCondition(t *testing.T) {
	h := contexttest.New(nil)
	exits := h.Ctx.Templates.ExitNow
	h.Screen.Show(exits[1].Name)

	clicks := 0
	h.Screen.OnClick(exits[1].Name, func() {
		clicks++
		if clicks == 3 {
			h.Window.SetRunning(h.Ctx.Executables.Game, false)
		}
	})

	done := ClickAnyImage(h.Ctx, exits, ClickOptions{
		Delay: 1500 * time.Millisecond,
		Until: func() bool { return !GameRunning(h.Ctx) },
	})

	assert.True(t, done)
	assert.Equal(t, 3, h.Screen.ClickCount(exits[1].Name))
}

func TestClickAnyImageUntilIsBounded(t *testing.T) {
	h := contexttest.New(nil)
	exits := h.Ctx.Templates.ExitNow
	h.Screen.Show(exits[0].Name)

	done := ClickAnyImage(h.Ctx, exits, ClickOptions{
		Until:     func() bool { return false },
		MaxClicks: 4,
	})

	assert.False(t, done)
	assert.Equal(t, 4, h.Screen.ClickCount(exits[0].Name))
}

func TestClickAnyImageUntilAlreadySatisfied(t *testing.T) {
	h := contexttest.New(nil)
	h.Screen.Show(h.Ctx.Templates.FindMatch.Names()...)

	assert.True(t, ClickAnyImage(h.Ctx, h.Ctx.Templates.FindMatch, ClickOptions{Until: func() bool { return true }}))
	assert.Empty(t, h.Screen.Clicks())
}

func TestSharedDraftPathing(t *testing.T) {
	h := contexttest.New(nil)

	SharedDraftPathing(h.Ctx)

	clicks := h.Screen.Clicks()
	assert.Len(t, clicks, len(ui.DraftPath))
	for i, c := range clicks {
		assert.Equal(t, game.RightButton, c.Button)
		assert.Equal(t, ui.DraftPath[i].X, c.X)
		assert.Equal(t, ui.DraftPath[i].Y, c.Y)
	}
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, h.Sleeper.Sleeps())
}

func TestFocusUsesWindowTitles(t *testing.T) {
	h := contexttest.New(nil)

	FocusClient(h.Ctx)
	FocusGame(h.Ctx)

	assert.Equal(t, []string{game.ClientWindowTitle, game.GameWindowTitle}, h.Window.Focused())
}

func TestCheckGameWindowSizeOnlyReads(t *testing.T) {
	h := contexttest.New(nil)
	h.Window.SetRect(image.Rect(0, 0, 1280, 720))

	CheckGameWindowSize(h.Ctx)
	assert.Empty(t, h.Screen.Clicks())
}
