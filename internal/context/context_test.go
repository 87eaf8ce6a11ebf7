package context

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tftbot/tftbot/internal/config"
)

func newTestContext(cfg *config.Cfg) *Context {
	return NewContext(Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cfg:    cfg,
	})
}

func TestFlagsAreFrozenAtStartup(t *testing.T) {
	cfg := &config.Cfg{ForfeitEarly: true}
	ctx := newTestContext(cfg)

	cfg.ForfeitEarly = false
	cfg.Verbose = true

	assert.True(t, ctx.ForfeitEarly())
	assert.False(t, ctx.Verbose())
}

func TestTogglePauseIsAtomic(t *testing.T) {
	ctx := newTestContext(&config.Cfg{})
	assert.False(t, ctx.Paused())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx.TogglePause()
		}()
	}
	wg.Wait()

	assert.False(t, ctx.Paused(), "an even number of toggles leaves the flag unset")
	assert.True(t, ctx.TogglePause())
	assert.True(t, ctx.Paused())
}

func TestStartNewGameResetsMatchState(t *testing.T) {
	ctx := newTestContext(&config.Cfg{})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx.Now = func() time.Time { return now }

	first := ctx.CurrentGame.MatchID
	ctx.CurrentGame.SurrenderAttempted = true

	id := ctx.StartNewGame()
	assert.NotEqual(t, first, id)
	assert.False(t, ctx.CurrentGame.SurrenderAttempted)
	assert.Equal(t, now, ctx.CurrentGame.StartedAt)
}

func TestLastAction(t *testing.T) {
	ctx := newTestContext(&config.Cfg{})
	ctx.SetLastAction("Surrender")
	ctx.SetLastStep("OpenSettings")

	a, s := ctx.LastAction()
	assert.Equal(t, "Surrender", a)
	assert.Equal(t, "OpenSettings", s)

	ctx.SetLastAction("EndMatch")
	a, s = ctx.LastAction()
	assert.Equal(t, "EndMatch", a)
	assert.Empty(t, s)
}
