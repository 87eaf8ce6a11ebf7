// Package contexttest builds session contexts wired to in-memory fakes.
package contexttest

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tftbot/tftbot/internal/config"
	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/game/gametest"
	"github.com/tftbot/tftbot/internal/ui"
)

// Sleeper records requested sleeps instead of sleeping.
type Sleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
	hook   func(d time.Duration)
}

func (s *Sleeper) Sleep(d time.Duration) {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		hook(d)
	}
}

// OnSleep runs fn after every recorded sleep.
func (s *Sleeper) OnSleep(fn func(d time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = fn
}

func (s *Sleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sleeps)
}

func (s *Sleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Sleeps() {
		total += d
	}
	return total
}

type Harness struct {
	Ctx     *ct.Context
	Screen  *gametest.Screen
	Window  *gametest.Window
	Sleeper *Sleeper
}

// New returns a context whose client and game processes are running. cfg may
// be nil for defaults.
func New(cfg *config.Cfg) *Harness {
	if cfg == nil {
		cfg = &config.Cfg{}
	}
	if cfg.SurrenderAfterStage == 0 {
		cfg.SurrenderAfterStage = 3
	}

	exes := game.NewExecutables("")
	screen := gametest.NewScreen()
	window := gametest.NewWindow(exes.Client, exes.ClientUx, exes.Game)
	sleeper := &Sleeper{}

	ctx := ct.NewContext(ct.Options{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cfg:           cfg,
		Templates:     ui.NewTemplates("captures"),
		Perception:    screen,
		HID:           game.NewHID(screen, nil),
		Window:        window,
		Screenshotter: screen,
		Executables:   exes,
	})
	ctx.Sleep = sleeper.Sleep

	return &Harness{Ctx: ctx, Screen: screen, Window: window, Sleeper: sleeper}
}
