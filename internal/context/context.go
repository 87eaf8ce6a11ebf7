package context

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tftbot/tftbot/internal/config"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
	"github.com/tftbot/tftbot/internal/utils"
)

// Context is the session state shared by every component of the bot. It is
// created once at startup and passed explicitly.
type Context struct {
	Logger        *slog.Logger
	Cfg           *config.Cfg
	Templates     *ui.Templates
	Perception    game.Perception
	HID           *game.HID
	Window        game.Window
	Screenshotter game.Screenshotter
	Executables   game.Executables
	CurrentGame   *CurrentGameHelper
	Debug         *Debug

	// Sleep is every wait the bot performs. Tests replace it.
	Sleep func(time.Duration)
	Now   func() time.Time

	forfeitEarly bool
	verbose      bool
	paused       atomic.Bool
}

type Debug struct {
	mu         sync.Mutex
	lastAction string
	lastStep   string
}

// CurrentGameHelper holds per-match state. It is replaced whenever a new match
// is found.
type CurrentGameHelper struct {
	MatchID            string
	StartedAt          time.Time
	SurrenderAttempted bool
	Surrendered        bool
}

type Options struct {
	Logger        *slog.Logger
	Cfg           *config.Cfg
	Templates     *ui.Templates
	Perception    game.Perception
	HID           *game.HID
	Window        game.Window
	Screenshotter game.Screenshotter
	Executables   game.Executables
}

// NewContext freezes the forfeit-early and verbose settings of opts.Cfg for the
// rest of the process lifetime.
func NewContext(opts Options) *Context {
	ctx := &Context{
		Logger:        opts.Logger,
		Cfg:           opts.Cfg,
		Templates:     opts.Templates,
		Perception:    opts.Perception,
		HID:           opts.HID,
		Window:        opts.Window,
		Screenshotter: opts.Screenshotter,
		Executables:   opts.Executables,
		Debug:         &Debug{},
		Sleep:         utils.Sleep,
		Now:           time.Now,
		forfeitEarly:  opts.Cfg.ForfeitEarly,
		verbose:       opts.Cfg.Verbose,
	}
	ctx.CurrentGame = NewGameHelper(ctx.Now())

	return ctx
}

func NewGameHelper(now time.Time) *CurrentGameHelper {
	return &CurrentGameHelper{
		MatchID:   uuid.NewString(),
		StartedAt: now,
	}
}

// StartNewGame resets per-match state and returns the new match id.
func (ctx *Context) StartNewGame() string {
	ctx.CurrentGame = NewGameHelper(ctx.Now())
	return ctx.CurrentGame.MatchID
}

func (ctx *Context) ForfeitEarly() bool { return ctx.forfeitEarly }
func (ctx *Context) Verbose() bool      { return ctx.verbose }

func (ctx *Context) Paused() bool {
	return ctx.paused.Load()
}

// TogglePause flips the pause flag and returns the new value. Safe to call from
// any goroutine.
func (ctx *Context) TogglePause() bool {
	for {
		old := ctx.paused.Load()
		if ctx.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (ctx *Context) SetLastAction(actionName string) {
	ctx.Debug.mu.Lock()
	defer ctx.Debug.mu.Unlock()
	ctx.Debug.lastAction = actionName
	ctx.Debug.lastStep = ""
}

func (ctx *Context) SetLastStep(stepName string) {
	ctx.Debug.mu.Lock()
	defer ctx.Debug.mu.Unlock()
	ctx.Debug.lastStep = stepName
}

// LastAction returns the most recent action and step, used when logging recovered panics.
func (ctx *Context) LastAction() (string, string) {
	ctx.Debug.mu.Lock()
	defer ctx.Debug.mu.Unlock()
	return ctx.Debug.lastAction, ctx.Debug.lastStep
}
