package action

import (
	"log/slog"
	"time"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
)

const defaultMaxClicks = 10

// ClickOptions replaces loosely typed delay/predicate arguments with explicit
// optional fields.
type ClickOptions struct {
	// Delay is slept after every click. Zero skips the wait.
	Delay time.Duration
	// Until, when set, keeps clicking until it reports true, at most MaxClicks
	// times. Without it the image is clicked once.
	Until     func() bool
	MaxClicks int
	// Confidence overrides the reference threshold when greater than zero.
	Confidence float64
	Button     game.MouseButton
}

func IsVisible(ctx *ct.Context, ref game.ImageRef) bool {
	_, found := ctx.Perception.Locate(ref, ref.Confidence, nil)
	return found
}

func IsVisibleWithConfidence(ctx *ct.Context, ref game.ImageRef, confidence float64) bool {
	_, found := ctx.Perception.Locate(ref, confidence, nil)
	return found
}

func AnyVisible(ctx *ct.Context, set game.ImageSet) bool {
	_, _, found := ctx.Perception.LocateAny(set, 0)
	return found
}

// ClickImage clicks ref if it is on screen. With Until set it returns whether
// the post-condition was reached, otherwise whether a click happened.
func ClickImage(ctx *ct.Context, ref game.ImageRef, opts ClickOptions) bool {
	return ClickAnyImage(ctx, game.ImageSet{ref}, opts)
}

func ClickAnyImage(ctx *ct.Context, set game.ImageSet, opts ClickOptions) bool {
	if opts.Until == nil {
		return clickOnce(ctx, set, opts)
	}

	maxClicks := opts.MaxClicks
	if maxClicks <= 0 {
		maxClicks = defaultMaxClicks
	}

	for range maxClicks {
		if opts.Until() {
			return true
		}
		if !clickOnce(ctx, set, opts) && opts.Delay > 0 {
			ctx.Sleep(opts.Delay)
		}
	}

	if !opts.Until() {
		ctx.Logger.Debug("Clicked without reaching the expected screen",
			slog.Any("images", set.Names()), slog.Int("clicks", maxClicks))
		return false
	}
	return true
}

func clickOnce(ctx *ct.Context, set game.ImageSet, opts ClickOptions) bool {
	ref, m, found := ctx.Perception.LocateAny(set, opts.Confidence)
	if !found {
		return false
	}

	if err := ctx.HID.ClickMatch(ref.Surface, m, opts.Button); err != nil {
		ctx.Logger.Debug("Click failed", slog.String("image", ref.Name), slog.Any("error", err))
		return false
	}
	if opts.Delay > 0 {
		ctx.Sleep(opts.Delay)
	}

	return true
}
