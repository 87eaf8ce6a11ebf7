package economy

import (
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/tftbot/tftbot/internal/action"
	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
)

const purchaseDelay = 500 * time.Millisecond

// Shop clicks shop entries and buttons.
type Shop struct {
	ctx         *ct.Context
	traits      []game.ImageRef
	prioritized bool
}

func NewShop(ctx *ct.Context, wantedTraits []string, prioritized bool) *Shop {
	traits, unknown := ctx.Templates.WantedTraits(wantedTraits)
	if len(unknown) > 0 {
		ctx.Logger.Warn("Ignoring wanted traits without a template", slog.Any("traits", unknown))
	}

	return &Shop{ctx: ctx, traits: traits, prioritized: prioritized}
}

// BuyUnits runs up to iterations passes over the wanted traits. A pass clicks
// every trait in order and stops the whole purchase at the first trait that is
// not offered. hasGold is checked before each pass.
func (s *Shop) BuyUnits(iterations int, hasGold func() bool) int {
	bought := 0
	for range iterations {
		if !hasGold() {
			return bought
		}

		for _, trait := range s.order() {
			if !action.ClickImage(s.ctx, trait, action.ClickOptions{Delay: purchaseDelay}) {
				return bought
			}
			bought++
		}
	}

	return bought
}

func (s *Shop) order() []game.ImageRef {
	if s.prioritized {
		return s.traits
	}
	return lo.Shuffle(slices.Clone(s.traits))
}

// BuyXP clicks the buy-xp button, falling back to its hotkey when the button
// is not found.
func (s *Shop) BuyXP() {
	s.clickOrPress(s.ctx.Templates.BuyXP, game.KeyF)
}

func (s *Shop) Reroll() {
	s.clickOrPress(s.ctx.Templates.Reroll, game.KeyD)
}

func (s *Shop) clickOrPress(button game.ImageRef, key game.Key) {
	if action.ClickImage(s.ctx, button, action.ClickOptions{}) {
		return
	}

	if err := s.ctx.HID.PressKey(key); err != nil {
		s.ctx.Logger.Debug("Shop hotkey failed", slog.String("button", button.Name), slog.Any("error", err))
	}
}
