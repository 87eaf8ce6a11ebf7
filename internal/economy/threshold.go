package economy

import (
	"time"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
)

const (
	thresholdUnits      = 3
	thresholdXP         = 4
	thresholdReroll     = 5
	thresholdLevelStage = 3
	thresholdSettle     = 500 * time.Millisecond
)

// Threshold buys units from 3 gold, and from stage 3 onwards levels at 4 gold
// and rerolls at 5. Gold is re-read before every decision.
type Threshold struct {
	ctx  *ct.Context
	shop *Shop
	gold *GlyphGold
}

func NewThreshold(ctx *ct.Context, shop *Shop, gold *GlyphGold) *Threshold {
	return &Threshold{ctx: ctx, shop: shop, gold: gold}
}

func (t *Threshold) Name() string { return ModeThreshold.String() }

func (t *Threshold) LoopDecision(minRound game.RoundID) []game.EconomyDecision {
	var issued []game.EconomyDecision

	if t.gold.AtLeast(thresholdUnits) {
		issued = append(issued, game.BuyUnits(thresholdUnits))
		t.shop.BuyUnits(thresholdUnits, func() bool { return t.gold.AtLeast(1) })
		t.ctx.Sleep(thresholdSettle)
	}

	if minRound.Stage < thresholdLevelStage {
		return orSkip(issued)
	}

	if t.gold.AtLeast(thresholdXP) {
		issued = append(issued, game.BuyXP())
		t.shop.BuyXP()
		t.ctx.Sleep(thresholdSettle)
	}

	if t.gold.AtLeast(thresholdReroll) {
		issued = append(issued, game.Reroll())
		t.shop.Reroll()
		t.ctx.Sleep(thresholdSettle)
	}

	return orSkip(issued)
}

func orSkip(issued []game.EconomyDecision) []game.EconomyDecision {
	if len(issued) == 0 {
		return []game.EconomyDecision{game.Skip()}
	}
	return issued
}
