package economy

import (
	"log/slog"
	"math"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
)

const (
	ocrUnits  = 3
	ocrXP     = 54
	ocrReroll = 55
	xpCost    = 4
)

// OCR reads the exact gold once per tick and subtracts what it spends instead
// of reading again.
type OCR struct {
	ctx    *ct.Context
	shop   *Shop
	digits game.DigitReader
}

func NewOCR(ctx *ct.Context, shop *Shop, digits game.DigitReader) *OCR {
	return &OCR{ctx: ctx, shop: shop, digits: digits}
}

func (o *OCR) Name() string { return ModeOCR.String() }

func (o *OCR) LoopDecision(_ game.RoundID) []game.EconomyDecision {
	issued := []game.EconomyDecision{game.BuyUnits(ocrUnits)}
	o.shop.BuyUnits(ocrUnits, func() bool { return true })

	gold := o.Gold()
	if gold.Value >= ocrXP {
		issued = append(issued, game.BuyXP())
		o.shop.BuyXP()
		gold.Value -= xpCost
	}

	if gold.Value >= ocrReroll {
		issued = append(issued, game.Reroll())
		o.shop.Reroll()
	}

	return issued
}

// Gold fails open: an unreadable value is reported as unlimited gold.
func (o *OCR) Gold() game.GoldAmount {
	value, err := o.digits.ReadNumber(game.SurfaceGame, ui.GoldDigitsRegion)
	if err != nil {
		o.ctx.Logger.Debug("Could not read gold, assuming we have enough", slog.Any("error", err))
		return game.GoldAmount{Value: math.MaxInt32}
	}

	return game.GoldAmount{Value: value, Exact: true}
}
