package economy

import (
	"log/slog"

	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/ui"
)

// GlyphGold estimates gold by matching per-value digit templates. Values
// without a template are treated as "enough", never as zero.
type GlyphGold struct {
	ctx    *ct.Context
	region game.Region
}

func NewGlyphGold(ctx *ct.Context) *GlyphGold {
	return &GlyphGold{ctx: ctx, region: ui.GoldGlyphRegion}
}

func (g *GlyphGold) is(value int) bool {
	ref, found := g.ctx.Templates.GoldTemplate(value)
	if !found {
		g.ctx.Logger.Debug("No template for gold value, assuming it is shown", slog.Int("gold", value))
		return true
	}

	region := g.region
	_, found = g.ctx.Perception.Locate(ref, ref.Confidence, &region)
	return found
}

// AtLeast fails open: a missing template, or no readable value at all, counts
// as having at least num gold.
func (g *GlyphGold) AtLeast(num int) bool {
	if g.is(num) {
		return true
	}

	for i := 0; i <= num; i++ {
		if g.is(i) {
			return i >= num
		}
	}

	g.ctx.Logger.Debug("No gold value found, assuming we have more", slog.Int("wanted", num))
	return true
}
