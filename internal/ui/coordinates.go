package ui

import "github.com/tftbot/tftbot/internal/game"

const (
	GameWidth  = 1920
	GameHeight = 1080
)

// DraftPath is the counter-clockwise diamond walked during shared drafts.
var DraftPath = [4]struct{ X, Y int }{
	{X: 946, Y: 315},
	{X: 700, Y: 450},
	{X: 950, Y: 675},
	{X: 1200, Y: 460},
}

var (
	// GoldGlyphRegion bounds the gold counter for glyph matching.
	GoldGlyphRegion = game.Region{MinX: 780, MinY: 850, MaxX: 970, MaxY: 920}
	// GoldDigitsRegion is the tighter box read by OCR.
	GoldDigitsRegion = game.Region{MinX: 867, MinY: 881, MaxX: 924, MaxY: 909}
)
