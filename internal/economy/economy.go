package economy

import (
	"fmt"
	"strings"

	"github.com/tftbot/tftbot/internal/config"
	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/game"
)

// Strategy spends gold once per in-match tick. Actuation happens inside
// LoopDecision; the returned decisions are what was attempted, in order.
type Strategy interface {
	Name() string
	LoopDecision(minRound game.RoundID) []game.EconomyDecision
}

// Mode selects a Strategy once per session.
type Mode int

const (
	ModeThreshold Mode = iota
	ModeOCR
)

func (m Mode) String() string {
	if m == ModeOCR {
		return config.EconomyModeOCR
	}
	return config.EconomyModeThreshold
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.EconomyModeThreshold:
		return ModeThreshold, nil
	case config.EconomyModeOCR:
		return ModeOCR, nil
	}
	return ModeThreshold, fmt.Errorf("unknown economy mode %q", s)
}

// Settings is the configuration associated with a Mode.
type Settings struct {
	Mode             Mode
	WantedTraits     []string
	PrioritizedOrder bool
	// Digits is required by ModeOCR.
	Digits game.DigitReader
}

func SettingsFromConfig(cfg *config.Cfg, digits game.DigitReader) (Settings, error) {
	mode, err := ParseMode(cfg.Economy.Mode)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Mode:             mode,
		WantedTraits:     cfg.Economy.WantedTraits,
		PrioritizedOrder: cfg.Economy.PrioritizedOrder,
		Digits:           digits,
	}, nil
}

func New(ctx *ct.Context, s Settings) (Strategy, error) {
	shop := NewShop(ctx, s.WantedTraits, s.PrioritizedOrder)

	switch s.Mode {
	case ModeThreshold:
		return NewThreshold(ctx, shop, NewGlyphGold(ctx)), nil
	case ModeOCR:
		if s.Digits == nil {
			return nil, fmt.Errorf("economy mode %s needs a digit reader", s.Mode)
		}
		return NewOCR(ctx, shop, s.Digits), nil
	}

	return nil, fmt.Errorf("unknown economy mode %d", s.Mode)
}
