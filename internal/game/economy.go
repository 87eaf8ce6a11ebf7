package game

import "fmt"

// GoldAmount is an estimate of the player's gold. Exact is false when the value
// comes from discrete glyph matching instead of a digit read.
type GoldAmount struct {
	Value int
	Exact bool
}

type DecisionKind int

const (
	DecisionSkip DecisionKind = iota
	DecisionBuyUnits
	DecisionBuyXP
	DecisionReroll
)

// EconomyDecision is one economic action issued during an in-match tick.
type EconomyDecision struct {
	Kind  DecisionKind
	Units int
}

func BuyUnits(n int) EconomyDecision { return EconomyDecision{Kind: DecisionBuyUnits, Units: n} }
func BuyXP() EconomyDecision         { return EconomyDecision{Kind: DecisionBuyXP} }
func Reroll() EconomyDecision        { return EconomyDecision{Kind: DecisionReroll} }
func Skip() EconomyDecision          { return EconomyDecision{Kind: DecisionSkip} }

func (d EconomyDecision) String() string {
	switch d.Kind {
	case DecisionBuyUnits:
		return fmt.Sprintf("BUY_UNITS(%d)", d.Units)
	case DecisionBuyXP:
		return "BUY_XP"
	case DecisionReroll:
		return "REROLL"
	default:
		return "SKIP"
	}
}
