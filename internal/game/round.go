package game

import (
	"cmp"
	"fmt"
	"math"
)

// RoundUnknown is used when only the stage could be read from the screen.
const RoundUnknown = 0

// DraftRound is the per-stage round number of the shared draft (carousel).
const DraftRound = 4

// RoundMonster marks a PvE round (krugs, wolves, birds, elder dragon) whose
// number is not read from the screen. PvE rounds close a stage, so it sorts
// after every numbered round of the same stage.
const RoundMonster = math.MaxInt

// RoundID identifies a match progression point, e.g. stage 2 round 3 ("2-3")
// or the monster round of stage 3 ("3-monster"). Ordering is lexicographic on
// (Stage, Round).
type RoundID struct {
	Stage int
	Round int
}

func NewRoundID(stage, round int) RoundID {
	return RoundID{Stage: stage, Round: round}
}

func (r RoundID) Compare(other RoundID) int {
	if c := cmp.Compare(r.Stage, other.Stage); c != 0 {
		return c
	}
	return cmp.Compare(r.Round, other.Round)
}

func (r RoundID) Less(other RoundID) bool {
	return r.Compare(other) < 0
}

func (r RoundID) IsZero() bool {
	return r.Stage == 0 && r.Round == 0
}

// IsDraft reports whether this is an X-4 shared draft round after the first stage.
func (r RoundID) IsDraft() bool {
	return r.Stage > 1 && r.Round == DraftRound
}

func (r RoundID) IsMonster() bool {
	return r.Round == RoundMonster
}

func (r RoundID) String() string {
	switch r.Round {
	case RoundUnknown:
		return fmt.Sprintf("%d-", r.Stage)
	case RoundMonster:
		return fmt.Sprintf("%d-monster", r.Stage)
	}
	return fmt.Sprintf("%d-%d", r.Stage, r.Round)
}
