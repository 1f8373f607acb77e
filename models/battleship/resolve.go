package battleship

import cerr "github.com/saeidalz13/ocean-storm/internal/error"

type OutcomeKind uint8

const (
	OutcomeMiss OutcomeKind = iota
	OutcomeHit
	OutcomeSunk
	OutcomeGameEnd
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeHit:
		return "hit"
	case OutcomeSunk:
		return "sunk"
	case OutcomeGameEnd:
		return "game end"
	default:
		return "miss"
	}
}

type ShotOutcome struct {
	Kind   OutcomeKind
	Target Coordinates

	// NoOwner for a miss
	ShipIndex int

	// Every cell of the sunk ship. Only set for OutcomeSunk and
	// OutcomeGameEnd, since the shooter has seen just part of it.
	Positions []Coordinates
}

func NewMissOutcome(target Coordinates) ShotOutcome {
	return ShotOutcome{Kind: OutcomeMiss, Target: target, ShipIndex: NoOwner}
}

// ResolveShot applies an incoming shot to the local board.
// Shooting an already hit cell is answered again without harm.
func ResolveShot(b *Board, target Coordinates) (ShotOutcome, error) {
	if !target.valid() {
		return ShotOutcome{}, cerr.ErrXorYOutOfGridBound(int(target.X), int(target.Y))
	}

	index := b.OwnerAt(target)
	if index == NoOwner {
		b.markMiss(target)
		return NewMissOutcome(target), nil
	}

	ship := b.ships[index]
	if !ship.SetCellHit(target) {
		return ShotOutcome{Kind: OutcomeHit, Target: target, ShipIndex: index}, nil
	}

	outcome := ShotOutcome{
		Kind:      OutcomeSunk,
		Target:    target,
		ShipIndex: index,
		Positions: ship.Positions(),
	}
	if b.AllSunk() {
		outcome.Kind = OutcomeGameEnd
	}
	return outcome, nil
}
