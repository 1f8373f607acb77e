package battleship

import cerr "github.com/saeidalz13/ocean-storm/internal/error"

// ShadowBoard is the local picture of the opponent's grid. It is
// filled only from the outcomes the opponent reports.
type ShadowBoard struct {
	cells [GridSize][GridSize]CellStatus
	// indexes of the ships reported sunk
	sunk map[int]struct{}
}

func NewShadowBoard() *ShadowBoard {
	return &ShadowBoard{sunk: make(map[int]struct{})}
}

func (sb *ShadowBoard) Apply(outcome ShotOutcome) error {
	if !outcome.Target.valid() {
		return cerr.ErrXorYOutOfGridBound(int(outcome.Target.X), int(outcome.Target.Y))
	}
	for _, pos := range outcome.Positions {
		if !pos.valid() {
			return cerr.ErrXorYOutOfGridBound(int(pos.X), int(pos.Y))
		}
	}

	switch outcome.Kind {
	case OutcomeMiss:
		sb.cells[outcome.Target.X][outcome.Target.Y] = CellStatusMiss

	case OutcomeHit:
		sb.cells[outcome.Target.X][outcome.Target.Y] = CellStatusHit

	case OutcomeSunk, OutcomeGameEnd:
		sb.cells[outcome.Target.X][outcome.Target.Y] = CellStatusHit
		for _, pos := range outcome.Positions {
			sb.cells[pos.X][pos.Y] = CellStatusSunk
		}
		if len(outcome.Positions) > 0 {
			sb.sunk[outcome.ShipIndex] = struct{}{}
		}
	}
	return nil
}

func (sb *ShadowBoard) CellStatus(c Coordinates) CellStatus {
	if !c.valid() {
		return CellStatusEmpty
	}
	return sb.cells[c.X][c.Y]
}

// Number of opponent ships reported sunk so far
func (sb *ShadowBoard) SunkShips() int {
	return len(sb.sunk)
}
