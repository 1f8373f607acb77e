package match

import mb "github.com/saeidalz13/ocean-storm/models/battleship"

// Side picks which of the two grids an instruction is for.
type Side uint8

const (
	SideOwn Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SideOpponent {
		return "opponent"
	}
	return "own"
}

// Renderer receives draw instructions from the session. It is
// only ever called from the goroutine driving the session.
type Renderer interface {
	MarkShipCell(side Side, c mb.Coordinates, shipIndex int)
	ClearCell(side Side, c mb.Coordinates)
	// sunk is set for every cell of a ship that went down
	MarkHit(side Side, c mb.Coordinates, sunk bool, shipIndex int)
	MarkMiss(side Side, c mb.Coordinates)
	ClearBoard(side Side)
	SetTurnIndicator(on bool)
	ShowPhase(phase Phase)
	AnnounceResult(result Result)
}

// NopRenderer draws nothing. Useful for headless peers.
type NopRenderer struct{}

var _ Renderer = NopRenderer{}

func (NopRenderer) MarkShipCell(Side, mb.Coordinates, int)  {}
func (NopRenderer) ClearCell(Side, mb.Coordinates)          {}
func (NopRenderer) MarkHit(Side, mb.Coordinates, bool, int) {}
func (NopRenderer) MarkMiss(Side, mb.Coordinates)           {}
func (NopRenderer) ClearBoard(Side)                         {}
func (NopRenderer) SetTurnIndicator(bool)                   {}
func (NopRenderer) ShowPhase(Phase)                         {}
func (NopRenderer) AnnounceResult(Result)                   {}
