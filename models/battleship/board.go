package battleship

import (
	"sort"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

// Board is one player's own 10x10 grid. Ownership of every cell
// and the positions of every ship are kept in agreement by the
// placement methods; nothing else writes to them.
type Board struct {
	// indexed [x][y]; NoOwner or an index into ships
	owners [GridSize][GridSize]int
	missed [GridSize][GridSize]bool
	ships  []*Ship
}

func NewBoard() *Board {
	b := &Board{ships: make([]*Ship, 0, len(StandardFleetSizes))}
	for x := range b.owners {
		for y := range b.owners[x] {
			b.owners[x][y] = NoOwner
		}
	}
	return b
}

// PlaceShip adds a new ship to the fleet and returns its index.
// The board is left untouched on failure.
func (b *Board) PlaceShip(positions []Coordinates) (int, error) {
	if err := validateShape(positions); err != nil {
		return NoOwner, err
	}
	if err := b.checkClaimable(positions, NoOwner); err != nil {
		return NoOwner, err
	}

	index := len(b.ships)
	b.ships = append(b.ships, NewShip(positions))
	b.claim(positions, index)
	return index, nil
}

// RelocateShip moves an existing ship. Target cells may overlap the
// ship's own current cells. Either every cell moves or none does.
func (b *Board) RelocateShip(index int, positions []Coordinates) error {
	ship, err := b.Ship(index)
	if err != nil {
		return err
	}
	if len(positions) != ship.Size() {
		return cerr.ErrShipLengthMismatch(ship.Size(), len(positions))
	}
	if err := validateShape(positions); err != nil {
		return err
	}
	if err := b.checkClaimable(positions, index); err != nil {
		return err
	}

	b.claim(ship.positions, NoOwner)
	b.claim(positions, index)
	ship.setPositions(positions)
	return nil
}

// RotateShip turns a ship around its top-left cell.
func (b *Board) RotateShip(index int) error {
	ship, err := b.Ship(index)
	if err != nil {
		return err
	}

	anchor := topLeft(ship.positions)
	size := b.ShipSizeAt(anchor)
	horizontal := b.IsHorizontal(anchor)

	rotated := make([]Coordinates, 0, size)
	for i := 0; i < size; i++ {
		x, y := int(anchor.X), int(anchor.Y)
		if horizontal {
			y += i
		} else {
			x += i
		}
		if !inBounds(x, y) {
			return cerr.ErrPlacementOutOfBound(x, y)
		}
		rotated = append(rotated, Coordinates{X: uint8(x), Y: uint8(y)})
	}

	return b.RelocateShip(index, rotated)
}

// ShipSizeAt counts the cells reachable from c along both axes
// that share c's owner. Zero when c is not part of a ship.
func (b *Board) ShipSizeAt(c Coordinates) int {
	owner := b.OwnerAt(c)
	if owner == NoOwner {
		return 0
	}

	x, y := int(c.X), int(c.Y)
	size := 1
	for _, dir := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		for i := 1; b.ownerAt(x+dir[0]*i, y+dir[1]*i) == owner; i++ {
			size++
		}
	}
	return size
}

// IsHorizontal reports whether an x-neighbour of c belongs to the
// same ship. Single cells and empty cells count as vertical.
func (b *Board) IsHorizontal(c Coordinates) bool {
	owner := b.OwnerAt(c)
	if owner == NoOwner {
		return false
	}
	x, y := int(c.X), int(c.Y)
	return b.ownerAt(x-1, y) == owner || b.ownerAt(x+1, y) == owner
}

func (b *Board) OwnerAt(c Coordinates) int {
	return b.ownerAt(int(c.X), int(c.Y))
}

// Anything off the grid belongs to nobody.
func (b *Board) ownerAt(x, y int) int {
	if !inBounds(x, y) {
		return NoOwner
	}
	return b.owners[x][y]
}

// CellStatus derives the presentation state of c from ownership
// and hit flags.
func (b *Board) CellStatus(c Coordinates) CellStatus {
	owner := b.OwnerAt(c)
	if owner == NoOwner {
		if c.valid() && b.missed[c.X][c.Y] {
			return CellStatusMiss
		}
		return CellStatusEmpty
	}

	ship := b.ships[owner]
	switch {
	case ship.IsSunk():
		return CellStatusSunk
	case ship.IsCellHit(c):
		return CellStatusHit
	default:
		return CellStatusOccupied
	}
}

func (b *Board) Ship(index int) (*Ship, error) {
	if index < 0 || index >= len(b.ships) {
		return nil, cerr.ErrShipIndexNotExists(index)
	}
	return b.ships[index], nil
}

func (b *Board) Ships() []*Ship {
	return append(make([]*Ship, 0, len(b.ships)), b.ships...)
}

func (b *Board) ShipCount() int {
	return len(b.ships)
}

// AllSunk stops at the first ship still afloat. An empty fleet is
// never considered sunk.
func (b *Board) AllSunk() bool {
	if len(b.ships) == 0 {
		return false
	}
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

func (b *Board) markMiss(c Coordinates) {
	b.missed[c.X][c.Y] = true
}

func (b *Board) checkClaimable(positions []Coordinates, index int) error {
	for _, pos := range positions {
		owner := b.OwnerAt(pos)
		if owner != NoOwner && owner != index {
			return cerr.ErrPositionAlreadyTaken(int(pos.X), int(pos.Y), owner)
		}
	}
	return nil
}

func (b *Board) claim(positions []Coordinates, index int) {
	for _, pos := range positions {
		b.owners[pos.X][pos.Y] = index
	}
}

// Positions must be on the grid, distinct and form one straight
// unbroken line.
func validateShape(positions []Coordinates) error {
	if len(positions) == 0 {
		return cerr.ErrShipShape("no positions")
	}
	for _, pos := range positions {
		if !pos.valid() {
			return cerr.ErrPlacementOutOfBound(int(pos.X), int(pos.Y))
		}
	}

	sorted := append(make([]Coordinates, 0, len(positions)), positions...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	horizontal := sorted[0].Y == sorted[len(sorted)-1].Y
	vertical := sorted[0].X == sorted[len(sorted)-1].X

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev == cur {
			return cerr.ErrShipShape("duplicate position " + cur.String())
		}
		switch {
		case horizontal && cur.Y == prev.Y && cur.X == prev.X+1:
		case vertical && cur.X == prev.X && cur.Y == prev.Y+1:
		default:
			return cerr.ErrShipShape("positions are not one straight line")
		}
	}
	return nil
}

func topLeft(positions []Coordinates) Coordinates {
	anchor := positions[0]
	for _, pos := range positions[1:] {
		if pos.X < anchor.X || pos.Y < anchor.Y {
			anchor = pos
		}
	}
	return anchor
}
