package battleship

type Ship struct {
	positions []Coordinates
	hits      []bool
}

func NewShip(positions []Coordinates) *Ship {
	ship := &Ship{}
	ship.setPositions(positions)
	return ship
}

// Replaces the occupied cells and forgets any hits.
// Only used during fleet setup.
func (sh *Ship) setPositions(positions []Coordinates) {
	sh.positions = append(make([]Coordinates, 0, len(positions)), positions...)
	sh.hits = make([]bool, len(positions))
}

// Returns a copy of the occupied cells in placement order
func (sh *Ship) Positions() []Coordinates {
	return append(make([]Coordinates, 0, len(sh.positions)), sh.positions...)
}

func (sh *Ship) Size() int {
	return len(sh.positions)
}

// SetCellHit marks the cell as hit and reports whether the
// ship is sunk afterwards. Hitting the same cell twice is fine.
func (sh *Ship) SetCellHit(c Coordinates) bool {
	for i, pos := range sh.positions {
		if pos == c {
			sh.hits[i] = true
		}
	}
	return sh.IsSunk()
}

func (sh *Ship) IsCellHit(c Coordinates) bool {
	for i, pos := range sh.positions {
		if pos == c {
			return sh.hits[i]
		}
	}
	return false
}

func (sh *Ship) IsSunk() bool {
	if len(sh.positions) == 0 {
		return false
	}
	for _, hit := range sh.hits {
		if !hit {
			return false
		}
	}
	return true
}
