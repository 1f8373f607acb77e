package battleship

import (
	"fmt"
	"math/rand"
)

// One battleship, two cruisers, three destroyers and four submarines.
var StandardFleetSizes = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

// Total number of cells a standard fleet occupies
const StandardFleetCells = 20

const maxPlacementAttempts = 1000

// RandomFleet places ships of the given sizes at random,
// non-overlapping, straight positions. Ship indexes follow the
// order of sizes.
func RandomFleet(rng *rand.Rand, sizes []int) (*Board, error) {
	board := NewBoard()

	for i, size := range sizes {
		if size < 1 || size > GridSize {
			return nil, fmt.Errorf("ship %d has invalid size %d", i, size)
		}

		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			if _, err := board.PlaceShip(randomLine(rng, size)); err == nil {
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("could not place ship %d of size %d after %d attempts", i, size, maxPlacementAttempts)
		}
	}

	return board, nil
}

// Always returns an in-bounds line
func randomLine(rng *rand.Rand, size int) []Coordinates {
	horizontal := rng.Intn(2) == 0

	maxX, maxY := GridSize, GridSize
	if horizontal {
		maxX -= size - 1
	} else {
		maxY -= size - 1
	}
	x, y := rng.Intn(maxX), rng.Intn(maxY)

	line := make([]Coordinates, size)
	for i := range line {
		if horizontal {
			line[i] = Coordinates{X: uint8(x + i), Y: uint8(y)}
		} else {
			line[i] = Coordinates{X: uint8(x), Y: uint8(y + i)}
		}
	}
	return line
}
