package battleship

import (
	"fmt"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

const (
	GridSize = 10

	// Ownership index of a cell that no ship claims
	NoOwner = -1
)

// Presentation state of a single grid cell. It is always derived
// from ownership and the ship hit flags, never stored.
type CellStatus uint8

const (
	CellStatusEmpty CellStatus = iota
	CellStatusOccupied
	CellStatusHit
	CellStatusMiss
	CellStatusSunk
)

func (cs CellStatus) String() string {
	switch cs {
	case CellStatusOccupied:
		return "occupied"
	case CellStatusHit:
		return "hit"
	case CellStatusMiss:
		return "miss"
	case CellStatusSunk:
		return "sunk"
	default:
		return "empty"
	}
}

type Coordinates struct {
	X uint8 `json:"x" msgpack:"x"`
	Y uint8 `json:"y" msgpack:"y"`
}

// NewCoordinates rejects anything outside the grid so that
// a Coordinates value can always be used as an index.
func NewCoordinates(x, y int) (Coordinates, error) {
	if !inBounds(x, y) {
		return Coordinates{}, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return Coordinates{X: uint8(x), Y: uint8(y)}, nil
}

// MustCoordinates panics on out of bound input. Meant for
// constants and tests.
func MustCoordinates(x, y int) Coordinates {
	c, err := NewCoordinates(x, y)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCoordinates converts "A1".."J10" to coordinates. The letter
// is the row (y) and the number is the column (x), same as the
// labels drawn around the grid.
func ParseCoordinates(s string) (Coordinates, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Coordinates{}, fmt.Errorf("invalid coordinates: %q", s)
	}

	row := strings.ToUpper(s[:1])[0]
	if row < 'A' || row >= 'A'+GridSize {
		return Coordinates{}, fmt.Errorf("invalid row: %q", s[:1])
	}

	col, err := strconv.Atoi(s[1:])
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid column: %q", s[1:])
	}

	return NewCoordinates(col-1, int(row-'A'))
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%c%d", 'A'+c.Y, c.X+1)
}

func (c Coordinates) valid() bool {
	return inBounds(int(c.X), int(c.Y))
}

func inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < GridSize && y < GridSize
}
