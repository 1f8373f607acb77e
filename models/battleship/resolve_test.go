package battleship

import (
	"errors"
	"math/rand"
	"testing"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

func hitFlags(b *Board) [][]bool {
	flags := make([][]bool, 0, b.ShipCount())
	for _, ship := range b.Ships() {
		flags = append(flags, append([]bool(nil), ship.hits...))
	}
	return flags
}

func TestResolveShotMissOnEveryUnownedCell(t *testing.T) {
	board, err := RandomFleet(rand.New(rand.NewSource(7)), StandardFleetSizes)
	if err != nil {
		t.Fatal(err)
	}

	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			target := MustCoordinates(x, y)
			if board.OwnerAt(target) != NoOwner {
				continue
			}

			before := hitFlags(board)
			outcome, err := ResolveShot(board, target)
			if err != nil {
				t.Fatal(err)
			}
			if outcome.Kind != OutcomeMiss {
				t.Fatalf("expected miss at %s, got: %s", target, outcome.Kind)
			}

			after := hitFlags(board)
			for i := range before {
				for j := range before[i] {
					if before[i][j] != after[i][j] {
						t.Fatalf("miss at %s changed hit flags of ship %d", target, i)
					}
				}
			}
		}
	}
}

func TestResolveShotScenarios(t *testing.T) {
	board := NewBoard()
	_, _ = board.PlaceShip(line(0, 0, 4, true))
	_, _ = board.PlaceShip(line(0, 2, 3, true))
	_, _ = board.PlaceShip(line(7, 4, 3, false))
	sub, _ := board.PlaceShip([]Coordinates{MustCoordinates(9, 9)})

	tests := []struct {
		name              string
		target            Coordinates
		expectedKind      OutcomeKind
		expectedIndex     int
		expectedPositions []Coordinates
	}{
		{
			name:          "empty cell",
			target:        MustCoordinates(5, 5),
			expectedKind:  OutcomeMiss,
			expectedIndex: NoOwner,
		},
		{
			name:          "first hit on ship 2",
			target:        MustCoordinates(7, 5),
			expectedKind:  OutcomeHit,
			expectedIndex: 2,
		},
		{
			name:              "submarine",
			target:            MustCoordinates(9, 9),
			expectedKind:      OutcomeSunk,
			expectedIndex:     sub,
			expectedPositions: []Coordinates{MustCoordinates(9, 9)},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			outcome, err := ResolveShot(board, test.target)
			if err != nil {
				t.Fatal(err)
			}
			if outcome.Kind != test.expectedKind {
				t.Fatalf("expected kind: %s\tgot: %s", test.expectedKind, outcome.Kind)
			}
			if outcome.ShipIndex != test.expectedIndex {
				t.Fatalf("expected index: %d\tgot: %d", test.expectedIndex, outcome.ShipIndex)
			}
			if outcome.Target != test.target {
				t.Fatalf("expected target: %s\tgot: %s", test.target, outcome.Target)
			}
			if len(outcome.Positions) != len(test.expectedPositions) {
				t.Fatalf("expected positions: %v\tgot: %v", test.expectedPositions, outcome.Positions)
			}
			for i := range test.expectedPositions {
				if outcome.Positions[i] != test.expectedPositions[i] {
					t.Fatalf("expected positions: %v\tgot: %v", test.expectedPositions, outcome.Positions)
				}
			}
		})
	}
}

func TestResolveShotSinksEachShip(t *testing.T) {
	board, err := RandomFleet(rand.New(rand.NewSource(42)), StandardFleetSizes)
	if err != nil {
		t.Fatal(err)
	}

	for index, ship := range board.Ships() {
		positions := ship.Positions()
		var last ShotOutcome
		for _, pos := range positions {
			last, err = ResolveShot(board, pos)
			if err != nil {
				t.Fatal(err)
			}
		}

		if !ship.IsSunk() {
			t.Fatalf("ship %d should be sunk", index)
		}
		if last.Kind != OutcomeSunk && last.Kind != OutcomeGameEnd {
			t.Fatalf("ship %d last outcome expected sunk or game end, got: %s", index, last.Kind)
		}
		if len(last.Positions) != len(positions) {
			t.Fatalf("expected %d sunk positions, got: %d", len(positions), len(last.Positions))
		}
	}
}

func TestResolveShotIdempotent(t *testing.T) {
	board := NewBoard()
	_, _ = board.PlaceShip(line(3, 3, 2, false))
	_, _ = board.PlaceShip(line(0, 0, 1, true))

	for _, pos := range line(3, 3, 2, false) {
		if _, err := ResolveShot(board, pos); err != nil {
			t.Fatal(err)
		}
	}
	ship, _ := board.Ship(0)
	if !ship.IsSunk() {
		t.Fatal("ship should be sunk")
	}

	outcome, err := ResolveShot(board, MustCoordinates(3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if !ship.IsSunk() {
		t.Fatal("ship should stay sunk")
	}
	if outcome.Kind != OutcomeSunk {
		t.Fatalf("expected re-derived sunk, got: %s", outcome.Kind)
	}

	// partially hit ship shot twice on the same cell stays afloat
	board = NewBoard()
	_, _ = board.PlaceShip(line(0, 0, 3, true))
	for i := 0; i < 2; i++ {
		outcome, _ = ResolveShot(board, MustCoordinates(1, 0))
		if outcome.Kind != OutcomeHit {
			t.Fatalf("expected hit, got: %s", outcome.Kind)
		}
	}
}

func TestResolveShotFullFleet(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	board, err := RandomFleet(rng, StandardFleetSizes)
	if err != nil {
		t.Fatal(err)
	}

	var targets []Coordinates
	for _, ship := range board.Ships() {
		targets = append(targets, ship.Positions()...)
	}
	if len(targets) != StandardFleetCells {
		t.Fatalf("expected %d fleet cells, got: %d", StandardFleetCells, len(targets))
	}
	rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })

	gameEnds := 0
	for i, target := range targets {
		outcome, err := ResolveShot(board, target)
		if err != nil {
			t.Fatal(err)
		}

		switch outcome.Kind {
		case OutcomeGameEnd:
			gameEnds++
			if i != len(targets)-1 {
				t.Fatalf("game end on shot %d of %d", i+1, len(targets))
			}
		case OutcomeHit, OutcomeSunk:
		default:
			t.Fatalf("unexpected outcome %s at %s", outcome.Kind, target)
		}
	}

	if gameEnds != 1 {
		t.Fatalf("expected exactly one game end, got: %d", gameEnds)
	}
	if !board.AllSunk() {
		t.Fatal("every ship should be sunk")
	}
}

func TestResolveShotOutOfBound(t *testing.T) {
	board := NewBoard()
	_, err := ResolveShot(board, Coordinates{X: 10, Y: 0})
	if !errors.Is(err, cerr.ErrOutOfGridBound) {
		t.Fatalf("expected out of bound error, got: %v", err)
	}
}
