package cli

import (
	"testing"

	mb "github.com/saeidalz13/ocean-storm/models/battleship"
	"github.com/saeidalz13/ocean-storm/models/connection"
	"github.com/saeidalz13/ocean-storm/models/match"
)

type countingViewer struct{ shown int }

func (cv *countingViewer) Show() error {
	cv.shown++
	return nil
}

func newSetupSession(t *testing.T) *match.Session {
	t.Helper()

	board := mb.NewBoard()
	if _, err := board.PlaceShip([]mb.Coordinates{mb.MustCoordinates(0, 0), mb.MustCoordinates(1, 0)}); err != nil {
		t.Fatal(err)
	}
	transport, _ := connection.NewPipe(connection.NewJSONCodec())
	s, err := match.NewSession(transport, nil, match.WithBoard(board), match.WithFleetSizes([]int{2}))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", "   "},
		{"unknown", "dance"},
		{"move missing args", "move 0 B2"},
		{"move bad index", "move x B2 h"},
		{"move bad cell", "move 0 K2 h"},
		{"move bad orientation", "move 0 B2 d"},
		{"rotate missing index", "rotate"},
		{"fire missing cell", "fire"},
		{"fire off grid", "fire A11"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := parseCommand(test.line, &countingViewer{}); err == nil {
				t.Fatalf("expected error for %q", test.line)
			}
		})
	}
}

func TestParseCommandActions(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		view := &countingViewer{}
		cmd, err := parseCommand("SHOW", view)
		if err != nil {
			t.Fatal(err)
		}
		if !cmd.action(newSetupSession(t)) || view.shown != 1 {
			t.Fatalf("expected boards shown once\tgot: %d", view.shown)
		}
	})

	t.Run("move vertical", func(t *testing.T) {
		s := newSetupSession(t)
		cmd, err := parseCommand("move 0 c3 v", &countingViewer{})
		if err != nil {
			t.Fatal(err)
		}
		if !cmd.action(s) {
			t.Fatal("expected move to be accepted")
		}
		for _, c := range []mb.Coordinates{mb.MustCoordinates(2, 2), mb.MustCoordinates(2, 3)} {
			if owner := s.Board().OwnerAt(c); owner != 0 {
				t.Fatalf("expected ship 0 at %s\tgot: %d", c, owner)
			}
		}
		if owner := s.Board().OwnerAt(mb.MustCoordinates(0, 0)); owner != mb.NoOwner {
			t.Fatalf("expected A1 to be free\tgot: %d", owner)
		}
	})

	t.Run("move past the edge", func(t *testing.T) {
		cmd, err := parseCommand("move 0 A10 h", &countingViewer{})
		if err != nil {
			t.Fatal(err)
		}
		if cmd.action(newSetupSession(t)) {
			t.Fatal("expected move to be refused")
		}
	})

	t.Run("unknown ship", func(t *testing.T) {
		cmd, err := parseCommand("rotate 4", &countingViewer{})
		if err != nil {
			t.Fatal(err)
		}
		if cmd.action(newSetupSession(t)) {
			t.Fatal("expected rotate to be refused")
		}
	})

	t.Run("fire during setup", func(t *testing.T) {
		cmd, err := parseCommand("fire E7", &countingViewer{})
		if err != nil {
			t.Fatal(err)
		}
		if cmd.action(newSetupSession(t)) {
			t.Fatal("expected shot to be refused before the match started")
		}
	})

	t.Run("quit", func(t *testing.T) {
		cmd, err := parseCommand("quit", &countingViewer{})
		if err != nil {
			t.Fatal(err)
		}
		if !cmd.quit {
			t.Fatal("expected quit flag")
		}
	})
}

func TestShipLine(t *testing.T) {
	line, err := shipLine(mb.MustCoordinates(7, 1), 3, true)
	if err != nil {
		t.Fatal(err)
	}
	expected := []mb.Coordinates{mb.MustCoordinates(7, 1), mb.MustCoordinates(8, 1), mb.MustCoordinates(9, 1)}
	for i := range expected {
		if line[i] != expected[i] {
			t.Fatalf("expected: %v\tgot: %v", expected, line)
		}
	}

	if _, err := shipLine(mb.MustCoordinates(8, 1), 3, true); err == nil {
		t.Fatal("expected out of bound error")
	}
}
