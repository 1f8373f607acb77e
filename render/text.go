package render

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"text/tabwriter"

	mb "github.com/saeidalz13/ocean-storm/models/battleship"
	"github.com/saeidalz13/ocean-storm/models/match"
)

const (
	cellEmpty = "~"
	cellHit   = "X"
	cellSunk  = "#"
	cellMiss  = "o"
)

// Text draws both grids as plain text. Own ship cells show the
// ship index so they can be named in commands. Board drawing only
// happens on Show; phase, turn and result changes are printed as
// they come.
type Text struct {
	out   io.Writer
	mu    sync.Mutex
	cells [2][mb.GridSize][mb.GridSize]string
	turn  bool
}

var _ match.Renderer = (*Text)(nil)

func NewText(out io.Writer) *Text {
	t := &Text{out: out}
	t.ClearBoard(match.SideOwn)
	t.ClearBoard(match.SideOpponent)
	return t
}

func (t *Text) MarkShipCell(side match.Side, c mb.Coordinates, shipIndex int) {
	t.set(side, c, strconv.Itoa(shipIndex))
}

func (t *Text) ClearCell(side match.Side, c mb.Coordinates) {
	t.set(side, c, cellEmpty)
}

func (t *Text) MarkHit(side match.Side, c mb.Coordinates, sunk bool, _ int) {
	if sunk {
		t.set(side, c, cellSunk)
		return
	}
	t.set(side, c, cellHit)
}

func (t *Text) MarkMiss(side match.Side, c mb.Coordinates) {
	t.set(side, c, cellMiss)
}

func (t *Text) ClearBoard(side match.Side) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for x := range t.cells[side] {
		for y := range t.cells[side][x] {
			t.cells[side][x][y] = cellEmpty
		}
	}
}

func (t *Text) SetTurnIndicator(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if on && !t.turn {
		fmt.Fprintln(t.out, ">> your turn, fire at will")
	}
	t.turn = on
}

func (t *Text) ShowPhase(phase match.Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "[%s]\n", phase)
}

func (t *Text) AnnounceResult(result match.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch result {
	case match.ResultWon:
		fmt.Fprintln(t.out, "*** you won! every enemy ship is sunk ***")
	case match.ResultLost:
		fmt.Fprintln(t.out, "*** you lost. your fleet is gone ***")
	case match.ResultAbandoned:
		fmt.Fprintln(t.out, "*** match abandoned ***")
	}
}

// Show prints the own grid followed by the opponent grid.
func (t *Text) Show() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, side := range []match.Side{match.SideOwn, match.SideOpponent} {
		if _, err := fmt.Fprintf(t.out, "%s board\n", side); err != nil {
			return err
		}
		if err := t.writeGrid(side); err != nil {
			return err
		}
	}
	return nil
}

// Rows are lettered A-J (y), columns numbered 1-10 (x).
func (t *Text) writeGrid(side match.Side) error {
	tw := tabwriter.NewWriter(t.out, 3, 0, 1, ' ', 0)

	fmt.Fprint(tw, "\t")
	for x := 0; x < mb.GridSize; x++ {
		fmt.Fprint(tw, strconv.Itoa(x+1)+"\t")
	}
	fmt.Fprint(tw, "\n")

	for y := 0; y < mb.GridSize; y++ {
		fmt.Fprint(tw, string(rune('A'+y))+"\t")
		for x := 0; x < mb.GridSize; x++ {
			fmt.Fprint(tw, t.cells[side][x][y]+"\t")
		}
		fmt.Fprint(tw, "\n")
	}
	return tw.Flush()
}

func (t *Text) set(side match.Side, c mb.Coordinates, mark string) {
	if int(c.X) >= mb.GridSize || int(c.Y) >= mb.GridSize {
		return
	}

	t.mu.Lock()
	t.cells[side][c.X][c.Y] = mark
	t.mu.Unlock()
}
