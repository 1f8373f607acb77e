package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mb "github.com/saeidalz13/ocean-storm/models/battleship"
	"github.com/saeidalz13/ocean-storm/models/match"
)

const helpText = `commands:
  show                      print both boards
  move <ship> <cell> <h|v>  move a ship so it starts at cell, e.g. move 0 B3 h
  rotate <ship>             rotate a ship around its top-left cell
  ready                     finish placing the fleet
  fire <cell>               shoot at the opponent, e.g. fire E7
  reset                     new fleet after a game ended
  quit                      leave the match`

var errEmptyCommand = errors.New("empty command")

type viewer interface {
	Show() error
}

type command struct {
	name   string
	action match.Action
	quit   bool
}

// parseCommand turns one line of input into an action for the match
// loop. Actions report false when the session refused them.
func parseCommand(line string, view viewer) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errEmptyCommand
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd := command{name: name}

	switch name {
	case "show":
		cmd.action = func(*match.Session) bool { return view.Show() == nil }

	case "move":
		if len(args) != 3 {
			return command{}, fmt.Errorf("usage: move <ship> <cell> <h|v>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid ship index: %q", args[0])
		}
		start, err := mb.ParseCoordinates(args[1])
		if err != nil {
			return command{}, err
		}
		var horizontal bool
		switch strings.ToLower(args[2]) {
		case "h":
			horizontal = true
		case "v":
		default:
			return command{}, fmt.Errorf("orientation must be h or v: %q", args[2])
		}

		cmd.action = func(s *match.Session) bool {
			ship, err := s.Board().Ship(index)
			if err != nil {
				return false
			}
			positions, err := shipLine(start, ship.Size(), horizontal)
			if err != nil {
				return false
			}
			return s.RelocateShip(index, positions)
		}

	case "rotate":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: rotate <ship>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid ship index: %q", args[0])
		}
		cmd.action = func(s *match.Session) bool { return s.RotateShip(index) }

	case "ready":
		cmd.action = (*match.Session).FinishSetup

	case "fire":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: fire <cell>")
		}
		target, err := mb.ParseCoordinates(args[0])
		if err != nil {
			return command{}, err
		}
		cmd.action = func(s *match.Session) bool { return s.RequestHit(target) }

	case "reset":
		cmd.action = (*match.Session).Reset

	case "quit", "exit":
		cmd.quit = true
		cmd.action = (*match.Session).EndManually

	default:
		return command{}, fmt.Errorf("unknown command %q\n%s", name, helpText)
	}

	return cmd, nil
}

// shipLine lays size cells out from start to the right or downwards.
func shipLine(start mb.Coordinates, size int, horizontal bool) ([]mb.Coordinates, error) {
	positions := make([]mb.Coordinates, 0, size)
	for i := 0; i < size; i++ {
		x, y := int(start.X), int(start.Y)
		if horizontal {
			x += i
		} else {
			y += i
		}
		c, err := mb.NewCoordinates(x, y)
		if err != nil {
			return nil, err
		}
		positions = append(positions, c)
	}
	return positions, nil
}
