package connection

import (
	"encoding/json"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
	mb "github.com/saeidalz13/ocean-storm/models/battleship"
)

// Message is one of the concrete message types below. The set is
// closed; codecs switch over MessageType exhaustively.
type Message interface {
	Type() MessageType
}

// OutcomeMessage is a reply to a RequestHit.
type OutcomeMessage interface {
	Message
	Outcome() (mb.ShotOutcome, error)
}

type Position struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

func NewPosition(c mb.Coordinates) Position {
	return Position{X: int(c.X), Y: int(c.Y)}
}

func (p Position) Coordinates() (mb.Coordinates, error) {
	return mb.NewCoordinates(p.X, p.Y)
}

// ShipList travels as a JSON array that has itself been encoded
// to a string, which is what the browser client sends. Decoding
// also accepts a plain array. MessagePack always uses a plain array.
type ShipList []Position

func NewShipList(positions []mb.Coordinates) ShipList {
	ships := make(ShipList, len(positions))
	for i, c := range positions {
		ships[i] = NewPosition(c)
	}
	return ships
}

func (sl ShipList) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal([]Position(sl))
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(inner))
}

func (sl *ShipList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*sl = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		data = []byte(text)
	}

	var positions []Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return err
	}
	*sl = positions
	return nil
}

func (sl ShipList) Coordinates() ([]mb.Coordinates, error) {
	coords := make([]mb.Coordinates, len(sl))
	for i, p := range sl {
		c, err := p.Coordinates()
		if err != nil {
			return nil, err
		}
		coords[i] = c
	}
	return coords, nil
}

type Connected struct{}

func (Connected) Type() MessageType { return TypeConnected }

// First is set when the sender had already seen our Ready and so
// takes the first shot. A plain Ready crossed ours on the wire.
type Ready struct {
	First bool `json:"first,omitempty" msgpack:"first,omitempty"`
}

func (Ready) Type() MessageType { return TypeReady }

type RequestHit struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

func NewRequestHit(c mb.Coordinates) RequestHit {
	return RequestHit{X: int(c.X), Y: int(c.Y)}
}

func (RequestHit) Type() MessageType { return TypeRequestHit }

func (RequestHit) requiredKeys() []string { return []string{"X", "Y"} }

func (r RequestHit) Coordinates() (mb.Coordinates, error) {
	return mb.NewCoordinates(r.X, r.Y)
}

type Hit struct {
	X     int `json:"x" msgpack:"x"`
	Y     int `json:"y" msgpack:"y"`
	Index int `json:"index" msgpack:"index"`
}

func (Hit) Type() MessageType { return TypeHit }

func (Hit) requiredKeys() []string { return []string{"X", "Y", "Index"} }

func (h Hit) Outcome() (mb.ShotOutcome, error) {
	target, err := mb.NewCoordinates(h.X, h.Y)
	if err != nil {
		return mb.ShotOutcome{}, err
	}
	return mb.ShotOutcome{Kind: mb.OutcomeHit, Target: target, ShipIndex: h.Index}, nil
}

type Miss struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

func (Miss) Type() MessageType { return TypeMiss }

func (Miss) requiredKeys() []string { return []string{"X", "Y"} }

func (m Miss) Outcome() (mb.ShotOutcome, error) {
	target, err := mb.NewCoordinates(m.X, m.Y)
	if err != nil {
		return mb.ShotOutcome{}, err
	}
	return mb.NewMissOutcome(target), nil
}

// The shot target is not part of the payload; the first
// position stands in for it.
type ShipSunk struct {
	Ships ShipList `json:"ships" msgpack:"ships"`
	Index int      `json:"index" msgpack:"index"`
}

func (ShipSunk) Type() MessageType { return TypeShipSunk }

func (ShipSunk) requiredKeys() []string { return []string{"Index"} }

func (s ShipSunk) Outcome() (mb.ShotOutcome, error) {
	positions, err := s.Ships.Coordinates()
	if err != nil {
		return mb.ShotOutcome{}, err
	}
	if len(positions) == 0 {
		return mb.ShotOutcome{}, cerr.ErrShipShape("sunk ship without positions")
	}
	return mb.ShotOutcome{
		Kind:      mb.OutcomeSunk,
		Target:    positions[0],
		ShipIndex: s.Index,
		Positions: positions,
	}, nil
}

// GameEnd may describe the final shot so the winner can draw the
// last ship. Peers that send it bare are still understood.
type GameEnd struct {
	X     int      `json:"x,omitempty" msgpack:"x,omitempty"`
	Y     int      `json:"y,omitempty" msgpack:"y,omitempty"`
	Ships ShipList `json:"ships,omitempty" msgpack:"ships,omitempty"`
	Index int      `json:"index,omitempty" msgpack:"index,omitempty"`
}

func (GameEnd) Type() MessageType { return TypeGameEnd }

func (g GameEnd) Detailed() bool {
	return len(g.Ships) > 0
}

func (g GameEnd) Outcome() (mb.ShotOutcome, error) {
	if !g.Detailed() {
		return mb.ShotOutcome{Kind: mb.OutcomeGameEnd, ShipIndex: mb.NoOwner}, nil
	}

	target, err := mb.NewCoordinates(g.X, g.Y)
	if err != nil {
		return mb.ShotOutcome{}, err
	}
	positions, err := g.Ships.Coordinates()
	if err != nil {
		return mb.ShotOutcome{}, err
	}
	return mb.ShotOutcome{
		Kind:      mb.OutcomeGameEnd,
		Target:    target,
		ShipIndex: g.Index,
		Positions: positions,
	}, nil
}

type EndGameManually struct{}

func (EndGameManually) Type() MessageType { return TypeEndGameManually }

type RoomAssigned struct {
	RoomID string `json:"room_id" msgpack:"room_id"`
}

func (RoomAssigned) Type() MessageType { return TypeRoomAssigned }

// NewOutcomeMessage turns a locally resolved shot into the reply
// for the shooter.
func NewOutcomeMessage(outcome mb.ShotOutcome) OutcomeMessage {
	switch outcome.Kind {
	case mb.OutcomeHit:
		return Hit{X: int(outcome.Target.X), Y: int(outcome.Target.Y), Index: outcome.ShipIndex}

	case mb.OutcomeSunk:
		return ShipSunk{Ships: NewShipList(outcome.Positions), Index: outcome.ShipIndex}

	case mb.OutcomeGameEnd:
		return GameEnd{
			X:     int(outcome.Target.X),
			Y:     int(outcome.Target.Y),
			Ships: NewShipList(outcome.Positions),
			Index: outcome.ShipIndex,
		}

	default:
		return Miss{X: int(outcome.Target.X), Y: int(outcome.Target.Y)}
	}
}

// Rejects payloads whose coordinates or indexes could not be used
// against a grid.
func validate(msg Message) error {
	var err error

	switch m := msg.(type) {
	case RequestHit:
		_, err = m.Coordinates()
	case Hit:
		_, err = m.Outcome()
		if err == nil && m.Index < 0 {
			err = cerr.ErrShipIndexNotExists(m.Index)
		}
	case Miss:
		_, err = m.Outcome()
	case ShipSunk:
		_, err = m.Outcome()
		if err == nil && m.Index < 0 {
			err = cerr.ErrShipIndexNotExists(m.Index)
		}
	case GameEnd:
		_, err = m.Outcome()
		if err == nil && m.Detailed() && m.Index < 0 {
			err = cerr.ErrShipIndexNotExists(m.Index)
		}
	}

	if err != nil {
		return cerr.ErrMalformedPayload(string(msg.Type()), err)
	}
	return nil
}
