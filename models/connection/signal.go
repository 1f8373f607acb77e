package connection

type MessageType string

const (
	TypeConnected       MessageType = "Connected"
	TypeReady           MessageType = "Ready"
	TypeRequestHit      MessageType = "RequestHit"
	TypeHit             MessageType = "Hit"
	TypeMiss            MessageType = "Miss"
	TypeShipSunk        MessageType = "ShipSunk"
	TypeGameEnd         MessageType = "GameEnd"
	TypeEndGameManually MessageType = "EndGameManually"

	// Sent by the relay to the peer that opened a room.
	// Never forwarded to the match session.
	TypeRoomAssigned MessageType = "RoomAssigned"
)

// Envelope is the wire form of every message. Payload is left
// out for messages that carry nothing.
type Envelope[T any] struct {
	Type    MessageType `json:"type" msgpack:"type"`
	Payload T           `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

func NewEnvelope[T any](msgType MessageType) Envelope[T] {
	return Envelope[T]{Type: msgType}
}

func (e *Envelope[T]) AddPayload(payload T) {
	e.Payload = payload
}
