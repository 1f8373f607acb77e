package connection

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// Codec turns messages into websocket frames and back. Both peers
// and the relay must use the same codec.
type Codec interface {
	Name() string
	// websocket.TextMessage or websocket.BinaryMessage
	FrameType() int
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

func CodecByName(name string) (Codec, error) {
	switch name {
	case "", CodecNameJSON:
		return NewJSONCodec(), nil
	case CodecNameMsgpack:
		return NewMsgpackCodec(), nil
	default:
		return nil, cerr.ErrInvalidCodec(name)
	}
}

var (
	payloadValidate   = validator.New()
	errMissingPayload = errors.New("payload is missing")
)

// payloadKeys is decoded next to the message itself to tell an
// absent key from a zero value.
type payloadKeys struct {
	X     *int `json:"x" msgpack:"x" validate:"required"`
	Y     *int `json:"y" msgpack:"y" validate:"required"`
	Index *int `json:"index" msgpack:"index" validate:"required"`
}

// Implemented by messages whose payload fields have no usable
// default; a coordinate left out must not turn into A1.
type keyedPayload interface {
	requiredKeys() []string
}

type JSONCodec struct{}

var _ Codec = JSONCodec{}

func NewJSONCodec() JSONCodec {
	return JSONCodec{}
}

func (JSONCodec) Name() string   { return CodecNameJSON }
func (JSONCodec) FrameType() int { return websocket.TextMessage }

func (JSONCodec) Encode(msg Message) ([]byte, error) {
	env := NewEnvelope[any](msg.Type())
	env.AddPayload(payloadOf(msg))
	return json.Marshal(env)
}

func (JSONCodec) Decode(data []byte) (Message, error) {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, cerr.ErrMalformedPayload("envelope", err)
	}

	raw := []byte(env.Payload)
	if string(raw) == "null" {
		raw = nil
	}
	return decodePayload(env.Type, raw, json.Unmarshal)
}

type MsgpackCodec struct{}

var _ Codec = MsgpackCodec{}

func NewMsgpackCodec() MsgpackCodec {
	return MsgpackCodec{}
}

func (MsgpackCodec) Name() string   { return CodecNameMsgpack }
func (MsgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (MsgpackCodec) Encode(msg Message) ([]byte, error) {
	env := NewEnvelope[any](msg.Type())
	env.AddPayload(payloadOf(msg))
	return msgpack.Marshal(&env)
}

func (MsgpackCodec) Decode(data []byte) (Message, error) {
	var env Envelope[msgpack.RawMessage]
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, cerr.ErrMalformedPayload("envelope", err)
	}

	raw := []byte(env.Payload)
	// msgpack nil
	if len(raw) == 1 && raw[0] == 0xc0 {
		raw = nil
	}
	return decodePayload(env.Type, raw, msgpack.Unmarshal)
}

// nil for messages without a payload so the field is omitted
func payloadOf(msg Message) any {
	switch m := msg.(type) {
	case Connected, EndGameManually:
		return nil
	case Ready:
		if !m.First {
			return nil
		}
		return m
	case GameEnd:
		if !m.Detailed() {
			return nil
		}
		return m
	default:
		return msg
	}
}

type unmarshalFunc func(data []byte, v any) error

func decodePayload(msgType MessageType, raw []byte, unmarshal unmarshalFunc) (Message, error) {
	switch msgType {
	case TypeConnected:
		return decodeInto[Connected](raw, unmarshal)
	case TypeReady:
		return decodeInto[Ready](raw, unmarshal)
	case TypeRequestHit:
		return decodeInto[RequestHit](raw, unmarshal)
	case TypeHit:
		return decodeInto[Hit](raw, unmarshal)
	case TypeMiss:
		return decodeInto[Miss](raw, unmarshal)
	case TypeShipSunk:
		return decodeInto[ShipSunk](raw, unmarshal)
	case TypeGameEnd:
		return decodeInto[GameEnd](raw, unmarshal)
	case TypeEndGameManually:
		return decodeInto[EndGameManually](raw, unmarshal)
	case TypeRoomAssigned:
		return decodeInto[RoomAssigned](raw, unmarshal)
	default:
		return nil, cerr.ErrUnknownMessageType(string(msgType))
	}
}

func decodeInto[T Message](raw []byte, unmarshal unmarshalFunc) (Message, error) {
	var msg T
	if len(raw) > 0 {
		if err := unmarshal(raw, &msg); err != nil {
			return nil, cerr.ErrMalformedPayload(string(msg.Type()), err)
		}
	}
	if kp, ok := any(msg).(keyedPayload); ok {
		if err := checkKeys(raw, unmarshal, kp.requiredKeys()); err != nil {
			return nil, cerr.ErrMalformedPayload(string(msg.Type()), err)
		}
	}
	if err := validate(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func checkKeys(raw []byte, unmarshal unmarshalFunc, fields []string) error {
	if len(raw) == 0 {
		return errMissingPayload
	}
	var keys payloadKeys
	if err := unmarshal(raw, &keys); err != nil {
		return err
	}
	return payloadValidate.StructPartial(keys, fields...)
}
