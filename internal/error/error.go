package error

import (
	"errors"
	"fmt"
)

var (
	ErrPlacementConflict = errors.New("ship placement conflict")
	ErrOutOfGridBound    = errors.New("coordinates out of grid bound")
	ErrInvalidShipShape  = errors.New("invalid ship shape")
	ErrShipNotExists     = errors.New("ship does not exist")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrTransportClosed   = errors.New("transport is closed")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
)

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfGridBound, x, y)
}

func ErrPlacementOutOfBound(x, y int) error {
	return fmt.Errorf("%w: %w\tx: %d\ty: %d", ErrPlacementConflict, ErrOutOfGridBound, x, y)
}

func ErrPositionAlreadyTaken(x, y, owner int) error {
	return fmt.Errorf("%w: position already taken by ship %d\tx: %d\ty: %d", ErrPlacementConflict, owner, x, y)
}

func ErrShipIndexNotExists(index int) error {
	return fmt.Errorf("%w, index: %d", ErrShipNotExists, index)
}

func ErrShipShape(desc string) error {
	return fmt.Errorf("%w: %s", ErrInvalidShipShape, desc)
}

func ErrShipLengthMismatch(expected, got int) error {
	return fmt.Errorf("%w: expected %d positions, got %d", ErrInvalidShipShape, expected, got)
}

func ErrUnknownMessageType(msgType string) error {
	return fmt.Errorf("%w: unknown message type %q", ErrProtocolViolation, msgType)
}

func ErrMalformedPayload(msgType string, err error) error {
	return fmt.Errorf("%w: malformed %s payload: %v", ErrProtocolViolation, msgType, err)
}

func ErrUnexpectedInPhase(msgType, phase string) error {
	return fmt.Errorf("%w: %s is not expected in phase %s", ErrProtocolViolation, msgType, phase)
}

func ErrRoomNotExists(roomID string) error {
	return fmt.Errorf("%w, room id: %s", ErrRoomNotFound, roomID)
}

func ErrRoomAlreadyFull(roomID string) error {
	return fmt.Errorf("%w, room id: %s", ErrRoomFull, roomID)
}

func ErrInvalidCodec(name string) error {
	return fmt.Errorf("invalid codec name: %s", name)
}
