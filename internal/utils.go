package internal

import (
	"encoding/base64"

	"github.com/google/uuid"
)

const roomIDLength = 6

// Short enough to read out to the other player
func NewRoomID() string {
	return uuid.NewString()[:roomIDLength]
}

// URL compatible session id
func NewSessionID() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
}
