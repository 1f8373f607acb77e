package connection

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/saeidalz13/ocean-storm/internal"
	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

const defaultCleanupInterval = time.Minute * 20

type RoomManager interface {
	CreateRoom(conn *websocket.Conn) (*Room, *Session)
	JoinRoom(roomID string, conn *websocket.Conn) (*Room, *Session, error)
	FindRoom(roomID string) (*Room, error)
	Partner(roomID, sessionID string) (*Session, error)
	Communicate(roomID, senderID string, data []byte) error
	Leave(roomID, sessionID string) *Session
	CleanupPeriodically(ctx context.Context)
}

// Room pairs the peer that opened it with the one that joined.
type Room struct {
	id        string
	host      *Session
	guest     *Session
	createdAt time.Time
}

func (r *Room) Id() string {
	return r.id
}

func (r *Room) IsFull() bool {
	return r.host != nil && r.guest != nil
}

type RelayRoomManager struct {
	cleanupInterval time.Duration
	frameType       int
	rooms           map[string]*Room
	mu              sync.RWMutex
}

var _ RoomManager = (*RelayRoomManager)(nil)

func NewRelayRoomManager(frameType int) *RelayRoomManager {
	initMapSize := 10

	return &RelayRoomManager{
		cleanupInterval: defaultCleanupInterval,
		frameType:       frameType,
		rooms:           make(map[string]*Room, initMapSize),
	}
}

func (rm *RelayRoomManager) SetCleanupInterval(interval time.Duration) {
	rm.cleanupInterval = interval
}

func (rm *RelayRoomManager) CreateRoom(conn *websocket.Conn) (*Room, *Session) {
	host := NewSession(internal.NewSessionID(), conn, rm.frameType)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	roomID := internal.NewRoomID()
	for _, taken := rm.rooms[roomID]; taken; _, taken = rm.rooms[roomID] {
		roomID = internal.NewRoomID()
	}

	room := &Room{id: roomID, host: host, createdAt: time.Now()}
	rm.rooms[roomID] = room
	return room, host
}

func (rm *RelayRoomManager) JoinRoom(roomID string, conn *websocket.Conn) (*Room, *Session, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, prs := rm.rooms[roomID]
	if !prs {
		return nil, nil, cerr.ErrRoomNotExists(roomID)
	}
	if room.IsFull() {
		return nil, nil, cerr.ErrRoomAlreadyFull(roomID)
	}

	room.guest = NewSession(internal.NewSessionID(), conn, rm.frameType)
	return room, room.guest, nil
}

func (rm *RelayRoomManager) FindRoom(roomID string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, prs := rm.rooms[roomID]
	if !prs {
		return nil, cerr.ErrRoomNotExists(roomID)
	}
	return room, nil
}

// Partner returns the other session of the room, or an error
// while the room is still waiting for its second peer.
func (rm *RelayRoomManager) Partner(roomID, sessionID string) (*Session, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, prs := rm.rooms[roomID]
	if !prs {
		return nil, cerr.ErrRoomNotExists(roomID)
	}

	var partner *Session
	switch sessionID {
	case room.host.Id():
		partner = room.guest
	case idOf(room.guest):
		partner = room.host
	}
	if partner == nil {
		return nil, fmt.Errorf("no partner in room %s for session %s", roomID, sessionID)
	}
	return partner, nil
}

// Communicate forwards an already encoded frame to the partner
// of the sender without looking into it.
func (rm *RelayRoomManager) Communicate(roomID, senderID string, data []byte) error {
	partner, err := rm.Partner(roomID, senderID)
	if err != nil {
		return err
	}
	return partner.WriteFrame(data)
}

// Leave tears the whole room down and returns the session left
// behind, if any, so the caller can close it.
func (rm *RelayRoomManager) Leave(roomID, sessionID string) *Session {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, prs := rm.rooms[roomID]
	if !prs {
		return nil
	}
	delete(rm.rooms, roomID)

	switch sessionID {
	case room.host.Id():
		return room.guest
	case idOf(room.guest):
		return room.host
	}
	return nil
}

func (rm *RelayRoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// To ensure that there are no dangling rooms, rooms still waiting
// for a second peer after the cleanup interval are dropped and
// their host connection closed.
func (rm *RelayRoomManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(rm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.cleanup()
		}
	}
}

func (rm *RelayRoomManager) cleanup() {
	assumedStaleRooms := 10
	stale := make([]*Room, 0, assumedStaleRooms)

	rm.mu.Lock()
	for id, room := range rm.rooms {
		if !room.IsFull() && time.Since(room.createdAt) > rm.cleanupInterval {
			stale = append(stale, room)
			delete(rm.rooms, id)
		}
	}
	rm.mu.Unlock()

	for _, room := range stale {
		_ = room.host.Close(websocket.CloseGoingAway, "room expired")
		log.Printf("removed stale room: %s", room.id)
	}
}

func idOf(s *Session) string {
	if s == nil {
		return ""
	}
	return s.Id()
}
