package connection

import (
	"context"
	"errors"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

const (
	URLQueryRoomKeyword string = "room"

	handshakeTimeout time.Duration = time.Second * 5
)

// Transport carries messages between the two peers of a match.
// Handlers are called from the transport's own goroutine, one
// message at a time and in send order. Send never waits for
// the other peer.
type Transport interface {
	Open(ctx context.Context) error
	OnMessage(handler func(Message))
	// Called once when the link fails or the other side leaves.
	// Not called after a local Close.
	OnClose(handler func(error))
	Send(msg Message) error
	Close() error
}

// WsTransport connects to the relay. An empty room id asks the
// relay to open a new room; the id is then reported through
// OnRoomAssigned.
type WsTransport struct {
	relayURL string
	roomID   string
	codec    Codec
	dialer   websocket.Dialer
	session  *Session

	mu        sync.Mutex
	closed    bool
	onMessage func(Message)
	onClose   func(error)
	onRoom    func(string)
}

var _ Transport = (*WsTransport)(nil)

func NewWsTransport(relayURL, roomID string, codec Codec) *WsTransport {
	return &WsTransport{
		relayURL: relayURL,
		roomID:   roomID,
		codec:    codec,
		dialer: websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   2048,
			WriteBufferSize:  2048,
		},
	}
}

func (t *WsTransport) Open(ctx context.Context) error {
	u, err := url.Parse(t.relayURL)
	if err != nil {
		return err
	}
	if t.roomID != "" {
		q := u.Query()
		q.Set(URLQueryRoomKeyword, t.roomID)
		u.RawQuery = q.Encode()
	}

	conn, _, err := t.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return err
	}
	t.session = NewSession(t.roomID, conn, t.codec.FrameType())

	log.Println("connected to relay:", conn.RemoteAddr().String())
	go t.readLoop()
	return nil
}

func (t *WsTransport) OnMessage(handler func(Message)) {
	t.mu.Lock()
	t.onMessage = handler
	t.mu.Unlock()
}

func (t *WsTransport) OnClose(handler func(error)) {
	t.mu.Lock()
	t.onClose = handler
	t.mu.Unlock()
}

func (t *WsTransport) OnRoomAssigned(handler func(roomID string)) {
	t.mu.Lock()
	t.onRoom = handler
	t.mu.Unlock()
}

func (t *WsTransport) RoomID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roomID
}

func (t *WsTransport) Send(msg Message) error {
	t.mu.Lock()
	closed := t.closed || t.session == nil
	t.mu.Unlock()
	if closed {
		return cerr.ErrTransportClosed
	}

	data, err := t.codec.Encode(msg)
	if err != nil {
		return err
	}
	return t.session.WriteFrame(data)
}

func (t *WsTransport) Close() error {
	t.mu.Lock()
	if t.closed || t.session == nil {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	return t.session.Close(websocket.CloseNormalClosure, "match left")
}

func (t *WsTransport) readLoop() {
	for {
		data, err := t.session.ReadFrame()
		if err != nil {
			var connErr ConnErr
			if errors.As(err, &connErr) && connErr.Code() == ConnInvalidFrame {
				log.Println("skipping frame:", err)
				continue
			}
			t.finish(err)
			return
		}

		msg, err := t.codec.Decode(data)
		if err != nil {
			log.Println("dropping inbound frame:", err)
			continue
		}

		if room, ok := msg.(RoomAssigned); ok {
			t.mu.Lock()
			t.roomID = room.RoomID
			handler := t.onRoom
			t.mu.Unlock()

			log.Println("room assigned:", room.RoomID)
			if handler != nil {
				handler(room.RoomID)
			}
			continue
		}

		t.mu.Lock()
		handler := t.onMessage
		t.mu.Unlock()
		if handler != nil {
			handler(msg)
		}
	}
}

func (t *WsTransport) finish(err error) {
	t.mu.Lock()
	wasClosed := t.closed
	t.closed = true
	handler := t.onClose
	t.mu.Unlock()

	if wasClosed {
		return
	}
	_ = t.session.Conn().Close()
	if handler != nil {
		handler(err)
	}
}
