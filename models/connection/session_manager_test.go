package connection

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

// Returns the server side of freshly dialed websocket connections.
func newConnPair(t *testing.T) func() (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 4)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return func() (*websocket.Conn, *websocket.Conn) {
		client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { client.Close() })
		return <-serverConns, client
	}
}

func TestRelayRoomManager(t *testing.T) {
	dial := newConnPair(t)
	rm := NewRelayRoomManager(websocket.TextMessage)

	hostServer, _ := dial()
	room, host := rm.CreateRoom(hostServer)
	if room.IsFull() {
		t.Fatal("room should wait for a guest")
	}
	if len(room.Id()) != 6 {
		t.Fatalf("expected room id of length 6\tgot: %q", room.Id())
	}

	if _, err := rm.Partner(room.Id(), host.Id()); err == nil {
		t.Fatal("host should not have a partner yet")
	}
	if _, _, err := rm.JoinRoom("nope", nil); !errors.Is(err, cerr.ErrRoomNotFound) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrRoomNotFound, err)
	}

	guestServer, guestClient := dial()
	_, guest, err := rm.JoinRoom(room.Id(), guestServer)
	if err != nil {
		t.Fatal(err)
	}
	if !room.IsFull() {
		t.Fatal("room should be full after join")
	}

	if _, _, err := rm.JoinRoom(room.Id(), nil); !errors.Is(err, cerr.ErrRoomFull) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrRoomFull, err)
	}

	partner, err := rm.Partner(room.Id(), guest.Id())
	if err != nil {
		t.Fatal(err)
	}
	if partner != host {
		t.Fatal("guest partner should be the host")
	}

	t.Run("communicate forwards frames untouched", func(t *testing.T) {
		frame := []byte(`{"type":"Ready"}`)
		if err := rm.Communicate(room.Id(), host.Id(), frame); err != nil {
			t.Fatal(err)
		}

		_ = guestClient.SetReadDeadline(time.Now().Add(time.Second * 2))
		frameType, data, err := guestClient.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		if frameType != websocket.TextMessage || string(data) != string(frame) {
			t.Fatalf("expected: %s\tgot: %s (%d)", frame, data, frameType)
		}
	})

	t.Run("leave tears down the room", func(t *testing.T) {
		left := rm.Leave(room.Id(), host.Id())
		if left != guest {
			t.Fatal("leave should hand back the guest")
		}
		if rm.RoomCount() != 0 {
			t.Fatalf("expected 0 rooms\tgot: %d", rm.RoomCount())
		}
		if _, err := rm.FindRoom(room.Id()); !errors.Is(err, cerr.ErrRoomNotFound) {
			t.Fatalf("expected err: %v\tgot: %v", cerr.ErrRoomNotFound, err)
		}
		if left := rm.Leave(room.Id(), guest.Id()); left != nil {
			t.Fatal("second leave should be a no-op")
		}
	})
}

func TestRelayRoomManagerCleanup(t *testing.T) {
	dial := newConnPair(t)
	rm := NewRelayRoomManager(websocket.TextMessage)
	rm.SetCleanupInterval(time.Millisecond)

	hostServer, hostClient := dial()
	room, _ := rm.CreateRoom(hostServer)

	time.Sleep(time.Millisecond * 5)
	rm.cleanup()

	if _, err := rm.FindRoom(room.Id()); !errors.Is(err, cerr.ErrRoomNotFound) {
		t.Fatalf("expected stale room to be removed\tgot: %v", err)
	}

	_ = hostClient.SetReadDeadline(time.Now().Add(time.Second * 2))
	_, _, err := hostClient.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going away close\tgot: %v", err)
	}
}
