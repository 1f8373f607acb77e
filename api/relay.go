package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/saeidalz13/ocean-storm/models/connection"
)

const rejectDeadline = time.Second

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		http.Error(w, "could not open websocket connection", http.StatusBadRequest)
		return
	}
	localAddr := conn.LocalAddr().String()

	var (
		room    *connection.Room
		session *connection.Session
	)

	roomIdQuery := r.URL.Query().Get(connection.URLQueryRoomKeyword)
	switch roomIdQuery {
	case "":
		room, session = s.RoomManager.CreateRoom(conn)
		log.Printf("room %s opened\tRemote Addr: %s", room.Id(), conn.RemoteAddr().String())

		if err := s.writeMessage(session, connection.RoomAssigned{RoomID: room.Id()}); err != nil {
			s.RoomManager.Leave(room.Id(), session.Id())
			_ = conn.Close()
			return
		}
		s.record(eventRoomCreated, localAddr)

	default:
		room, session, err = s.RoomManager.JoinRoom(roomIdQuery, conn)
		if err != nil {
			log.Println("join rejected:", err)
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
				time.Now().Add(rejectDeadline),
			)
			_ = conn.Close()
			return
		}
		log.Printf("room %s full\tRemote Addr: %s", room.Id(), conn.RemoteAddr().String())

		if !s.announceConnected(room.Id(), session) {
			s.leave(room.Id(), session)
			return
		}
		s.record(eventMatchPaired, localAddr)
	}

	s.relay(room.Id(), session)
}

// Both peers learn at the same time that the other one is there.
func (s *Server) announceConnected(roomID string, session *connection.Session) bool {
	partner, err := s.RoomManager.Partner(roomID, session.Id())
	if err != nil {
		log.Println(err)
		return false
	}

	for _, peer := range []*connection.Session{partner, session} {
		if err := s.writeMessage(peer, connection.Connected{}); err != nil {
			return false
		}
	}
	return true
}

// relay forwards every frame of session to its partner until the
// connection breaks. Frames sent before a partner joined are dropped.
func (s *Server) relay(roomID string, session *connection.Session) {
	defer s.leave(roomID, session)

	for {
		payload, err := session.ReadFrame()
		if err != nil {
			var connErr connection.ConnErr
			if errors.As(err, &connErr) && connErr.Code() == connection.ConnInvalidFrame {
				log.Println("skipping frame:", err)
				continue
			}
			return
		}

		if err := s.RoomManager.Communicate(roomID, session.Id(), payload); err != nil {
			log.Println("frame not forwarded:", err)
		}
	}
}

// Whoever stays behind is disconnected too; their client treats it
// as a transport failure.
func (s *Server) leave(roomID string, session *connection.Session) {
	if partner := s.RoomManager.Leave(roomID, session.Id()); partner != nil {
		_ = partner.Close(websocket.CloseGoingAway, "opponent left")
	}
	_ = session.Conn().Close()
	log.Printf("session left room %s\tRemote Addr: %s", roomID, session.Conn().RemoteAddr().String())
}

func (s *Server) writeMessage(session *connection.Session, msg connection.Message) error {
	data, err := s.codec.Encode(msg)
	if err != nil {
		return err
	}
	return session.WriteFrame(data)
}
