package connection

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxWsRetries  uint8         = 2
	backOffFactor uint8         = 2
	closeDeadline time.Duration = time.Second
)

// Session wraps one websocket connection, on either side of the
// relay. Writes are serialized; reads must come from one goroutine.
type Session struct {
	id        string
	conn      *websocket.Conn
	frameType int
	createdAt time.Time
	mu        sync.Mutex
}

func NewSession(id string, conn *websocket.Conn, frameType int) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		frameType: frameType,
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	return s.conn
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) remoteAddr() string {
	return s.conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry
	}

	// No reconnection support; the match resets instead
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Println("abnormal closure error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	/*
		CloseUnsupportedData (1003) and CloseInvalidFramePayloadData (1007)
		mean the other side is not speaking our codec. Nothing to retry.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

// WriteFrame writes one encoded message and retries transient
// failures with a linear backoff.
func (s *Session) WriteFrame(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var retries uint8

	for {
		err := s.conn.WriteMessage(s.frameType, data)
		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWsRetries {
				retries++
				log.Printf("writing frame failed to ws [%s]; retrying... (retry no. %d)\n", s.remoteAddr(), retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue
			}
			log.Printf("max retries reached for writing to ws [%s]:%s", s.remoteAddr(), err)
			return NewConnErr(ConnLoopBreak).AddDesc(err.Error())

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop due to: " + err.Error())
		}
	}
}

// ReadFrame blocks for the next data frame. Frames of the wrong
// kind are reported with ConnInvalidFrame and can be skipped.
func (s *Session) ReadFrame() ([]byte, error) {
	var retries uint8

	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		frameType, payload, err := s.conn.ReadMessage()
		if err == nil {
			if frameType != s.frameType {
				return nil, NewConnErr(ConnInvalidFrame).AddDesc("unexpected frame type")
			}
			return payload, nil
		}

		switch s.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		default:
			return nil, NewConnErr(ConnLoopBreak).AddDesc(err.Error())
		}
	}
}

func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopRetry:
		if retries < maxWsRetries {
			log.Printf("failed to read from ws conn [%s]; retrying... (retry no. %d)\n", s.remoteAddr(), retries)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		log.Printf("break ws conn loop [%s] due to: %s\n", s.remoteAddr(), err)
		return ConnLoopBreak
	}
}

// Close sends a close frame with the given code before dropping
// the connection. Safe to call more than once.
func (s *Session) Close(code int, reason string) error {
	s.mu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(closeDeadline))
	s.mu.Unlock()

	return s.conn.Close()
}
