package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/ocean-storm/db/sqlc"
	"github.com/saeidalz13/ocean-storm/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	RelayPath = "/relay"

	defaultPort = 8000
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	// probably more that enough but this is a good average size
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the relay that stands between two players. It pairs
// them in a room and passes frames along without decoding them,
// apart from the few control messages it writes itself.
type Server struct {
	port        int
	stage       string
	codec       connection.Codec
	analytics   *sqlc.AnalyticsManager
	RoomManager connection.RoomManager
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:  defaultPort,
		stage: StageDev,
		codec: connection.NewJSONCodec(),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	if server.RoomManager == nil {
		server.RoomManager = connection.NewRelayRoomManager(server.codec.FrameType())
	}
	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

// Analytics are skipped when no database is given.
func WithDb(db *sql.DB) Option {
	return func(s *Server) error {
		if db == nil {
			return errors.New("db cannot be nil")
		}
		s.analytics = sqlc.NewAnalyticsManager(sqlc.New(db))
		return nil
	}
}

func WithCodec(codec connection.Codec) Option {
	return func(s *Server) error {
		if codec == nil {
			return errors.New("codec cannot be nil")
		}
		s.codec = codec
		return nil
	}
}

func WithRoomManager(rm connection.RoomManager) Option {
	return func(s *Server) error {
		s.RoomManager = rm
		return nil
	}
}

func (s *Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.port)
}

func (s *Server) Stage() string {
	return s.stage
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET "+RelayPath, s)
	return mux
}

// ListenAndServe runs the relay until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.Addr(),
		Handler: s.Mux(),
	}

	go s.RoomManager.CleanupPeriodically(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening to port %d (stage: %s, codec: %s)\n", s.port, s.stage, s.codec.Name())
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) getServerIpNet(localAddr string) (net.IPNet, error) {
	host, _, err := net.SplitHostPort(localAddr)
	if err != nil {
		log.Println("failed to extract host from local addr")
		return net.IPNet{}, err
	}

	parsedIP := net.ParseIP(host)
	if parsedIP == nil {
		return net.IPNet{}, fmt.Errorf("invalid server ip: %s", host)
	}

	bits := 128
	if parsedIP.To4() != nil {
		bits = 32
	}
	return net.IPNet{
		IP:   parsedIP,
		Mask: net.CIDRMask(bits, bits),
	}, nil
}

type analyticsEvent uint8

const (
	eventRoomCreated analyticsEvent = iota
	eventMatchPaired
)

// Analytics never hold up a match; failures are only logged.
func (s *Server) record(event analyticsEvent, localAddr string) {
	if s.analytics == nil {
		return
	}

	ipNet, err := s.getServerIpNet(localAddr)
	if err != nil {
		log.Println(err)
		return
	}
	serverInet := pqtype.Inet{IPNet: ipNet, Valid: true}

	switch event {
	case eventRoomCreated:
		err = s.analytics.IncrementRoomsCreatedCount(context.Background(), serverInet)
	case eventMatchPaired:
		err = s.analytics.IncrementMatchesPairedCount(context.Background(), serverInet)
	}
	if err != nil {
		log.Println("analytics:", err)
	}
}
