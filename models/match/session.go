package match

import (
	"errors"
	"log"
	"math/rand"
	"time"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
	mb "github.com/saeidalz13/ocean-storm/models/battleship"
	"github.com/saeidalz13/ocean-storm/models/connection"
)

type Option func(*Session) error

// Fleet placement draws from rng. Handy for reproducible games.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) error {
		if rng == nil {
			return errors.New("rng cannot be nil")
		}
		s.rng = rng
		return nil
	}
}

func WithFleetSizes(sizes []int) Option {
	return func(s *Session) error {
		if len(sizes) == 0 {
			return errors.New("fleet must have at least one ship")
		}
		s.fleetSizes = sizes
		return nil
	}
}

// WithBoard starts the first match on a hand-placed board instead
// of a random one. Resets still draw a random fleet.
func WithBoard(board *mb.Board) Option {
	return func(s *Session) error {
		if board == nil || board.ShipCount() == 0 {
			return errors.New("board must hold at least one ship")
		}
		s.board = board
		return nil
	}
}

// The host breaks the tie when both Ready messages cross on the
// wire. Exactly one side of a match should be the host.
func WithHost(host bool) Option {
	return func(s *Session) error {
		s.host = host
		return nil
	}
}

// Session is one player's side of a match. It owns the local board,
// talks to the opponent only through the transport and tells the
// renderer what changed. It is not safe for concurrent use; a Loop
// serializes every call into it.
type Session struct {
	transport  connection.Transport
	renderer   Renderer
	rng        *rand.Rand
	fleetSizes []int
	host       bool

	board  *mb.Board
	shadow *mb.ShadowBoard
	phase  Phase
	result Result

	connected     bool
	localReady    bool
	opponentReady bool
	// Ready is sent once the transport reports Connected
	readyPending bool

	// Opponent already set up the next match while ours was over
	rematchReady bool

	// Set between sending RequestHit and receiving its outcome
	awaitingOutcome bool
	lastTarget      mb.Coordinates
}

func NewSession(transport connection.Transport, renderer Renderer, opts ...Option) (*Session, error) {
	if transport == nil {
		return nil, errors.New("transport cannot be nil")
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}

	s := &Session{
		transport:  transport,
		renderer:   renderer,
		fleetSizes: mb.StandardFleetSizes,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if s.board == nil {
		board, err := mb.RandomFleet(s.rng, s.fleetSizes)
		if err != nil {
			return nil, err
		}
		s.board = board
	}
	s.shadow = mb.NewShadowBoard()
	s.redraw()
	return s, nil
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Result() Result {
	return s.result
}

func (s *Session) Board() *mb.Board {
	return s.board
}

func (s *Session) Shadow() *mb.ShadowBoard {
	return s.shadow
}

func (s *Session) Connected() bool {
	return s.connected
}

func (s *Session) OpponentReady() bool {
	return s.opponentReady
}

// RelocateShip moves a ship while the fleet is still being set up.
func (s *Session) RelocateShip(index int, positions []mb.Coordinates) bool {
	if s.phase != PhaseSettingUpFleet {
		return false
	}

	ship, err := s.board.Ship(index)
	if err != nil {
		log.Println("relocate rejected:", err)
		return false
	}
	old := ship.Positions()

	if err := s.board.RelocateShip(index, positions); err != nil {
		log.Println("relocate rejected:", err)
		return false
	}
	s.redrawShip(index, old)
	return true
}

func (s *Session) RotateShip(index int) bool {
	if s.phase != PhaseSettingUpFleet {
		return false
	}

	ship, err := s.board.Ship(index)
	if err != nil {
		log.Println("rotate rejected:", err)
		return false
	}
	old := ship.Positions()

	if err := s.board.RotateShip(index); err != nil {
		log.Println("rotate rejected:", err)
		return false
	}
	s.redrawShip(index, old)
	return true
}

// FinishSetup locks the fleet in. Whoever finishes second moves
// first.
func (s *Session) FinishSetup() bool {
	if s.phase != PhaseSettingUpFleet {
		return false
	}
	s.localReady = true

	if s.connected {
		s.send(connection.Ready{First: s.opponentReady})
	} else {
		s.readyPending = true
	}

	if s.opponentReady {
		s.setPhase(PhaseAwaitingOwnTurn)
	} else {
		s.setPhase(PhaseWaitingForOpponentReady)
	}
	return true
}

// RequestHit fires at the opponent. Only allowed on our own turn;
// anything else is rejected without touching either board.
func (s *Session) RequestHit(target mb.Coordinates) bool {
	if s.phase != PhaseAwaitingOwnTurn {
		return false
	}
	if _, err := mb.NewCoordinates(int(target.X), int(target.Y)); err != nil {
		return false
	}

	if !s.send(connection.NewRequestHit(target)) {
		return false
	}
	s.awaitingOutcome = true
	s.lastTarget = target
	s.setPhase(PhaseAwaitingOpponentTurn)
	return true
}

// HandleMessage applies one inbound message. Messages that make no
// sense in the current phase are logged and dropped.
func (s *Session) HandleMessage(msg connection.Message) {
	var err error

	switch m := msg.(type) {
	case connection.Connected:
		s.onConnected()
	case connection.Ready:
		err = s.onReady(m)
	case connection.RequestHit:
		err = s.onRequestHit(m)
	case connection.Hit, connection.Miss, connection.ShipSunk:
		err = s.onOutcome(m.(connection.OutcomeMessage))
	case connection.GameEnd:
		err = s.onGameEnd(m)
	case connection.EndGameManually:
		log.Println("opponent ended the game")
		s.abandon()
	case connection.RoomAssigned:
		log.Println("room assigned:", m.RoomID)
	default:
		err = cerr.ErrUnknownMessageType(string(msg.Type()))
	}

	if err != nil {
		log.Println("ignoring message:", err)
	}
}

// HandleTransportFailure puts the session back into setup. There is
// no reconnection.
func (s *Session) HandleTransportFailure(err error) {
	log.Println("transport failure:", err)
	s.connected = false
	s.abandon()
}

// EndManually tells the opponent we are leaving, resets and closes
// the transport.
func (s *Session) EndManually() bool {
	if s.connected {
		s.send(connection.EndGameManually{})
	}
	s.abandon()
	s.connected = false

	if err := s.transport.Close(); err != nil {
		log.Println("closing transport:", err)
	}
	return true
}

// Reset starts over with a new random fleet and an empty picture of
// the opponent. The transport is kept. A match under way has to be
// ended with EndManually instead.
func (s *Session) Reset() bool {
	if s.phase != PhaseSettingUpFleet && s.phase != PhaseGameEnded {
		return false
	}
	return s.reset()
}

func (s *Session) reset() bool {
	board, err := mb.RandomFleet(s.rng, s.fleetSizes)
	if err != nil {
		log.Println("reset failed:", err)
		return false
	}

	s.board = board
	s.shadow = mb.NewShadowBoard()
	s.result = ResultNone
	s.localReady = false
	s.opponentReady = s.phase == PhaseGameEnded && s.rematchReady
	s.rematchReady = false
	s.readyPending = false
	s.awaitingOutcome = false
	s.phase = PhaseSettingUpFleet
	s.redraw()
	return true
}

func (s *Session) onConnected() {
	s.connected = true
	if s.readyPending {
		s.readyPending = false
		s.send(connection.Ready{First: s.opponentReady})
	}
}

func (s *Session) onReady(m connection.Ready) error {
	switch s.phase {
	case PhaseSettingUpFleet:
		s.opponentReady = true
	case PhaseWaitingForOpponentReady:
		s.opponentReady = true
		// neither side saw the other's Ready before sending its own
		if !m.First && s.host {
			s.setPhase(PhaseAwaitingOwnTurn)
		} else {
			s.setPhase(PhaseAwaitingOpponentTurn)
		}
	case PhaseGameEnded:
		s.rematchReady = true
	default:
		return cerr.ErrUnexpectedInPhase(string(connection.TypeReady), s.phase.String())
	}
	return nil
}

func (s *Session) onRequestHit(m connection.RequestHit) error {
	if s.phase != PhaseAwaitingOpponentTurn {
		return cerr.ErrUnexpectedInPhase(string(m.Type()), s.phase.String())
	}

	target, err := m.Coordinates()
	if err != nil {
		return cerr.ErrMalformedPayload(string(m.Type()), err)
	}
	outcome, err := mb.ResolveShot(s.board, target)
	if err != nil {
		return cerr.ErrMalformedPayload(string(m.Type()), err)
	}

	s.drawOutcome(SideOwn, outcome)
	s.send(connection.NewOutcomeMessage(outcome))

	if outcome.Kind == mb.OutcomeGameEnd {
		s.finish(ResultLost)
		return nil
	}
	s.setPhase(PhaseAwaitingOwnTurn)
	return nil
}

func (s *Session) onOutcome(m connection.OutcomeMessage) error {
	if !s.awaitingOutcome {
		return cerr.ErrUnexpectedInPhase(string(m.Type()), s.phase.String())
	}

	outcome, err := m.Outcome()
	if err != nil {
		return cerr.ErrMalformedPayload(string(m.Type()), err)
	}
	if outcome.Kind == mb.OutcomeSunk {
		outcome.Target = s.lastTarget
	}
	if err := s.shadow.Apply(outcome); err != nil {
		return cerr.ErrMalformedPayload(string(m.Type()), err)
	}

	s.awaitingOutcome = false
	s.drawOutcome(SideOpponent, outcome)
	return nil
}

func (s *Session) onGameEnd(m connection.GameEnd) error {
	if !s.awaitingOutcome {
		return cerr.ErrUnexpectedInPhase(string(m.Type()), s.phase.String())
	}

	outcome, err := m.Outcome()
	if err != nil {
		return cerr.ErrMalformedPayload(string(m.Type()), err)
	}
	if !m.Detailed() {
		outcome.Target = s.lastTarget
	}
	if err := s.shadow.Apply(outcome); err != nil {
		return cerr.ErrMalformedPayload(string(m.Type()), err)
	}

	s.awaitingOutcome = false
	s.drawOutcome(SideOpponent, outcome)
	s.finish(ResultWon)
	return nil
}

// Reports the match as abandoned if one was under way, then resets.
// A fleet still being set up is left as it is.
func (s *Session) abandon() {
	s.rematchReady = false
	if s.phase == PhaseSettingUpFleet {
		s.opponentReady = false
		return
	}

	underWay := s.phase != PhaseGameEnded
	s.reset()

	if underWay {
		s.result = ResultAbandoned
		s.renderer.AnnounceResult(ResultAbandoned)
	}
}

func (s *Session) finish(result Result) {
	s.result = result
	s.setPhase(PhaseGameEnded)
	s.renderer.AnnounceResult(result)
}

// Sends are fire-and-forget. A failing link is reported separately
// through the transport's close handler.
func (s *Session) send(msg connection.Message) bool {
	if err := s.transport.Send(msg); err != nil {
		log.Printf("failed to send %s: %s", msg.Type(), err)
		return false
	}
	return true
}

func (s *Session) setPhase(phase Phase) {
	s.phase = phase
	s.renderer.SetTurnIndicator(phase == PhaseAwaitingOwnTurn)
	s.renderer.ShowPhase(phase)
}

func (s *Session) drawOutcome(side Side, outcome mb.ShotOutcome) {
	switch outcome.Kind {
	case mb.OutcomeMiss:
		s.renderer.MarkMiss(side, outcome.Target)

	case mb.OutcomeHit:
		s.renderer.MarkHit(side, outcome.Target, false, outcome.ShipIndex)

	case mb.OutcomeSunk, mb.OutcomeGameEnd:
		if len(outcome.Positions) == 0 {
			s.renderer.MarkHit(side, outcome.Target, false, outcome.ShipIndex)
			return
		}
		for _, pos := range outcome.Positions {
			s.renderer.MarkHit(side, pos, true, outcome.ShipIndex)
		}
	}
}

func (s *Session) redrawShip(index int, old []mb.Coordinates) {
	for _, c := range old {
		s.renderer.ClearCell(SideOwn, c)
	}
	ship, _ := s.board.Ship(index)
	for _, c := range ship.Positions() {
		s.renderer.MarkShipCell(SideOwn, c, index)
	}
}

func (s *Session) redraw() {
	s.renderer.ClearBoard(SideOwn)
	s.renderer.ClearBoard(SideOpponent)
	for i, ship := range s.board.Ships() {
		for _, c := range ship.Positions() {
			s.renderer.MarkShipCell(SideOwn, c, i)
		}
	}
	s.renderer.SetTurnIndicator(false)
	s.renderer.ShowPhase(s.phase)
}
