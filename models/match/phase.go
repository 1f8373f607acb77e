package match

type Phase uint8

const (
	PhaseSettingUpFleet Phase = iota
	PhaseWaitingForOpponentReady
	PhaseAwaitingOwnTurn
	PhaseAwaitingOpponentTurn
	PhaseGameEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseSettingUpFleet:
		return "setting up fleet"
	case PhaseWaitingForOpponentReady:
		return "waiting for opponent to be ready"
	case PhaseAwaitingOwnTurn:
		return "your turn"
	case PhaseAwaitingOpponentTurn:
		return "opponent's turn"
	case PhaseGameEnded:
		return "game ended"
	default:
		return "unknown"
	}
}

type Result uint8

const (
	ResultNone Result = iota
	ResultWon
	ResultLost
	// Ended early, by either player or by a lost connection
	ResultAbandoned
)

func (r Result) String() string {
	switch r {
	case ResultWon:
		return "won"
	case ResultLost:
		return "lost"
	case ResultAbandoned:
		return "abandoned"
	default:
		return "none"
	}
}
