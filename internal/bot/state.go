package bot

// SessionState is the controller's current belief about where the client is.
type SessionState int

const (
	StateQueueing SessionState = iota
	StateLobby
	StateFindingMatch
	StateLoading
	StateDrafting
	StateInMatch
	StateSurrendering
	StatePostGame
	StateClientError
)

func (s SessionState) String() string {
	switch s {
	case StateQueueing:
		return "QUEUEING"
	case StateLobby:
		return "LOBBY"
	case StateFindingMatch:
		return "FINDING_MATCH"
	case StateLoading:
		return "LOADING"
	case StateDrafting:
		return "DRAFTING"
	case StateInMatch:
		return "IN_MATCH"
	case StateSurrendering:
		return "SURRENDERING"
	case StatePostGame:
		return "POST_GAME"
	case StateClientError:
		return "CLIENT_ERROR"
	}
	return "UNKNOWN"
}
