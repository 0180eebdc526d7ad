package session

// State is the lifecycle position of a Session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateAuthenticated State = "authenticated"
	StateLoggedOut     State = "logged_out"
)

func (s State) String() string {
	return string(s)
}

// allowedTransitions lists the legal successor states.
// A logged out session may log in again; a failed initialization falls back to uninitialized.
var allowedTransitions = map[State][]State{
	StateUninitialized: {StateInitializing},
	StateInitializing:  {StateReady, StateAuthenticated, StateUninitialized},
	StateReady:         {StateAuthenticated},
	StateAuthenticated: {StateLoggedOut},
	StateLoggedOut:     {StateAuthenticated},
}

// CanTransition reports whether from -> to is a legal transition.
func CanTransition(from State, to State) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
