package campaign

// State is a step of a run
type State int

const (
	StateLoading State = iota
	StateFiltering
	StateValidating
	StateConnecting
	StateSending
	StateFinalizing
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateLoading:    "loading",
	StateFiltering:  "filtering",
	StateValidating: "validating",
	StateConnecting: "connecting",
	StateSending:    "sending",
	StateFinalizing: "finalizing",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the run has stopped
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
