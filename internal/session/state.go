package session

// State is the phase of the session state machine.
type State int

const (
	// Idle means no entry is open.
	Idle State = iota
	// Running means exactly one entry is open and owned by the controller.
	Running
	// Stopping is held while the open entry is being closed.
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}
