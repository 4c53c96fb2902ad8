package session

// Phase is the lifecycle state of one conversation session. All flag
// interactions (resuming, paused, warning) collapse into this single value
// plus the Snapshot struct; transitions happen in one place (Engine.reduce).
type Phase int

const (
	// PhaseIdle: no session; slot cleared; processed-call set empty.
	PhaseIdle Phase = iota
	// PhaseActive: connected and consuming events.
	PhaseActive
	// PhasePaused: transport torn down, slot and history retained.
	PhasePaused
	// PhaseResuming: new transport coming up; slot clear on open suppressed.
	PhaseResuming
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseActive:
		return "ACTIVE"
	case PhasePaused:
		return "PAUSED"
	case PhaseResuming:
		return "RESUMING"
	default:
		return "UNKNOWN"
	}
}
