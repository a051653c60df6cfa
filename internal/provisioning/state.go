package provisioning

// State is a state of the provisioning machine.
type State string

// Machine states. Collecting is the initial state; Active and Fatal are
// terminal.
const (
	StateCollecting State = "collecting"
	StateCreating   State = "creating"
	StateActive     State = "active"
	StateRetry      State = "retry"
	StateFatal      State = "fatal"
)

func (s State) eventType() EventType {
	switch s {
	case StateCreating:
		return EventStateCreating
	case StateActive:
		return EventStateActive
	case StateRetry:
		return EventStateRetry
	case StateFatal:
		return EventStateFatal
	default:
		return EventStateCollecting
	}
}
