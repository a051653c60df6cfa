package provisioning

import (
	"fmt"
	"maps"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/storage"
)

// Observer receives structured events from the state machine.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	State     State             // Machine state the event belongs to, if any
	Backend   string            // Storage backend if known
	Attempt   int               // Attempt number, 0 outside the loop
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventAttemptStarted indicates a new pass through the loop.
	EventAttemptStarted EventType = "attempt.started"

	// EventStateCollecting indicates backend parameters are being gathered.
	EventStateCollecting EventType = "state.collecting"
	// EventStateCreating indicates the creation request was sent.
	EventStateCreating EventType = "state.creating"
	// EventStateActive indicates the storage domain is active.
	EventStateActive EventType = "state.active"
	// EventStateRetry indicates the attempt failed and the loop restarts.
	EventStateRetry EventType = "state.retry"
	// EventStateFatal indicates the workflow gave up.
	EventStateFatal EventType = "state.fatal"

	// EventCleanupStarted indicates a cleanup call started.
	EventCleanupStarted EventType = "cleanup.started"
	// EventCleanupCompleted indicates a cleanup call finished.
	EventCleanupCompleted EventType = "cleanup.completed"
	// EventCleanupFailed indicates a cleanup call failed.
	EventCleanupFailed EventType = "cleanup.failed"
)

// ConsoleObserver implements Observer on top of a logrus logger.
type ConsoleObserver struct {
	log           logrus.FieldLogger
	contextFields map[string]string
}

// NewConsoleObserver creates a logrus-backed observer.
func NewConsoleObserver(log logrus.FieldLogger) *ConsoleObserver {
	return &ConsoleObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Event implements Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := logrus.Fields{"event": string(event.Type)}
	for k, v := range o.contextFields {
		fields[k] = v
	}
	for k, v := range event.Fields {
		fields[k] = v
	}
	if event.Backend != "" {
		fields["backend"] = event.Backend
	}
	if event.Attempt > 0 {
		fields["attempt"] = event.Attempt
	}

	entry := o.log.WithFields(fields)
	switch event.Type {
	case EventStateRetry, EventCleanupFailed:
		entry.Warn(event.Message)
	case EventStateFatal:
		entry.Error(event.Message)
	case EventStateActive, EventAttemptStarted:
		entry.Info(event.Message)
	default:
		entry.Debug(event.Message)
	}
}

// WithFields implements Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := maps.Clone(o.contextFields)
	maps.Copy(newFields, fields)
	return &ConsoleObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

// Helper functions for common events

func logAttemptStart(observer Observer, attempt int) {
	observer.Event(Event{
		Type:    EventAttemptStarted,
		State:   StateCollecting,
		Attempt: attempt,
		Message: fmt.Sprintf("storage domain attempt %d", attempt),
	})
}

func logState(observer Observer, state State, attempt int, backend storage.DomainType, message string) {
	observer.Event(Event{
		Type:    state.eventType(),
		State:   state,
		Backend: string(backend),
		Attempt: attempt,
		Message: message,
	})
}

func logCleanup(observer Observer, eventType EventType, tag string, err error) {
	msg := tag
	if err != nil {
		msg = fmt.Sprintf("%s: %v", tag, err)
	}
	observer.Event(Event{
		Type:    eventType,
		Message: msg,
		Fields:  map[string]string{"tag": tag},
	})
}
