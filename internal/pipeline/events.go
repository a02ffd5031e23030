package pipeline

// Event represents a pipeline lifecycle event.
// Minimal and stable: name + model and optional fields via key/values.
type Event struct {
	Name   string
	Model  string
	Fields map[string]any
}

// Event names published by Runner.
const (
	EventAttempt   = "attempt"
	EventRetry     = "retry"
	EventFallback  = "fallback"
	EventSuccess   = "success"
	EventAbort     = "abort"
	EventExhausted = "exhausted"
)

// EventPublisher receives events from the pipeline. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans an event out to every non-nil publisher in order.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}
