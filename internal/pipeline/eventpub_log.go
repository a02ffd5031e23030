package pipeline

import "github.com/rs/zerolog"

// LogPublisher writes pipeline events to a zerolog logger. Retries and
// fallbacks log at warn, aborts and exhaustion at error, the rest at debug.
type LogPublisher struct {
	Logger zerolog.Logger
}

func (p LogPublisher) Publish(e Event) {
	var ev *zerolog.Event
	switch e.Name {
	case EventRetry, EventFallback:
		ev = p.Logger.Warn()
	case EventAbort, EventExhausted:
		ev = p.Logger.Error()
	default:
		ev = p.Logger.Debug()
	}
	ev.Str("event", e.Name).Str("model", e.Model).Fields(e.Fields).Msg("pipeline")
}
