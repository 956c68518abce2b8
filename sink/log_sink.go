package sink

import (
	"context"
	"fmt"
	"log/slog"

	"otr-lab/domain/event"
)

// LogSink writes destruction events to the log.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageObfuscated:
		s.log.Info("Ephemeral message obfuscated",
			"conversation", evt.Conversation,
			"message", evt.MessageID,
			"at", evt.At)
	case event.MessageDeletedForEveryone:
		s.log.Info("Ephemeral message deleted",
			"conversation", evt.Conversation,
			"message", evt.MessageID,
			"sender", evt.OriginalSender,
			"at", evt.At)
	default:
		s.log.Debug("Not implemented event", "type", fmt.Sprintf("%T", e))
	}
	return nil
}
