package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"otr-lab/contract"
	"otr-lab/domain/event"
)

const defaultSinkTimeout = 2 * time.Second

// EventFanout broadcasts domain events to the subscribed sinks.
//
// Producers only see an EventSink, events are buffered and dispatched by Run
// in the order they were consumed. Delivery is best effort: a failing or slow
// sink is logged and skipped, there is no retry.
//
// EventFanout is safe for concurrent use by multiple goroutines.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	sinkTimeout time.Duration

	mu    sync.RWMutex
	sinks []contract.EventSink
}

func NewEventFanout(log *slog.Logger, bufferSize int, sinkTimeout time.Duration) *EventFanout {
	if sinkTimeout <= 0 {
		sinkTimeout = defaultSinkTimeout
	}
	return &EventFanout{
		log:         log,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Subscribe registers sinks for every event consumed from now on.
func (w *EventFanout) Subscribe(sinks ...contract.EventSink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sinks = append(w.sinks, sinks...)
}

// Consume enqueues the event, blocking while the buffer is full.
func (w *EventFanout) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case w.events <- e:
		return nil
	case <-ctx.Done():
		w.log.Warn("Event dropped", "conversation", e.ConversationID(), "error", ctx.Err())
		return ctx.Err()
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One sink for each event, each bounded by the sink timeout
func (w *EventFanout) Fanout(ctx context.Context, e event.DomainEvent) {
	w.mu.RLock()
	sinks := append([]contract.EventSink(nil), w.sinks...)
	w.mu.RUnlock()

	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, e); err != nil {
			w.log.Warn("Sink failed to consume event", "sink", fmt.Sprintf("%T", sink), "error", err)
		}
		cancel()
	}
}
