package sink

import (
	"context"
	"sync"
	"time"

	"otr-lab/domain/event"

	"github.com/google/uuid"
)

type Destruction struct {
	MessageID uuid.UUID
	Deleted   bool
	At        time.Time
}

// Timeline keeps the destructions seen per conversation, the way a
// conversation screen would refresh.
type Timeline struct {
	mu              sync.RWMutex
	byConversation  map[uuid.UUID][]Destruction
	pendingOutbound []*event.MessageDeletedForEveryone
}

func NewTimeline() *Timeline {
	return &Timeline{byConversation: make(map[uuid.UUID][]Destruction)}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch evt := e.(type) {
	case event.MessageObfuscated:
		t.byConversation[evt.Conversation] = append(t.byConversation[evt.Conversation],
			Destruction{MessageID: evt.MessageID, At: evt.At})
	case event.MessageDeletedForEveryone:
		t.byConversation[evt.Conversation] = append(t.byConversation[evt.Conversation],
			Destruction{MessageID: evt.MessageID, Deleted: true, At: evt.At})
		t.pendingOutbound = append(t.pendingOutbound, &evt)
	}
	return nil
}

func (t *Timeline) Destructions(conversationID uuid.UUID) []Destruction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Destruction(nil), t.byConversation[conversationID]...)
}

// Count is the number of destructions seen for all conversations.
func (t *Timeline) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	for _, d := range t.byConversation {
		count += len(d)
	}
	return count
}

// DrainOutbound returns the delete messages still to hand over to the transport.
func (t *Timeline) DrainOutbound() []*event.MessageDeletedForEveryone {
	t.mu.Lock()
	defer t.mu.Unlock()
	drained := t.pendingOutbound
	t.pendingOutbound = nil
	return drained
}
