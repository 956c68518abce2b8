package workers

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"otr-lab/contract"
	"otr-lab/domain"
	"otr-lab/errors"

	"github.com/google/uuid"
)

// DestructionTimer schedules the destruction of ephemeral messages for one
// execution context. At most one timer is live per message, starting it again
// replaces the deadline.
//
// Every mutation of the timer table happens under mu and a due entry leaves
// the table before its handler runs: a Stop that returns true always
// prevented the fire, a Stop that returns false came too late.
type DestructionTimer struct {
	log              *slog.Logger
	executionContext domain.ExecutionContext
	handler          contract.TimerHandler
	now              func() time.Time

	mu        sync.Mutex
	queue     timerQueue
	byMessage map[uuid.UUID]*timerItem
	wake      chan struct{}
}

func NewDestructionTimer(log *slog.Logger, executionContext domain.ExecutionContext, handler contract.TimerHandler) *DestructionTimer {
	return &DestructionTimer{
		log:              log.With("context", executionContext.String()),
		executionContext: executionContext,
		handler:          handler,
		now:              time.Now,
		byMessage:        make(map[uuid.UUID]*timerItem),
		wake:             make(chan struct{}, 1),
	}
}

func (t *DestructionTimer) ExecutionContext() domain.ExecutionContext {
	return t.executionContext
}

// Start schedules the message to be destroyed once timeout elapsed and
// returns the computed deadline.
func (t *DestructionTimer) Start(kind domain.TimerKind, conversationID, messageID uuid.UUID, timeout time.Duration) (time.Time, error) {
	fireAt := t.now().Add(timeout)
	return fireAt, t.StartAt(kind, conversationID, messageID, fireAt)
}

// StartAt schedules the message for an absolute deadline, as persisted before a restart.
func (t *DestructionTimer) StartAt(kind domain.TimerKind, conversationID, messageID uuid.UUID, fireAt time.Time) error {
	if !t.executionContext.Allows(kind) {
		return errors.ErrWrongExecutionContext
	}
	entry := domain.DestructionTimerEntry{
		ConversationID: conversationID,
		MessageID:      messageID,
		FireAt:         fireAt,
		Kind:           kind,
	}

	t.mu.Lock()
	if item, ok := t.byMessage[messageID]; ok {
		item.entry = entry
		heap.Fix(&t.queue, item.index)
	} else {
		item := &timerItem{entry: entry}
		heap.Push(&t.queue, item)
		t.byMessage[messageID] = item
	}
	t.mu.Unlock()

	t.log.Debug("Destruction timer started", "message", messageID, "kind", kind.String(), "fire_at", fireAt)
	t.notify()
	return nil
}

// Stop cancels the timer of the message. It reports whether a timer was
// cancelled before firing.
func (t *DestructionTimer) Stop(messageID uuid.UUID) bool {
	t.mu.Lock()
	item, ok := t.byMessage[messageID]
	if ok {
		heap.Remove(&t.queue, item.index)
		delete(t.byMessage, messageID)
	}
	t.mu.Unlock()

	if ok {
		t.log.Debug("Destruction timer stopped", "message", messageID)
		t.notify()
	}
	return ok
}

// StopAll cancels every scheduled timer, persisted deadlines are resumed on next start.
func (t *DestructionTimer) StopAll() {
	t.mu.Lock()
	count := len(t.byMessage)
	t.queue = nil
	t.byMessage = make(map[uuid.UUID]*timerItem)
	t.mu.Unlock()

	t.log.Debug("Destruction timers stopped", "count", count)
	t.notify()
}

func (t *DestructionTimer) IsTimerRunning(messageID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.byMessage[messageID]
	return ok
}

func (t *DestructionTimer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byMessage)
}

// Run fires due timers until ctx is cancelled.
func (t *DestructionTimer) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		wait, scheduled := t.nextWait()
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		var fire <-chan time.Time
		if scheduled {
			timer.Reset(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			t.log.Debug("Context done, stopping destruction timer")
			return nil
		case <-t.wake:
		case <-fire:
			t.fireDue(ctx)
		}
	}
}

func (t *DestructionTimer) nextWait() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return 0, false
	}
	return max(t.queue[0].entry.FireAt.Sub(t.now()), 0), true
}

func (t *DestructionTimer) fireDue(ctx context.Context) {
	now := t.now()
	var due []domain.DestructionTimerEntry

	t.mu.Lock()
	for len(t.queue) > 0 && !t.queue[0].entry.FireAt.After(now) {
		item := heap.Pop(&t.queue).(*timerItem)
		delete(t.byMessage, item.entry.MessageID)
		due = append(due, item.entry)
	}
	t.mu.Unlock()

	for _, entry := range due {
		if err := t.handler.OnTimerFired(ctx, entry); err != nil {
			t.log.Error("Destruction failed", "message", entry.MessageID, "kind", entry.Kind.String(), "error", err)
		}
	}
}

func (t *DestructionTimer) notify() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

type timerItem struct {
	entry domain.DestructionTimerEntry
	index int
}

// timerQueue is a min-heap of deadlines.
type timerQueue []*timerItem

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool { return q[i].entry.FireAt.Before(q[j].entry.FireAt) }

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	item := x.(*timerItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
