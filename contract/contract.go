//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"otr-lab/domain"
	"otr-lab/domain/event"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// SessionDirectory is the opaque store of per-device cryptographic sessions.
// Encrypt only advances a pending cache, Commit makes it durable and
// DiscardCache rolls every pending advance back.
type SessionDirectory interface {
	HasSession(sessionID string) bool
	Encrypt(plaintext []byte, sessionID string) ([]byte, error)
	DiscardCache()
	Commit() error
	GeneratePrekeys(from, to uint16) ([]domain.Prekey, error)
	GenerateLastPrekey() (string, error)
}

// SessionFailureTracker remembers devices whose session could not be established.
type SessionFailureTracker interface {
	HasFailed(sessionID string) (bool, error)
	Reset(sessionIDs ...string) error
}

// MessageFetcher looks up stored message metadata by nonce.
type MessageFetcher interface {
	FetchMessage(conversationID, nonce uuid.UUID) (domain.Message, error)
}

// TimerHandler performs the destruction action once a timer is due.
type TimerHandler interface {
	OnTimerFired(ctx context.Context, entry domain.DestructionTimerEntry) error
}
