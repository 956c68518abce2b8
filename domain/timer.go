package domain

import (
	"time"

	"github.com/google/uuid"
)

type TimerKind int

const (
	Obfuscation TimerKind = iota
	Deletion
)

func (k TimerKind) String() string {
	if k == Obfuscation {
		return "obfuscation"
	}
	return "deletion"
}

// ExecutionContext is where a destruction timer fires.
// The sender side obfuscates, the receiver side deletes.
type ExecutionContext int

const (
	Sender ExecutionContext = iota
	Receiver
)

func (c ExecutionContext) String() string {
	if c == Sender {
		return "sender"
	}
	return "receiver"
}

// Allows reports whether a timer kind may run in this context.
func (c ExecutionContext) Allows(kind TimerKind) bool {
	switch c {
	case Sender:
		return kind == Obfuscation
	case Receiver:
		return kind == Deletion
	default:
		return false
	}
}

type DestructionTimerEntry struct {
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	FireAt         time.Time
	Kind           TimerKind
}
