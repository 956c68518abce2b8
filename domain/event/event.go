package event

import (
	"time"

	"otr-lab/proto/messages"

	"github.com/google/uuid"
)

type DomainEvent interface {
	ConversationID() uuid.UUID
}

// MessageObfuscated is raised on the sender side once an ephemeral message
// content has been scrubbed.
type MessageObfuscated struct {
	MessageID    uuid.UUID
	Conversation uuid.UUID
	At           time.Time
}

func (m MessageObfuscated) ConversationID() uuid.UUID {
	return m.Conversation
}

// MessageDeletedForEveryone is raised on the receiver side when an ephemeral
// message expired. Delete is the message to send so other devices drop it too.
type MessageDeletedForEveryone struct {
	MessageID      uuid.UUID
	Conversation   uuid.UUID
	OriginalSender uuid.UUID
	Delete         *messages.GenericMessage
	At             time.Time
}

func (m MessageDeletedForEveryone) ConversationID() uuid.UUID {
	return m.Conversation
}
