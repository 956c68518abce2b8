// Package domain contains the core concepts of the messaging client.
// Messages, users and conversations are plain values, persistence lives in repositories.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type LinkPreviewState int

const (
	LinkPreviewDone LinkPreviewState = iota
	LinkPreviewWaitingToBeProcessed
	LinkPreviewDownloaded
	LinkPreviewProcessed
	LinkPreviewUploaded
)

// Pending means the link preview has not been sent yet.
func (s LinkPreviewState) Pending() bool {
	return s != LinkPreviewDone
}

// Message holds the metadata of a stored message.
// Fragments are owned by the message store.
type Message struct {
	Nonce               uuid.UUID
	ConversationID      uuid.UUID
	SenderID            uuid.UUID // zero once cleared
	ServerTimestamp     time.Time
	IsSent              bool
	DestructionDeadline *time.Time
	IsObfuscated        bool
	LinkPreviewState    LinkPreviewState
	Deleted             bool
}

func (m Message) HasSender() bool {
	return m.SenderID != uuid.Nil
}

func (m Message) IsSentBy(userID uuid.UUID) bool {
	return m.HasSender() && m.SenderID == userID
}

// IsZombie means the message was deleted and any pending action on it is void.
func (m Message) IsZombie() bool {
	return m.Deleted
}
