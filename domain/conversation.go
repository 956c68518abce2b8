package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationType int

const (
	OneOnOne ConversationType = iota
	Group
	Self
	Connection
)

func (t ConversationType) String() string {
	switch t {
	case OneOnOne:
		return "one_on_one"
	case Group:
		return "group"
	case Self:
		return "self"
	case Connection:
		return "connection"
	default:
		return "unknown"
	}
}

// Conversation is the addressing context of a message.
// Participants are the local participants and include the self user.
type Conversation struct {
	ID                        uuid.UUID
	Type                      ConversationType
	ConnectedUser             *User
	Participants              []User
	MessageDestructionTimeout MessageDestructionTimeout
}

// OtherUsers returns participants that are not the given self user.
func (c Conversation) OtherUsers(selfID uuid.UUID) []User {
	var others []User
	for _, u := range c.Participants {
		if u.ID != selfID {
			others = append(others, u)
		}
	}
	return others
}

// Participant finds a local participant by its identifier.
func (c Conversation) Participant(id uuid.UUID) (User, bool) {
	for _, u := range c.Participants {
		if u.ID == id {
			return u, true
		}
	}
	if c.ConnectedUser != nil && c.ConnectedUser.ID == id {
		return *c.ConnectedUser, true
	}
	return User{}, false
}

// UpdateMessageDestructionTimeout sets the ephemeral timeout.
// Only one-to-one conversations carry a local timeout, for others it's a no-op.
func (c *Conversation) UpdateMessageDestructionTimeout(timeout MessageDestructionTimeout) bool {
	if c.Type != OneOnOne {
		return false
	}
	c.MessageDestructionTimeout = timeout
	return true
}

// MessageExpiration is the ephemeral lifetime applied to new messages, zero if none.
func (c Conversation) MessageExpiration() time.Duration {
	return c.MessageDestructionTimeout.Duration()
}
