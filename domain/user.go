package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// User is a participant of conversations owning one or more device clients.
type User struct {
	ID               uuid.UUID
	Name             string
	IsService        bool
	IsAccountDeleted bool
	Clients          []Client
}

// Client is a single device of a user.
// Each client holds its own cryptographic session.
type Client struct {
	ID     string
	UserID uuid.UUID
}

// SessionID identifies the session with this client in the session directory.
func (c Client) SessionID() string {
	return fmt.Sprintf("%s_%s", c.UserID, c.ID)
}

// SelfClient is the local device sending messages.
// An empty ClientID means the device was never registered remotely.
type SelfClient struct {
	User     User
	ClientID string
}

func (s SelfClient) IsRegistered() bool {
	return s.ClientID != ""
}
