package domain

// Prekey is a one-time public key published so peers can open a session.
type Prekey struct {
	ID  uint16
	Key string
}
